package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	// BasicInfo
	"FirstName":      "First name",
	"LastName":       "Last name",
	"Email":          "Email",
	"Phone":          "Phone number",
	"Headline":       "Headline",
	"Summary":        "Summary",
	"WorkAuthStatus": "Work authorization status",
	"VisaType":       "Visa type",

	// Address
	"StreetNumber":     "Street number",
	"StreetName":       "Street name",
	"StreetType":       "Street type",
	"Suburb":           "Suburb",
	"State":            "State",
	"Postcode":         "Postcode",
	"Country":          "Country",
	"ValidationSource": "Validation source",
	"ConfidenceScore":  "Confidence score",

	// CareerAspiration
	"DesiredTitle":    "Desired job title",
	"DesiredIndustry": "Desired industry",
	"TargetSalaryMin": "Minimum target salary",
	"TargetSalaryMax": "Maximum target salary",
	"WorkPreferences": "Work preferences",
	"CareerGoals":     "Career goals",

	// Education
	"Institution":  "Institution",
	"Degree":       "Degree",
	"FieldOfStudy": "Field of study",
	"GPA":          "GPA",
	"StartYear":    "Start year",
	"EndYear":      "End year",

	// Work experience
	"CompanyName": "Company name",
	"JobTitle":    "Job title",
	"Location":    "Location",
	"StartDate":   "Start date",
	"EndDate":     "End date",
	"Description": "Description",

	// Skills
	"SkillName":         "Skill name",
	"Proficiency":       "Proficiency",
	"SkillType":         "Skill type",
	"YearsOfExperience": "Years of experience",

	// Projects / Certifications
	"Name":         "Name",
	"URL":          "URL",
	"Technologies": "Technologies",
	"Issuer":       "Issuer",
	"IssueDate":    "Issue date",
	"ExpiryDate":   "Expiry date",
	"CredentialID": "Credential ID",
}

// FieldErrors converts validator errors into a field -> message map so the
// client can render them inline. Non-validator errors collapse into a single
// "_" entry; this function never panics past its boundary.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}

	for _, e := range validationErrors {
		out[fieldKey(e)] = formatSingleError(e)
	}
	return out
}

// fieldKey derives a stable snake_case key from the error's namespace,
// keeping slice indices ("Skills[2].SkillName" -> "skills[2].skill_name").
func fieldKey(e validator.FieldError) string {
	ns := e.Namespace()
	// Drop the root struct name
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		parts[i] = snakeCase(p)
	}
	return strings.Join(parts, ".")
}

// formatSingleError formats a single validation error to a user-facing message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)

	case "len":
		return fmt.Sprintf("%s must have exactly %s entries", label, param)

	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, param)

	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Split(param, " "), ", "))

	case "email":
		return fmt.Sprintf("%s is not a valid email address", label)

	case "url":
		return fmt.Sprintf("%s is not a valid URL", label)

	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and common punctuation (. ' - /)", label)

	case "valid_phone":
		return fmt.Sprintf("%s is not a valid phone number (7-15 digits, optional +)", label)

	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or special symbols", label)

	case "max_current_year":
		return fmt.Sprintf("%s cannot be later than the current year", label)

	case "gtefield":
		return fmt.Sprintf("%s must not be lower than %s", label, getFieldLabel(param))

	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-facing label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return strings.ReplaceAll(snakeCase(fieldName), "_", " ")
}

// snakeCase converts CamelCase (with optional [idx] suffixes) to snake_case.
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && s[i-1] != '[' {
				prev := rune(s[i-1])
				if !(prev >= 'A' && prev <= 'Z') {
					b.WriteRune('_')
				}
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
