package domain

import (
	"context"
	"time"
)

// ============================================================================
// Profile Sections
// ============================================================================

// SectionName identifies one independently persisted slice of the profile.
type SectionName string

const (
	SectionBasicInfo        SectionName = "basic_info"
	SectionCareerAspiration SectionName = "career_aspiration"
	SectionEducation        SectionName = "education"
	SectionWorkExperience   SectionName = "work_experience"
	SectionSkills           SectionName = "skills"
	SectionProjects         SectionName = "projects"
	SectionCertifications   SectionName = "certifications"
)

// ValidSectionNames returns all persistable section names in wizard order.
func ValidSectionNames() []SectionName {
	return []SectionName{
		SectionBasicInfo,
		SectionCareerAspiration,
		SectionEducation,
		SectionWorkExperience,
		SectionSkills,
		SectionProjects,
		SectionCertifications,
	}
}

// IsValid checks if the section name is a known section.
func (s SectionName) IsValid() bool {
	for _, valid := range ValidSectionNames() {
		if s == valid {
			return true
		}
	}
	return false
}

// ============================================================================
// Basic Info
// ============================================================================

type BasicInfo struct {
	FirstName string  `json:"first_name" validate:"required,min=1,max=100,valid_name,no_emoji"`
	LastName  string  `json:"last_name" validate:"required,min=1,max=100,valid_name,no_emoji"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     string  `json:"phone" validate:"omitempty,valid_phone"`
	Headline  string  `json:"headline" validate:"omitempty,max=150"`
	Summary   string  `json:"summary" validate:"omitempty,max=2000"`
	Address   Address `json:"address"`

	// Work authorization. VisaType is only meaningful (and required) when
	// the status is a visa category.
	WorkAuthStatus string `json:"work_auth_status" validate:"omitempty,oneof=citizen permanent_resident visa_holder visa_pending"`
	VisaType       string `json:"visa_type" validate:"required_if=WorkAuthStatus visa_holder,required_if=WorkAuthStatus visa_pending,omitempty,max=100"`
}

// ============================================================================
// Career Aspiration
// ============================================================================

// WorkPreferenceType enumerates the canonical work arrangement types.
type WorkPreferenceType string

const (
	WorkRemote   WorkPreferenceType = "remote"
	WorkHybrid   WorkPreferenceType = "hybrid"
	WorkOnsite   WorkPreferenceType = "onsite"
	WorkFlexible WorkPreferenceType = "flexible"
)

// ValidWorkPreferenceTypes returns the four canonical types.
func ValidWorkPreferenceTypes() []WorkPreferenceType {
	return []WorkPreferenceType{WorkRemote, WorkHybrid, WorkOnsite, WorkFlexible}
}

func (t WorkPreferenceType) IsValid() bool {
	for _, valid := range ValidWorkPreferenceTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// WorkPreference ranks one arrangement type. Across the four canonical
// entries the ranks must form a permutation of 1..4.
type WorkPreference struct {
	Type       WorkPreferenceType `json:"type" validate:"required,oneof=remote hybrid onsite flexible"`
	Preference int                `json:"preference" validate:"required,gte=1,lte=4"`
}

type CareerAspiration struct {
	DesiredTitle    string           `json:"desired_title" validate:"required,min=2,max=150"`
	DesiredIndustry string           `json:"desired_industry" validate:"omitempty,max=100"`
	TargetSalaryMin int              `json:"target_salary_min" validate:"omitempty,gte=0"`
	TargetSalaryMax int              `json:"target_salary_max" validate:"omitempty,gte=0,gtefield=TargetSalaryMin"`
	WorkPreferences []WorkPreference `json:"work_preferences" validate:"omitempty,len=4,dive"`
	CareerGoals     string           `json:"career_goals" validate:"omitempty,max=2000"`
	RelocationOK    bool             `json:"relocation_ok"`
}

// ============================================================================
// Education / Work Experience
// ============================================================================

type Education struct {
	ID           string  `json:"id"`
	Institution  string  `json:"institution" validate:"required,min=2,max=200"`
	Degree       string  `json:"degree" validate:"omitempty,max=150"`
	FieldOfStudy string  `json:"field_of_study" validate:"omitempty,max=150"`
	GPA          float64 `json:"gpa" validate:"omitempty,gte=0,lte=4"`
	StartYear    int     `json:"start_year" validate:"omitempty,gte=1900,max_current_year"`
	EndYear      int     `json:"end_year" validate:"omitempty,gte=1900"`
	Current      bool    `json:"current"`
}

type WorkExperience struct {
	ID          string     `json:"id"`
	CompanyName string     `json:"company_name" validate:"required,min=1,max=200"`
	JobTitle    string     `json:"job_title" validate:"required,min=1,max=150"`
	Location    string     `json:"location" validate:"omitempty,max=150"`
	StartDate   *time.Time `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date"`
	Current     bool       `json:"current"`
	Description string     `json:"description" validate:"omitempty,max=3000"`
}

// ============================================================================
// Skills
// ============================================================================

// SkillProficiency levels.
type SkillProficiency string

const (
	ProficiencyBeginner     SkillProficiency = "beginner"
	ProficiencyIntermediate SkillProficiency = "intermediate"
	ProficiencyAdvanced     SkillProficiency = "advanced"
	ProficiencyExpert       SkillProficiency = "expert"
)

// SkillType categories.
type SkillType string

const (
	SkillTechnical     SkillType = "technical"
	SkillSoft          SkillType = "soft"
	SkillLanguage      SkillType = "language"
	SkillCertification SkillType = "certification"
)

// Skill is keyed by its generated ID, never by name. Two skills with the same
// name but different types are distinct entries.
type Skill struct {
	ID                string           `json:"id"`
	SkillName         string           `json:"skill_name" validate:"required,min=1,max=100,no_emoji"`
	Proficiency       SkillProficiency `json:"proficiency" validate:"required,oneof=beginner intermediate advanced expert"`
	SkillType         SkillType        `json:"skill_type" validate:"required,oneof=technical soft language certification"`
	YearsOfExperience int              `json:"years_of_experience,omitempty" validate:"omitempty,gte=0,lte=70"`
}

// ============================================================================
// Projects / Certifications
// ============================================================================

type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	Description  string   `json:"description" validate:"omitempty,max=3000"`
	URL          string   `json:"url" validate:"omitempty,url"`
	Technologies []string `json:"technologies" validate:"omitempty,dive,max=60"`
}

type Certification struct {
	ID           string     `json:"id"`
	Name         string     `json:"name" validate:"required,min=2,max=200"`
	Issuer       string     `json:"issuer" validate:"omitempty,max=200"`
	IssueDate    *time.Time `json:"issue_date"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	CredentialID string     `json:"credential_id" validate:"omitempty,max=150"`
}

// ============================================================================
// Resume extraction
// ============================================================================

// ResumeData holds fields the upstream parser extracted from an uploaded
// resume. Values only fill profile fields that are still empty.
type ResumeData struct {
	BasicInfo       *BasicInfo       `json:"basic_info,omitempty"`
	WorkExperiences []WorkExperience `json:"work_experience,omitempty"`
	Education       []Education      `json:"education,omitempty"`
	Skills          []Skill          `json:"skills,omitempty"`
	Certifications  []Certification  `json:"certifications,omitempty"`
	Projects        []Project        `json:"projects,omitempty"`
	RawText         string           `json:"raw_text,omitempty"`
	ParsedAt        *time.Time       `json:"parsed_at,omitempty"`
}

// ============================================================================
// Aggregate
// ============================================================================

// ProfileData is the aggregate root for one user's career profile. It is
// owned by the wizard for the duration of a session and persisted
// section-by-section, never atomically.
type ProfileData struct {
	BasicInfo        BasicInfo        `json:"basic_info"`
	CareerAspiration CareerAspiration `json:"career_aspiration"`
	Education        []Education      `json:"education"`
	WorkExperience   []WorkExperience `json:"work_experience"`
	Skills           []Skill          `json:"skills"`
	Projects         []Project        `json:"projects"`
	Certifications   []Certification  `json:"certifications"`
	ResumeData       *ResumeData      `json:"resume_data,omitempty"`
}

// NewProfileData returns the client-side defaults a fresh wizard starts from.
func NewProfileData() *ProfileData {
	return &ProfileData{
		Education:      []Education{},
		WorkExperience: []WorkExperience{},
		Skills:         []Skill{},
		Projects:       []Project{},
		Certifications: []Certification{},
	}
}

// Section returns the named slice of the aggregate for persistence.
func (p *ProfileData) Section(name SectionName) interface{} {
	switch name {
	case SectionBasicInfo:
		return p.BasicInfo
	case SectionCareerAspiration:
		return p.CareerAspiration
	case SectionEducation:
		return p.Education
	case SectionWorkExperience:
		return p.WorkExperience
	case SectionSkills:
		return p.Skills
	case SectionProjects:
		return p.Projects
	case SectionCertifications:
		return p.Certifications
	}
	return nil
}

// ============================================================================
// Completion Score
// ============================================================================

type OverallScore struct {
	Points     int     `json:"points"`
	MaxPoints  int     `json:"max_points"`
	Percentage float64 `json:"percentage"`
	Level      string  `json:"level"`
	Badge      string  `json:"badge"`
}

type Milestone struct {
	Name           string `json:"name"`
	PointsRequired int    `json:"points_required"`
	PointsToGo     int    `json:"points_to_go"`
}

type ScoreSummary struct {
	OverallScore  OverallScore `json:"overall_score"`
	NextMilestone *Milestone   `json:"next_milestone,omitempty"`
}

// ============================================================================
// Persistence Gateway (upstream profile API boundary)
// ============================================================================

// CoordinatesRequest asks the upstream geocoder for a validated address's
// coordinates.
type CoordinatesRequest struct {
	Address    string `json:"address"`
	PropertyID string `json:"property_id"`
	Country    string `json:"country"`
}

type CoordinatesResult struct {
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// ProfileGateway is the outbound boundary to the upstream profile API.
// LoadProfile returns (nil, nil) when the upstream has no profile yet.
// Errors are surfaced to callers to log and degrade; nothing retries
// automatically.
type ProfileGateway interface {
	LoadProfile(ctx context.Context, userID string) (*ProfileData, error)
	SaveSection(ctx context.Context, userID string, section SectionName, data interface{}) error
	GetCompletionScore(ctx context.Context, userID string) (*ScoreSummary, error)
	ParseResume(ctx context.Context, userID, filename string, data []byte) (*ResumeData, error)
	ResolveCoordinates(ctx context.Context, req CoordinatesRequest) (*CoordinatesResult, error)
}
