package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go-profile-builder/internal/domain"
	"go-profile-builder/pkg/apperror"
	"go-profile-builder/pkg/logger"
	"go-profile-builder/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type wizardUsecase struct {
	store    domain.WizardStateStore
	gateway  domain.ProfileGateway
	validate *validator.Validate
	policy   domain.SavePolicy
}

func NewWizardUsecase(store domain.WizardStateStore, gateway domain.ProfileGateway, validate *validator.Validate, policy domain.SavePolicy) domain.WizardUsecase {
	if !policy.IsValid() {
		policy = domain.SaveOptimistic
	}
	return &wizardUsecase{
		store:    store,
		gateway:  gateway,
		validate: validate,
		policy:   policy,
	}
}

// ============================================================================
// Start / hydration
// ============================================================================

func (u *wizardUsecase) Start(ctx context.Context, userID string) (*domain.WizardState, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	return u.ensureState(ctx, userID)
}

// ensureState returns the stored wizard state, creating and hydrating a new
// one when none exists. Hydration failure is non-fatal: the wizard proceeds
// with client-only defaults.
func (u *wizardUsecase) ensureState(ctx context.Context, userID string) (*domain.WizardState, error) {
	state, err := u.store.Get(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if state != nil {
		return state, nil
	}

	state = domain.NewWizardState(userID)

	server, err := u.gateway.LoadProfile(ctx, userID)
	if err != nil {
		logger.Log.Warn("profile hydration failed, starting with defaults", "user_id", userID, "error", err)
	} else if server != nil {
		mergeProfile(state.Profile, server)
		state.Hydrated = true
	}

	assignEntryIDs(state.Profile)

	if err := u.store.Set(ctx, state); err != nil {
		return nil, apperror.Internal(err)
	}
	return state, nil
}

// mergeProfile merges server fields into the local defaults: server values
// win where present, defaults fill the gaps. No field is dropped.
func mergeProfile(local *domain.ProfileData, server *domain.ProfileData) {
	mergeBasicInfo(&local.BasicInfo, &server.BasicInfo)
	mergeCareerAspiration(&local.CareerAspiration, &server.CareerAspiration)

	if len(server.Education) > 0 {
		local.Education = server.Education
	}
	if len(server.WorkExperience) > 0 {
		local.WorkExperience = server.WorkExperience
	}
	if len(server.Skills) > 0 {
		local.Skills = server.Skills
	}
	if len(server.Projects) > 0 {
		local.Projects = server.Projects
	}
	if len(server.Certifications) > 0 {
		local.Certifications = server.Certifications
	}
	if server.ResumeData != nil {
		local.ResumeData = server.ResumeData
	}
}

func mergeBasicInfo(local, server *domain.BasicInfo) {
	if server.FirstName != "" {
		local.FirstName = server.FirstName
	}
	if server.LastName != "" {
		local.LastName = server.LastName
	}
	if server.Email != "" {
		local.Email = server.Email
	}
	if server.Phone != "" {
		local.Phone = server.Phone
	}
	if server.Headline != "" {
		local.Headline = server.Headline
	}
	if server.Summary != "" {
		local.Summary = server.Summary
	}
	if server.WorkAuthStatus != "" {
		local.WorkAuthStatus = server.WorkAuthStatus
	}
	if server.VisaType != "" {
		local.VisaType = server.VisaType
	}
	if server.Address != (domain.Address{}) {
		local.Address = server.Address
	}
}

func mergeCareerAspiration(local, server *domain.CareerAspiration) {
	if server.DesiredTitle != "" {
		local.DesiredTitle = server.DesiredTitle
	}
	if server.DesiredIndustry != "" {
		local.DesiredIndustry = server.DesiredIndustry
	}
	if server.TargetSalaryMin != 0 {
		local.TargetSalaryMin = server.TargetSalaryMin
	}
	if server.TargetSalaryMax != 0 {
		local.TargetSalaryMax = server.TargetSalaryMax
	}
	if len(server.WorkPreferences) > 0 {
		local.WorkPreferences = server.WorkPreferences
	}
	if server.CareerGoals != "" {
		local.CareerGoals = server.CareerGoals
	}
	if server.RelocationOK {
		local.RelocationOK = true
	}
}

// assignEntryIDs gives every list entry a stable session ID where missing.
func assignEntryIDs(p *domain.ProfileData) {
	for i := range p.Education {
		if p.Education[i].ID == "" {
			p.Education[i].ID = uuid.NewString()
		}
	}
	for i := range p.WorkExperience {
		if p.WorkExperience[i].ID == "" {
			p.WorkExperience[i].ID = uuid.NewString()
		}
	}
	for i := range p.Skills {
		if p.Skills[i].ID == "" {
			p.Skills[i].ID = uuid.NewString()
		}
	}
	for i := range p.Projects {
		if p.Projects[i].ID == "" {
			p.Projects[i].ID = uuid.NewString()
		}
	}
	for i := range p.Certifications {
		if p.Certifications[i].ID == "" {
			p.Certifications[i].ID = uuid.NewString()
		}
	}
}

// ============================================================================
// Navigation
// ============================================================================

func (u *wizardUsecase) Next(ctx context.Context, userID string, patch domain.SectionPatch) (*domain.NextResult, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}

	state, err := u.ensureState(ctx, userID)
	if err != nil {
		return nil, err
	}

	step := domain.WizardSteps[state.CurrentStep]

	if len(patch) > 0 {
		if err := applySectionPatch(state.Profile, step.Section, patch); err != nil {
			return nil, err
		}
	}

	if err := u.validateSection(state.Profile, step.Section); err != nil {
		return nil, err
	}

	// Persist only the just-completed section, bounding the blast radius of
	// a partial failure to this one slice of the aggregate.
	var saveWarning string
	if err := u.gateway.SaveSection(ctx, userID, step.Section, state.Profile.Section(step.Section)); err != nil {
		logger.Log.Warn("section save failed",
			"user_id", userID, "section", step.Section, "policy", u.policy, "error", err)
		if u.policy == domain.SaveStrict {
			return nil, apperror.Unavailable("Your progress could not be saved. Please try again.")
		}
		saveWarning = "Your progress could not be saved to the server. Press Next again to retry."
	}

	state.Completed[state.CurrentStep] = true

	submitted := false
	if state.CurrentStep == domain.LastStepIndex() {
		submitted = true
		state.Submitted = true
	} else {
		state.CurrentStep++
	}

	state.UpdatedAt = time.Now().UTC()
	if err := u.store.Set(ctx, state); err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.NextResult{
		State:       state,
		Submitted:   submitted,
		SaveWarning: saveWarning,
	}, nil
}

func (u *wizardUsecase) Prev(ctx context.Context, userID string) (*domain.WizardState, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}

	state, err := u.ensureState(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Prev never validates and never persists.
	if state.CurrentStep > 0 {
		state.CurrentStep--
		state.UpdatedAt = time.Now().UTC()
		if err := u.store.Set(ctx, state); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	return state, nil
}

func (u *wizardUsecase) GoTo(ctx context.Context, userID string, i int) (*domain.WizardState, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}

	state, err := u.ensureState(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Blocked forward jumps are a no-op, not an error.
	if !state.CanNavigateTo(i) {
		return state, nil
	}

	if i != state.CurrentStep {
		state.CurrentStep = i
		state.UpdatedAt = time.Now().UTC()
		if err := u.store.Set(ctx, state); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	return state, nil
}

// ============================================================================
// Section updates
// ============================================================================

func (u *wizardUsecase) UpdateSection(ctx context.Context, userID string, name domain.SectionName, patch domain.SectionPatch) (*domain.WizardState, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	if !name.IsValid() {
		return nil, apperror.BadRequest("Unknown section: " + string(name))
	}

	state, err := u.ensureState(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := applySectionPatch(state.Profile, name, patch); err != nil {
		return nil, err
	}

	state.UpdatedAt = time.Now().UTC()
	if err := u.store.Set(ctx, state); err != nil {
		return nil, apperror.Internal(err)
	}
	return state, nil
}

func (u *wizardUsecase) ReplaceAll(ctx context.Context, userID string, profile *domain.ProfileData) (*domain.WizardState, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.BadRequest("Profile payload is required")
	}

	state, err := u.ensureState(ctx, userID)
	if err != nil {
		return nil, err
	}

	assignEntryIDs(profile)
	state.Profile = profile
	state.UpdatedAt = time.Now().UTC()
	if err := u.store.Set(ctx, state); err != nil {
		return nil, apperror.Internal(err)
	}
	return state, nil
}

// ============================================================================
// Skills
// ============================================================================

func (u *wizardUsecase) AddSkill(ctx context.Context, userID string, skill domain.Skill) (*domain.WizardState, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}

	if err := u.validate.Struct(skill); err != nil {
		return nil, apperror.ValidationFailed(validation.FieldErrors(err))
	}

	state, err := u.ensureState(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Skills are keyed by generated ID, never name+type: duplicates by name
	// are allowed and retained as distinct entries.
	if skill.ID == "" {
		skill.ID = uuid.NewString()
	}
	state.Profile.Skills = append(state.Profile.Skills, skill)

	state.UpdatedAt = time.Now().UTC()
	if err := u.store.Set(ctx, state); err != nil {
		return nil, apperror.Internal(err)
	}
	return state, nil
}

func (u *wizardUsecase) RemoveSkill(ctx context.Context, userID, skillID string) (*domain.WizardState, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}

	state, err := u.ensureState(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := state.Profile.Skills[:0]
	removed := false
	for _, s := range state.Profile.Skills {
		if s.ID == skillID {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	state.Profile.Skills = kept

	if removed {
		state.UpdatedAt = time.Now().UTC()
		if err := u.store.Set(ctx, state); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	return state, nil
}

// ============================================================================
// Resume merge / score
// ============================================================================

func (u *wizardUsecase) ApplyResume(ctx context.Context, userID string, resume *domain.ResumeData) (*domain.WizardState, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	if resume == nil {
		return nil, apperror.BadRequest("Resume data is required")
	}

	state, err := u.ensureState(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Extracted values only fill gaps; user input always wins.
	if resume.BasicInfo != nil {
		merged := *resume.BasicInfo
		mergeBasicInfo(&merged, &state.Profile.BasicInfo)
		state.Profile.BasicInfo = merged
	}
	if len(state.Profile.Education) == 0 && len(resume.Education) > 0 {
		state.Profile.Education = resume.Education
	}
	if len(state.Profile.WorkExperience) == 0 && len(resume.WorkExperiences) > 0 {
		state.Profile.WorkExperience = resume.WorkExperiences
	}
	if len(state.Profile.Skills) == 0 && len(resume.Skills) > 0 {
		state.Profile.Skills = resume.Skills
	}
	if len(state.Profile.Projects) == 0 && len(resume.Projects) > 0 {
		state.Profile.Projects = resume.Projects
	}
	if len(state.Profile.Certifications) == 0 && len(resume.Certifications) > 0 {
		state.Profile.Certifications = resume.Certifications
	}
	state.Profile.ResumeData = resume
	assignEntryIDs(state.Profile)

	state.UpdatedAt = time.Now().UTC()
	if err := u.store.Set(ctx, state); err != nil {
		return nil, apperror.Internal(err)
	}
	return state, nil
}

func (u *wizardUsecase) Score(ctx context.Context, userID string) (*domain.ScoreSummary, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}

	score, err := u.gateway.GetCompletionScore(ctx, userID)
	if err != nil {
		return nil, apperror.Unavailable("Completion score is temporarily unavailable")
	}
	return score, nil
}

// ============================================================================
// Section decode / validation
// ============================================================================

// applySectionPatch decodes a raw patch against the section's own type and
// replaces that slice of the aggregate.
func applySectionPatch(p *domain.ProfileData, name domain.SectionName, patch domain.SectionPatch) error {
	var err error
	switch name {
	case domain.SectionBasicInfo:
		var v domain.BasicInfo
		if err = json.Unmarshal(patch, &v); err == nil {
			p.BasicInfo = v
		}
	case domain.SectionCareerAspiration:
		var v domain.CareerAspiration
		if err = json.Unmarshal(patch, &v); err == nil {
			p.CareerAspiration = v
		}
	case domain.SectionEducation:
		var v []domain.Education
		if err = json.Unmarshal(patch, &v); err == nil {
			p.Education = v
		}
	case domain.SectionWorkExperience:
		var v []domain.WorkExperience
		if err = json.Unmarshal(patch, &v); err == nil {
			p.WorkExperience = v
		}
	case domain.SectionSkills:
		var v []domain.Skill
		if err = json.Unmarshal(patch, &v); err == nil {
			p.Skills = v
		}
	case domain.SectionProjects:
		var v []domain.Project
		if err = json.Unmarshal(patch, &v); err == nil {
			p.Projects = v
		}
	case domain.SectionCertifications:
		var v []domain.Certification
		if err = json.Unmarshal(patch, &v); err == nil {
			p.Certifications = v
		}
	default:
		return apperror.BadRequest("Unknown section: " + string(name))
	}

	if err != nil {
		return apperror.BadRequest("Invalid payload for section " + string(name) + ": " + err.Error())
	}
	assignEntryIDs(p)
	return nil
}

// validateSection runs the declarative rules for one section plus its
// cross-item invariants. Failures block advancement but never touch saved
// state.
func (u *wizardUsecase) validateSection(p *domain.ProfileData, name domain.SectionName) error {
	var err error
	switch name {
	case domain.SectionBasicInfo:
		err = u.validate.Struct(p.BasicInfo)
	case domain.SectionCareerAspiration:
		if err = u.validate.Struct(p.CareerAspiration); err == nil {
			if vErr := validateWorkPreferences(p.CareerAspiration.WorkPreferences); vErr != nil {
				return vErr
			}
		}
	case domain.SectionEducation:
		err = validateEach(u.validate, p.Education)
	case domain.SectionWorkExperience:
		err = validateEach(u.validate, p.WorkExperience)
	case domain.SectionSkills:
		err = validateEach(u.validate, p.Skills)
	case domain.SectionProjects:
		err = validateEach(u.validate, p.Projects)
	case domain.SectionCertifications:
		err = validateEach(u.validate, p.Certifications)
	}

	if err != nil {
		return apperror.ValidationFailed(validation.FieldErrors(err))
	}
	return nil
}

// validateEach runs struct validation over every entry of a section list.
func validateEach[T any](v *validator.Validate, items []T) error {
	for i := range items {
		if err := v.Struct(items[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateWorkPreferences enforces the ranking invariant: when preferences
// are present, the four canonical types each appear exactly once and their
// ranks form a permutation of 1..4.
func validateWorkPreferences(prefs []domain.WorkPreference) error {
	if len(prefs) == 0 {
		return nil
	}

	typesSeen := map[domain.WorkPreferenceType]bool{}
	ranksSeen := map[int]bool{}
	for _, p := range prefs {
		if !p.Type.IsValid() {
			return apperror.BadRequest("Invalid work preference type: " + string(p.Type))
		}
		if typesSeen[p.Type] {
			return apperror.BadRequest("Duplicate work preference type: " + string(p.Type))
		}
		typesSeen[p.Type] = true

		if p.Preference < 1 || p.Preference > 4 {
			return apperror.BadRequest("Work preference rank must be between 1 and 4")
		}
		if ranksSeen[p.Preference] {
			return apperror.BadRequest("Duplicate work preference rank")
		}
		ranksSeen[p.Preference] = true
	}

	if len(typesSeen) != len(domain.ValidWorkPreferenceTypes()) {
		return apperror.BadRequest("Work preferences must rank all four arrangement types")
	}
	return nil
}
