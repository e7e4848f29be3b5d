package domain

import (
	"context"
	"encoding/json"
	"time"
)

// ============================================================================
// Step Registry
// ============================================================================

// Step is one page of the wizard, bound to exactly one profile section. The
// ordered sequence never changes at runtime.
type Step struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Section SectionName `json:"section"`
}

// WizardSteps is the fixed step registry in wizard order.
var WizardSteps = []Step{
	{ID: "basic-info", Title: "Basic Information", Section: SectionBasicInfo},
	{ID: "career-aspiration", Title: "Career Aspirations", Section: SectionCareerAspiration},
	{ID: "education", Title: "Education", Section: SectionEducation},
	{ID: "work-experience", Title: "Work Experience", Section: SectionWorkExperience},
	{ID: "skills", Title: "Skills", Section: SectionSkills},
	{ID: "projects", Title: "Projects", Section: SectionProjects},
	{ID: "certifications", Title: "Certifications", Section: SectionCertifications},
}

// StepCount returns the number of wizard steps.
func StepCount() int { return len(WizardSteps) }

// LastStepIndex is the index of the submission step.
func LastStepIndex() int { return len(WizardSteps) - 1 }

// ============================================================================
// Wizard State
// ============================================================================

// WizardState is the full resumable state of one user's wizard session.
// Completed grows monotonically; it only gates out-of-order navigation.
type WizardState struct {
	UserID      string       `json:"user_id"`
	CurrentStep int          `json:"current_step"`
	Completed   map[int]bool `json:"completed"`
	Profile     *ProfileData `json:"profile"`
	Submitted   bool         `json:"submitted"`
	Hydrated    bool         `json:"hydrated"` // server profile merged at start
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewWizardState returns a fresh state at step 0 with default profile data.
func NewWizardState(userID string) *WizardState {
	return &WizardState{
		UserID:      userID,
		CurrentStep: 0,
		Completed:   map[int]bool{},
		Profile:     NewProfileData(),
		UpdatedAt:   time.Now().UTC(),
	}
}

// CompletedSteps returns the completed set as a sorted-insensitive slice for
// transport.
func (s *WizardState) CompletedSteps() []int {
	out := make([]int, 0, len(s.Completed))
	for i := 0; i < StepCount(); i++ {
		if s.Completed[i] {
			out = append(out, i)
		}
	}
	return out
}

// CanNavigateTo reports whether a jump to step i is allowed: backwards or to
// any completed step. Blocked jumps are no-ops, not errors.
func (s *WizardState) CanNavigateTo(i int) bool {
	if i < 0 || i >= StepCount() {
		return false
	}
	return i <= s.CurrentStep || s.Completed[i]
}

// ============================================================================
// Section patches
// ============================================================================

// SectionPatch is a raw JSON patch for one section, decoded against the
// section's own type before validation.
type SectionPatch = json.RawMessage

// ============================================================================
// Save policy
// ============================================================================

// SavePolicy names the behavior when persisting a section fails during Next.
type SavePolicy string

const (
	// SaveOptimistic advances the wizard anyway and surfaces a warning.
	SaveOptimistic SavePolicy = "optimistic"
	// SaveStrict blocks the transition until the save succeeds.
	SaveStrict SavePolicy = "strict"
)

func (p SavePolicy) IsValid() bool {
	return p == SaveOptimistic || p == SaveStrict
}

// ============================================================================
// Wizard State Store
// ============================================================================

// WizardStateStore persists wizard session state between requests. Get
// returns (nil, nil) when no state exists for the user.
type WizardStateStore interface {
	Get(ctx context.Context, userID string) (*WizardState, error)
	Set(ctx context.Context, state *WizardState) error
	Clear(ctx context.Context, userID string) error
}

// ============================================================================
// Usecase interface
// ============================================================================

// NextResult reports the outcome of a Next transition. SaveWarning is set
// when the section save failed but the optimistic policy advanced anyway.
type NextResult struct {
	State       *WizardState `json:"state"`
	Submitted   bool         `json:"submitted"`
	SaveWarning string       `json:"save_warning,omitempty"`
}

type WizardUsecase interface {
	// Start returns the user's wizard state, hydrating a new one from the
	// upstream profile on first call. Hydration failure is non-fatal.
	Start(ctx context.Context, userID string) (*WizardState, error)

	// Next validates the current step with the patch applied, persists only
	// that section, marks the step complete and advances. On the last step
	// it acts as the submission trigger and does not advance.
	Next(ctx context.Context, userID string, patch SectionPatch) (*NextResult, error)

	// Prev moves back one step. Never validates, never persists.
	Prev(ctx context.Context, userID string) (*WizardState, error)

	// GoTo jumps to step i when allowed; otherwise returns the state
	// unchanged.
	GoTo(ctx context.Context, userID string, i int) (*WizardState, error)

	// UpdateSection applies a patch to one named section without advancing.
	UpdateSection(ctx context.Context, userID string, name SectionName, patch SectionPatch) (*WizardState, error)

	// ReplaceAll swaps the whole profile aggregate.
	ReplaceAll(ctx context.Context, userID string, profile *ProfileData) (*WizardState, error)

	// AddSkill appends a skill, assigning an ID when absent.
	AddSkill(ctx context.Context, userID string, skill Skill) (*WizardState, error)

	// RemoveSkill removes a skill by its generated ID.
	RemoveSkill(ctx context.Context, userID, skillID string) (*WizardState, error)

	// ApplyResume merges extracted resume fields into empty profile fields.
	ApplyResume(ctx context.Context, userID string, resume *ResumeData) (*WizardState, error)

	// Score proxies the upstream completion score.
	Score(ctx context.Context, userID string) (*ScoreSummary, error)
}
