package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go-profile-builder/internal/domain"
	"go-profile-builder/internal/repository/memory"
	"go-profile-builder/internal/usecase"
	"go-profile-builder/pkg/apperror"
	"go-profile-builder/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock upstream gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) LoadProfile(ctx context.Context, userID string) (*domain.ProfileData, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfileData), args.Error(1)
}

func (m *MockGateway) SaveSection(ctx context.Context, userID string, section domain.SectionName, data interface{}) error {
	return m.Called(ctx, userID, section, data).Error(0)
}

func (m *MockGateway) GetCompletionScore(ctx context.Context, userID string) (*domain.ScoreSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScoreSummary), args.Error(1)
}

func (m *MockGateway) ParseResume(ctx context.Context, userID, filename string, data []byte) (*domain.ResumeData, error) {
	args := m.Called(ctx, userID, filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResumeData), args.Error(1)
}

func (m *MockGateway) ResolveCoordinates(ctx context.Context, req domain.CoordinatesRequest) (*domain.CoordinatesResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoordinatesResult), args.Error(1)
}

func authCtx(userID string) context.Context {
	return context.WithValue(context.Background(), domain.KeyUserID, userID)
}

var validBasicInfo = domain.SectionPatch(`{"first_name":"Jane","last_name":"Doe","email":"jane@example.com"}`)

func TestWizardIDOR(t *testing.T) {
	gateway := new(MockGateway)
	uc := usecase.NewWizardUsecase(memory.NewWizardStore(), gateway, validation.New(), domain.SaveOptimistic)

	t.Run("Should fail when Context UserID does not match Argument UserID", func(t *testing.T) {
		_, err := uc.Start(authCtx("user1"), "user2")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only access your own profile")
	})

	t.Run("Should fail safely when Context UserID is nil", func(t *testing.T) {
		_, err := uc.Start(context.Background(), "user1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "User not authenticated")
	})
}

func TestWizardStartHydration(t *testing.T) {
	t.Run("Server values win, defaults fill the gaps", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("LoadProfile", mock.Anything, "user1").Return(&domain.ProfileData{
			BasicInfo: domain.BasicInfo{FirstName: "Jane", Email: "jane@example.com"},
			Skills: []domain.Skill{
				{SkillName: "Go", Proficiency: domain.ProficiencyAdvanced, SkillType: domain.SkillTechnical},
			},
		}, nil)

		uc := usecase.NewWizardUsecase(memory.NewWizardStore(), gateway, validation.New(), domain.SaveOptimistic)

		state, err := uc.Start(authCtx("user1"), "user1")
		require.NoError(t, err)
		assert.True(t, state.Hydrated)
		assert.Equal(t, "Jane", state.Profile.BasicInfo.FirstName)
		assert.Equal(t, "jane@example.com", state.Profile.BasicInfo.Email)
		assert.NotNil(t, state.Profile.Education)

		require.Len(t, state.Profile.Skills, 1)
		assert.NotEmpty(t, state.Profile.Skills[0].ID, "hydrated entries get session IDs")
	})

	t.Run("Hydration failure is non-fatal", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("LoadProfile", mock.Anything, "user1").Return(nil, errors.New("upstream down"))

		uc := usecase.NewWizardUsecase(memory.NewWizardStore(), gateway, validation.New(), domain.SaveOptimistic)

		state, err := uc.Start(authCtx("user1"), "user1")
		require.NoError(t, err)
		assert.False(t, state.Hydrated)
		assert.Equal(t, 0, state.CurrentStep)
	})

	t.Run("Second Start reuses stored state without reloading", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("LoadProfile", mock.Anything, "user1").Return(nil, nil).Once()

		uc := usecase.NewWizardUsecase(memory.NewWizardStore(), gateway, validation.New(), domain.SaveOptimistic)

		_, err := uc.Start(authCtx("user1"), "user1")
		require.NoError(t, err)
		_, err = uc.Start(authCtx("user1"), "user1")
		require.NoError(t, err)

		gateway.AssertNumberOfCalls(t, "LoadProfile", 1)
	})
}

func TestWizardNext(t *testing.T) {
	t.Run("Valid section advances and marks completion", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("LoadProfile", mock.Anything, "user1").Return(nil, nil)
		gateway.On("SaveSection", mock.Anything, "user1", domain.SectionBasicInfo, mock.Anything).Return(nil)

		uc := usecase.NewWizardUsecase(memory.NewWizardStore(), gateway, validation.New(), domain.SaveOptimistic)

		result, err := uc.Next(authCtx("user1"), "user1", validBasicInfo)
		require.NoError(t, err)
		assert.False(t, result.Submitted)
		assert.Empty(t, result.SaveWarning)
		assert.Equal(t, 1, result.State.CurrentStep)
		assert.True(t, result.State.Completed[0])
	})

	t.Run("Only the current section is persisted", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("LoadProfile", mock.Anything, "user1").Return(nil, nil)
		gateway.On("SaveSection", mock.Anything, "user1", domain.SectionBasicInfo, mock.Anything).Return(nil).Once()

		uc := usecase.NewWizardUsecase(memory.NewWizardStore(), gateway, validation.New(), domain.SaveOptimistic)

		_, err := uc.Next(authCtx("user1"), "user1", validBasicInfo)
		require.NoError(t, err)

		gateway.AssertExpectations(t)
	})

	t.Run("Validation failure blocks advancement", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("LoadProfile", mock.Anything, "user1").Return(nil, nil)

		store := memory.NewWizardStore()
		uc := usecase.NewWizardUsecase(store, gateway, validation.New(), domain.SaveOptimistic)

		// Missing email
		_, err := uc.Next(authCtx("user1"), "user1", domain.SectionPatch(`{"first_name":"Jane","last_name":"Doe"}`))
		require.Error(t, err)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Details, "email")

		state, err := store.Get(context.Background(), "user1")
		require.NoError(t, err)
		require.NotNil(t, state)
		assert.Equal(t, 0, state.CurrentStep)
		assert.Empty(t, state.Completed)

		gateway.AssertNotCalled(t, "SaveSection", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Malformed patch is rejected", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("LoadProfile", mock.Anything, "user1").Return(nil, nil)

		uc := usecase.NewWizardUsecase(memory.NewWizardStore(), gateway, validation.New(), domain.SaveOptimistic)

		_, err := uc.Next(authCtx("user1"), "user1", domain.SectionPatch(`{"first_name":42}`))
		assert.Error(t, err)
	})
}

func TestWizardSavePolicy(t *testing.T) {
	t.Run("Optimistic policy advances with a warning on save failure", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("LoadProfile", mock.Anything, "user1").Return(nil, nil)
		gateway.On("SaveSection", mock.Anything, "user1", domain.SectionBasicInfo, mock.Anything).Return(errors.New("upstream down"))

		uc := usecase.NewWizardUsecase(memory.NewWizardStore(), gateway, validation.New(), domain.SaveOptimistic)

		result, err := uc.Next(authCtx("user1"), "user1", validBasicInfo)
		require.NoError(t, err)
		assert.NotEmpty(t, result.SaveWarning)
		assert.Equal(t, 1, result.State.CurrentStep)
		assert.True(t, result.State.Completed[0])
	})

	t.Run("Strict policy blocks the transition on save failure", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("LoadProfile", mock.Anything, "user1").Return(nil, nil)
		gateway.On("SaveSection", mock.Anything, "user1", domain.SectionBasicInfo, mock.Anything).Return(errors.New("upstream down"))

		store := memory.NewWizardStore()
		uc := usecase.NewWizardUsecase(store, gateway, validation.New(), domain.SaveStrict)

		_, err := uc.Next(authCtx("user1"), "user1", validBasicInfo)
		require.Error(t, err)

		state, err := store.Get(context.Background(), "user1")
		require.NoError(t, err)
		require.NotNil(t, state)
		assert.Equal(t, 0, state.CurrentStep)
		assert.Empty(t, state.Completed)
	})
}

func TestWizardSubmission(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("SaveSection", mock.Anything, "user1", domain.SectionCertifications, mock.Anything).Return(nil)

	store := memory.NewWizardStore()
	seed := domain.NewWizardState("user1")
	seed.CurrentStep = domain.LastStepIndex()
	require.NoError(t, store.Set(context.Background(), seed))

	uc := usecase.NewWizardUsecase(store, gateway, validation.New(), domain.SaveOptimistic)

	result, err := uc.Next(authCtx("user1"), "user1", nil)
	require.NoError(t, err)
	assert.True(t, result.Submitted)
	assert.True(t, result.State.Submitted)
	assert.Equal(t, domain.LastStepIndex(), result.State.CurrentStep, "last step never advances")
	assert.True(t, result.State.Completed[domain.LastStepIndex()])
}

func TestWizardNavigation(t *testing.T) {
	newUC := func() (domain.WizardUsecase, domain.WizardStateStore) {
		gateway := new(MockGateway)
		store := memory.NewWizardStore()
		seed := domain.NewWizardState("user1")
		seed.CurrentStep = 2
		seed.Completed = map[int]bool{0: true, 1: true}
		if err := store.Set(context.Background(), seed); err != nil {
			t.Fatal(err)
		}
		return usecase.NewWizardUsecase(store, gateway, validation.New(), domain.SaveOptimistic), store
	}

	t.Run("Blocked forward jump is a no-op, not an error", func(t *testing.T) {
		uc, _ := newUC()
		state, err := uc.GoTo(authCtx("user1"), "user1", 5)
		require.NoError(t, err)
		assert.Equal(t, 2, state.CurrentStep)
	})

	t.Run("Backward jump is allowed", func(t *testing.T) {
		uc, _ := newUC()
		state, err := uc.GoTo(authCtx("user1"), "user1", 0)
		require.NoError(t, err)
		assert.Equal(t, 0, state.CurrentStep)
	})

	t.Run("Prev decrements without validating", func(t *testing.T) {
		uc, _ := newUC()
		state, err := uc.Prev(authCtx("user1"), "user1")
		require.NoError(t, err)
		assert.Equal(t, 1, state.CurrentStep)
	})

	t.Run("Prev at step zero stays put", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("LoadProfile", mock.Anything, "user1").Return(nil, nil)
		uc := usecase.NewWizardUsecase(memory.NewWizardStore(), gateway, validation.New(), domain.SaveOptimistic)

		state, err := uc.Prev(authCtx("user1"), "user1")
		require.NoError(t, err)
		assert.Equal(t, 0, state.CurrentStep)
	})
}

func TestWizardSkills(t *testing.T) {
	newUC := func() domain.WizardUsecase {
		gateway := new(MockGateway)
		gateway.On("LoadProfile", mock.Anything, "user1").Return(nil, nil)
		return usecase.NewWizardUsecase(memory.NewWizardStore(), gateway, validation.New(), domain.SaveOptimistic)
	}

	t.Run("Same name different type are distinct entries", func(t *testing.T) {
		uc := newUC()
		ctx := authCtx("user1")

		_, err := uc.AddSkill(ctx, "user1", domain.Skill{
			SkillName: "Spanish", Proficiency: domain.ProficiencyExpert, SkillType: domain.SkillLanguage,
		})
		require.NoError(t, err)

		state, err := uc.AddSkill(ctx, "user1", domain.Skill{
			SkillName: "Spanish", Proficiency: domain.ProficiencyAdvanced, SkillType: domain.SkillSoft,
		})
		require.NoError(t, err)

		require.Len(t, state.Profile.Skills, 2)
		assert.NotEqual(t, state.Profile.Skills[0].ID, state.Profile.Skills[1].ID)
	})

	t.Run("Remove targets one entry by ID", func(t *testing.T) {
		uc := newUC()
		ctx := authCtx("user1")

		state, err := uc.AddSkill(ctx, "user1", domain.Skill{
			SkillName: "Go", Proficiency: domain.ProficiencyAdvanced, SkillType: domain.SkillTechnical,
		})
		require.NoError(t, err)
		state, err = uc.AddSkill(ctx, "user1", domain.Skill{
			SkillName: "Go", Proficiency: domain.ProficiencyBeginner, SkillType: domain.SkillTechnical,
		})
		require.NoError(t, err)

		state, err = uc.RemoveSkill(ctx, "user1", state.Profile.Skills[0].ID)
		require.NoError(t, err)
		require.Len(t, state.Profile.Skills, 1)
		assert.Equal(t, domain.ProficiencyBeginner, state.Profile.Skills[0].Proficiency)
	})

	t.Run("Invalid skill is rejected", func(t *testing.T) {
		uc := newUC()
		_, err := uc.AddSkill(authCtx("user1"), "user1", domain.Skill{SkillName: "Go"})
		assert.Error(t, err)
	})
}

func TestWizardApplyResume(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("LoadProfile", mock.Anything, "user1").Return(nil, nil)

	store := memory.NewWizardStore()
	uc := usecase.NewWizardUsecase(store, gateway, validation.New(), domain.SaveOptimistic)

	ctx := authCtx("user1")

	// User already typed a first name
	_, err := uc.UpdateSection(ctx, "user1", domain.SectionBasicInfo,
		domain.SectionPatch(`{"first_name":"Jane","last_name":"","email":""}`))
	require.NoError(t, err)

	state, err := uc.ApplyResume(ctx, "user1", &domain.ResumeData{
		BasicInfo: &domain.BasicInfo{FirstName: "Janet", Headline: "Platform Engineer"},
		Skills: []domain.Skill{
			{SkillName: "Kubernetes", Proficiency: domain.ProficiencyAdvanced, SkillType: domain.SkillTechnical},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane", state.Profile.BasicInfo.FirstName, "user input wins over extracted values")
	assert.Equal(t, "Platform Engineer", state.Profile.BasicInfo.Headline, "extracted values fill empty fields")
	require.Len(t, state.Profile.Skills, 1)
	assert.NotEmpty(t, state.Profile.Skills[0].ID)
	assert.NotNil(t, state.Profile.ResumeData)
}

func TestWorkPreferenceRanking(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("LoadProfile", mock.Anything, "user1").Return(nil, nil)
	gateway.On("SaveSection", mock.Anything, "user1", domain.SectionCareerAspiration, mock.Anything).Return(nil)

	newUC := func() domain.WizardUsecase {
		store := memory.NewWizardStore()
		seed := domain.NewWizardState("user1")
		seed.CurrentStep = 1 // career aspiration step
		seed.Completed = map[int]bool{0: true}
		if err := store.Set(context.Background(), seed); err != nil {
			t.Fatal(err)
		}
		return usecase.NewWizardUsecase(store, gateway, validation.New(), domain.SaveOptimistic)
	}

	t.Run("Permutation of 1..4 across the four types passes", func(t *testing.T) {
		uc := newUC()
		patch := domain.SectionPatch(`{
			"desired_title": "Software Engineer",
			"work_preferences": [
				{"type": "remote", "preference": 1},
				{"type": "hybrid", "preference": 2},
				{"type": "onsite", "preference": 3},
				{"type": "flexible", "preference": 4}
			]
		}`)
		_, err := uc.Next(authCtx("user1"), "user1", patch)
		assert.NoError(t, err)
	})

	t.Run("Duplicate rank is rejected", func(t *testing.T) {
		uc := newUC()
		patch := domain.SectionPatch(`{
			"desired_title": "Software Engineer",
			"work_preferences": [
				{"type": "remote", "preference": 1},
				{"type": "hybrid", "preference": 1},
				{"type": "onsite", "preference": 3},
				{"type": "flexible", "preference": 4}
			]
		}`)
		_, err := uc.Next(authCtx("user1"), "user1", patch)
		assert.Error(t, err)
	})

	t.Run("Duplicate type is rejected", func(t *testing.T) {
		uc := newUC()
		patch := domain.SectionPatch(`{
			"desired_title": "Software Engineer",
			"work_preferences": [
				{"type": "remote", "preference": 1},
				{"type": "remote", "preference": 2},
				{"type": "onsite", "preference": 3},
				{"type": "flexible", "preference": 4}
			]
		}`)
		_, err := uc.Next(authCtx("user1"), "user1", patch)
		assert.Error(t, err)
	})
}
