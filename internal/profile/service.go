package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mealmeter/mealmeter/internal/api/models"
)

// Validation constants.
const (
	MinHeightCM = 50
	MaxHeightCM = 300
	MinWeightKG = 20
	MaxWeightKG = 500
)

// InsightsRecomputer re-derives nutrition insights after a profile change.
// Implemented by the nutrition service; an interface here avoids a package
// cycle.
type InsightsRecomputer interface {
	Recompute(ctx context.Context, userID string) error
}

// Service provides profile operations.
type Service struct {
	repo     Repository
	insights InsightsRecomputer
}

// NewService creates a new profile service.
func NewService(repo Repository, insights InsightsRecomputer) *Service {
	return &Service{repo: repo, insights: insights}
}

// CreateStub creates the preliminary profile row for a freshly signed-up
// user. Safe to call when no row exists yet.
func (s *Service) CreateStub(ctx context.Context, userID string) error {
	_, err := s.repo.Get(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return err
	}

	now := time.Now()
	return s.repo.Create(ctx, &Profile{
		UserID:    userID,
		IsSetup:   false,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Get retrieves a user's profile.
func (s *Service) Get(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := s.toAPIProfile(p)
	return &result, nil
}

// Create completes a user's profile. A second completion attempt for the
// same user fails with ErrProfileExists.
func (s *Service) Create(ctx context.Context, userID string, input *models.ProfileCreateRequest) (*models.Profile, error) {
	// A maintenance goal ignores whatever target the client sent: the
	// target is the current weight and the weekly rate is zero.
	if input.Goal == models.GoalWeightMaintenance {
		input.TargetWeightKG = input.WeightKG
		input.WeeklyGoalKG = 0
	}

	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	existing, err := s.repo.Get(ctx, userID)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsSetup {
		return nil, ErrProfileExists
	}

	now := time.Now()
	p := &Profile{
		UserID:            userID,
		Gender:            input.Gender,
		Birthdate:         input.Birthdate.Time,
		HeightCM:          input.HeightCM,
		WeightKG:          input.WeightKG,
		ActivityLevel:     input.ActivityLevel,
		Goal:              input.Goal,
		TargetWeightKG:    input.TargetWeightKG,
		WeeklyGoalKG:      input.WeeklyGoalKG,
		DietType:          input.DietType,
		FoodPreferences:   input.FoodPreferences,
		Allergies:         input.Allergies,
		MedicalConditions: input.MedicalConditions,
		Medications:       input.Medications,
		IsSetup:           true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if existing != nil {
		p.CreatedAt = existing.CreatedAt
		err = s.repo.Update(ctx, p)
	} else {
		err = s.repo.Create(ctx, p)
	}
	if err != nil {
		return nil, err
	}

	if err := s.insights.Recompute(ctx, userID); err != nil {
		return nil, fmt.Errorf("recomputing insights: %w", err)
	}

	result := s.toAPIProfile(p)
	return &result, nil
}

// Update applies a partial update to an existing profile. Goal-consistency
// rules are enforced only when the patch sets the goal; every completed
// update triggers an insights recompute.
func (s *Service) Update(ctx context.Context, userID string, input *models.ProfileUpdateRequest) (*models.Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Goal != nil && *input.Goal == models.GoalWeightMaintenance {
		weight := p.WeightKG
		if input.WeightKG != nil {
			weight = *input.WeightKG
		}
		input.TargetWeightKG = &weight
		zero := 0.0
		input.WeeklyGoalKG = &zero
	}

	if fieldErrors := s.validateUpdateInput(p, input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	// Apply updates
	if input.Gender != nil {
		p.Gender = *input.Gender
	}
	if input.Birthdate != nil {
		p.Birthdate = input.Birthdate.Time
	}
	if input.HeightCM != nil {
		p.HeightCM = *input.HeightCM
	}
	if input.WeightKG != nil {
		p.WeightKG = *input.WeightKG
	}
	if input.ActivityLevel != nil {
		p.ActivityLevel = *input.ActivityLevel
	}
	if input.Goal != nil {
		p.Goal = *input.Goal
	}
	if input.TargetWeightKG != nil {
		p.TargetWeightKG = *input.TargetWeightKG
	}
	if input.WeeklyGoalKG != nil {
		p.WeeklyGoalKG = *input.WeeklyGoalKG
	}
	if input.DietType != nil {
		p.DietType = input.DietType
	}
	if input.FoodPreferences != nil {
		p.FoodPreferences = input.FoodPreferences
	}
	if input.Allergies != nil {
		p.Allergies = input.Allergies
	}
	if input.MedicalConditions != nil {
		p.MedicalConditions = input.MedicalConditions
	}
	if input.Medications != nil {
		p.Medications = input.Medications
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	if p.IsSetup {
		if err := s.insights.Recompute(ctx, userID); err != nil {
			return nil, fmt.Errorf("recomputing insights: %w", err)
		}
	}

	result := s.toAPIProfile(p)
	return &result, nil
}

// validateCreateInput validates the profile completion input.
// Maintenance coercion has already run, so the directional checks only see
// loss and gain goals.
func (s *Service) validateCreateInput(input *models.ProfileCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if !input.Gender.Valid() {
		errs = append(errs, models.FieldError{Field: "gender", Message: "must be male or female"})
	}

	errs = append(errs, validateBirthdate(input.Birthdate.Time)...)
	errs = append(errs, validateHeight(input.HeightCM)...)
	errs = append(errs, validateWeight(input.WeightKG, "weight_kg")...)

	if !input.ActivityLevel.Valid() {
		errs = append(errs, models.FieldError{Field: "activity_level", Message: "is not a known activity level"})
	}

	if !input.Goal.Valid() {
		errs = append(errs, models.FieldError{Field: "goal", Message: "is not a known goal"})
		return errs
	}

	errs = append(errs, validateGoalConsistency(input.Goal, input.WeightKG, input.TargetWeightKG, input.WeeklyGoalKG)...)

	if input.DietType != nil && !input.DietType.Valid() {
		errs = append(errs, models.FieldError{Field: "diet_type", Message: "is not a known diet type"})
	}

	return errs
}

// validateUpdateInput validates a profile patch against the stored profile.
func (s *Service) validateUpdateInput(p *Profile, input *models.ProfileUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Gender != nil && !input.Gender.Valid() {
		errs = append(errs, models.FieldError{Field: "gender", Message: "must be male or female"})
	}
	if input.Birthdate != nil {
		errs = append(errs, validateBirthdate(input.Birthdate.Time)...)
	}
	if input.HeightCM != nil {
		errs = append(errs, validateHeight(*input.HeightCM)...)
	}
	if input.WeightKG != nil {
		errs = append(errs, validateWeight(*input.WeightKG, "weight_kg")...)
	}
	if input.ActivityLevel != nil && !input.ActivityLevel.Valid() {
		errs = append(errs, models.FieldError{Field: "activity_level", Message: "is not a known activity level"})
	}
	if input.DietType != nil && !input.DietType.Valid() {
		errs = append(errs, models.FieldError{Field: "diet_type", Message: "is not a known diet type"})
	}

	// Goal consistency is checked only when the patch changes the goal.
	// Weight or target updates without a goal change are accepted as-is.
	if input.Goal != nil {
		if !input.Goal.Valid() {
			errs = append(errs, models.FieldError{Field: "goal", Message: "is not a known goal"})
			return errs
		}

		weight := p.WeightKG
		if input.WeightKG != nil {
			weight = *input.WeightKG
		}
		target := p.TargetWeightKG
		if input.TargetWeightKG != nil {
			target = *input.TargetWeightKG
		}
		weekly := p.WeeklyGoalKG
		if input.WeeklyGoalKG != nil {
			weekly = *input.WeeklyGoalKG
		}

		errs = append(errs, validateGoalConsistency(*input.Goal, weight, target, weekly)...)
	}

	return errs
}

// validateGoalConsistency enforces the direction and rate rules for each goal.
func validateGoalConsistency(goal models.Goal, weight, target, weekly float64) []models.FieldError {
	var errs []models.FieldError

	switch goal {
	case models.GoalWeightLoss:
		if target >= weight {
			errs = append(errs, models.FieldError{Field: "target_weight", Message: "must be below current weight for weight loss"})
		}
		if weekly <= 0 {
			errs = append(errs, models.FieldError{Field: "weekly_goal_kg", Message: "must be positive for weight loss"})
		}
	case models.GoalWeightGain, models.GoalMuscleGain:
		if target <= weight {
			errs = append(errs, models.FieldError{Field: "target_weight", Message: "must be above current weight for a gain goal"})
		}
		if weekly <= 0 {
			errs = append(errs, models.FieldError{Field: "weekly_goal_kg", Message: "must be positive for a gain goal"})
		}
	case models.GoalWeightMaintenance:
		// Coerced earlier, nothing to check.
	}

	return errs
}

func validateBirthdate(birthdate time.Time) []models.FieldError {
	if birthdate.IsZero() {
		return []models.FieldError{{Field: "birthdate", Message: "is required"}}
	}
	if !birthdate.Before(time.Now()) {
		return []models.FieldError{{Field: "birthdate", Message: "must be in the past"}}
	}
	return nil
}

func validateHeight(height float64) []models.FieldError {
	if height < MinHeightCM || height > MaxHeightCM {
		return []models.FieldError{{Field: "height_cm", Message: "must be between 50 and 300"}}
	}
	return nil
}

func validateWeight(weight float64, field string) []models.FieldError {
	if weight < MinWeightKG || weight > MaxWeightKG {
		return []models.FieldError{{Field: field, Message: "must be between 20 and 500"}}
	}
	return nil
}

// toAPIProfile converts a domain Profile to an API Profile.
func (s *Service) toAPIProfile(p *Profile) models.Profile {
	return models.Profile{
		UserID:            p.UserID,
		Gender:            p.Gender,
		Birthdate:         models.DateOnly{Time: p.Birthdate},
		HeightCM:          p.HeightCM,
		WeightKG:          p.WeightKG,
		ActivityLevel:     p.ActivityLevel,
		Goal:              p.Goal,
		TargetWeightKG:    p.TargetWeightKG,
		WeeklyGoalKG:      p.WeeklyGoalKG,
		DietType:          p.DietType,
		FoodPreferences:   p.FoodPreferences,
		Allergies:         p.Allergies,
		MedicalConditions: p.MedicalConditions,
		Medications:       p.Medications,
		IsSetup:           p.IsSetup,
		CreatedAt:         models.Timestamp(p.CreatedAt),
		UpdatedAt:         models.Timestamp(p.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
