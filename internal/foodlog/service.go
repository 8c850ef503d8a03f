package foodlog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mealmeter/mealmeter/internal/api/models"
)

// TargetSource resolves a user's current daily calorie target. Satisfied by
// the nutrition service; ok=false means the user has no insights yet.
type TargetSource interface {
	DailyTarget(ctx context.Context, userID string) (target int, ok bool, err error)
}

// Service provides food logging operations.
type Service struct {
	repo    Repository
	targets TargetSource
	now     func() time.Time
}

// NewService creates a new food log service.
func NewService(repo Repository, targets TargetSource) *Service {
	return &Service{repo: repo, targets: targets, now: time.Now}
}

// AppendEntry validates and logs a food item. The target refreshed on each
// append applies to this and later appends only; already-stored days keep
// the totals they were written with.
func (s *Service) AppendEntry(ctx context.Context, userID string, input *models.FoodEntryRequest) (*models.DailyFoodLog, error) {
	if !input.MealType.Valid() {
		return nil, ErrUnknownMealSlot
	}
	if fieldErrors := validateEntryInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := s.now()
	date := DateKey(now)
	if input.Date != nil {
		date = DateKey(input.Date.Time)
	}

	target, err := s.resolveTarget(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := Entry{
		ID:          "ent_" + uuid.New().String()[:22],
		FoodName:    input.FoodName,
		Calories:    input.Calories,
		ServingSize: input.ServingSize,
		TimeLogged:  now,
	}

	log, err := s.repo.AppendEntry(ctx, userID, date, input.MealType, entry, target)
	if err != nil {
		return nil, err
	}

	result := s.toAPILog(log)
	return &result, nil
}

// GetDaily returns the log for one day. Days with no entries yield an
// empty log at the default target rather than an error. The personal
// target only appears on a stored log, written by the first append.
func (s *Service) GetDaily(ctx context.Context, userID string, date time.Time) (*models.DailyFoodLog, error) {
	log, err := s.repo.GetDaily(ctx, userID, date)
	if err == nil {
		result := s.toAPILog(log)
		return &result, nil
	}
	if !errors.Is(err, ErrLogNotFound) {
		return nil, err
	}

	result := s.toAPILog(NewEmptyLog(userID, DateKey(date), DefaultTargetCalories))
	return &result, nil
}

// ListAll returns every log a user has, newest date first.
func (s *Service) ListAll(ctx context.Context, userID string) (*models.FoodLogList, error) {
	logs, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]models.DailyFoodLog, 0, len(logs))
	for _, log := range logs {
		items = append(items, s.toAPILog(log))
	}

	return &models.FoodLogList{Logs: items, Count: len(items)}, nil
}

// resolveTarget prefers the stored insights target and falls back to the
// package default for users without one.
func (s *Service) resolveTarget(ctx context.Context, userID string) (int, error) {
	target, ok, err := s.targets.DailyTarget(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return DefaultTargetCalories, nil
	}
	return target, nil
}

func validateEntryInput(input *models.FoodEntryRequest) []models.FieldError {
	var errs []models.FieldError

	if input.FoodName == "" {
		errs = append(errs, models.FieldError{Field: "food_name", Message: "is required"})
	}
	if input.Calories < 0 {
		errs = append(errs, models.FieldError{Field: "calories", Message: "must not be negative"})
	}

	return errs
}

// toAPILog converts a domain DailyLog to an API DailyFoodLog.
func (s *Service) toAPILog(log *DailyLog) models.DailyFoodLog {
	meals := make(map[models.MealSlot][]models.MealEntry, len(log.Meals))
	for slot, entries := range log.Meals {
		apiEntries := make([]models.MealEntry, 0, len(entries))
		for _, e := range entries {
			apiEntries = append(apiEntries, models.MealEntry{
				ID:          e.ID,
				FoodName:    e.FoodName,
				Calories:    e.Calories,
				ServingSize: e.ServingSize,
				TimeLogged:  models.Timestamp(e.TimeLogged),
			})
		}
		meals[slot] = apiEntries
	}

	return models.DailyFoodLog{
		UserID:            log.UserID,
		Date:              models.DateOnly{Time: log.Date},
		Meals:             meals,
		TotalCalories:     log.TotalCalories,
		TargetCalories:    log.TargetCalories,
		RemainingCalories: log.RemainingCalories,
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
