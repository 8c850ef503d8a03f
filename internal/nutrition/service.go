package nutrition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mealmeter/mealmeter/internal/api/models"
	"github.com/mealmeter/mealmeter/internal/profile"
)

// ErrProfileIncomplete is returned when insights are requested or derived
// for a user who has not completed profile setup.
var ErrProfileIncomplete = errors.New("profile not set up")

// ProfileSource provides read access to profiles. Satisfied by
// profile.Repository.
type ProfileSource interface {
	Get(ctx context.Context, userID string) (*profile.Profile, error)
}

// Service derives and serves nutrition insights.
type Service struct {
	repo     Repository
	profiles ProfileSource
	now      func() time.Time
}

// NewService creates a new nutrition service.
func NewService(repo Repository, profiles ProfileSource) *Service {
	return &Service{repo: repo, profiles: profiles, now: time.Now}
}

// Recompute re-derives and stores insights for one user from their current
// profile. The stored record is fully replaced.
func (s *Service) Recompute(ctx context.Context, userID string) error {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !p.IsSetup {
		return ErrProfileIncomplete
	}

	insights, err := Compute(Subject{
		Gender:        p.Gender,
		Birthdate:     p.Birthdate,
		HeightCM:      p.HeightCM,
		WeightKG:      p.WeightKG,
		ActivityLevel: p.ActivityLevel,
		Goal:          p.Goal,
		WeeklyGoalKG:  p.WeeklyGoalKG,
	}, s.now())
	if err != nil {
		return fmt.Errorf("computing insights for %s: %w", userID, err)
	}

	insights.UserID = userID
	return s.repo.Upsert(ctx, insights)
}

// Get returns the stored insights for a user.
func (s *Service) Get(ctx context.Context, userID string) (*models.MacronutrientDistribution, error) {
	i, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.MacronutrientDistribution{
		TDEE:         i.TDEE,
		ProteinGrams: i.ProteinGrams,
		CarbsGrams:   i.CarbsGrams,
		FatsGrams:    i.FatsGrams,
		UpdatedAt:    models.Timestamp(i.UpdatedAt),
	}, nil
}

// DailyTarget returns the user's stored calorie target rounded down to a
// whole calorie, or ok=false when no insights exist yet.
func (s *Service) DailyTarget(ctx context.Context, userID string) (int, bool, error) {
	i, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrInsightsNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return int(i.TDEE), true, nil
}
