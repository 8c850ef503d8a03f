package nutrition

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealmeter/mealmeter/internal/api/models"
	"github.com/mealmeter/mealmeter/internal/profile"
)

func seedProfile(t *testing.T, repo *profile.MemoryRepository, userID string, setup bool) {
	t.Helper()

	p := &profile.Profile{
		UserID:    userID,
		IsSetup:   setup,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if setup {
		p.Gender = models.GenderMale
		p.Birthdate = time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC)
		p.HeightCM = 175
		p.WeightKG = 70
		p.ActivityLevel = models.ActivitySedentary
		p.Goal = models.GoalWeightLoss
		p.TargetWeightKG = 65
		p.WeeklyGoalKG = 0.5
	}
	require.NoError(t, repo.Create(context.Background(), p))
}

func TestService_Recompute(t *testing.T) {
	profiles := profile.NewMemoryRepository()
	seedProfile(t, profiles, "usr_1", true)

	svc := NewService(NewMemoryRepository(), profiles)
	svc.now = func() time.Time { return time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	require.NoError(t, svc.Recompute(ctx, "usr_1"))

	got, err := svc.Get(ctx, "usr_1")
	require.NoError(t, err)
	assert.InDelta(t, 1428, got.TDEE, 1e-9)
	assert.Equal(t, 116, got.ProteinGrams)
	assert.Equal(t, 151, got.CarbsGrams)
	assert.Equal(t, 35, got.FatsGrams)
}

func TestService_Recompute_Replaces(t *testing.T) {
	profiles := profile.NewMemoryRepository()
	seedProfile(t, profiles, "usr_1", true)

	repo := NewMemoryRepository()
	svc := NewService(repo, profiles)
	svc.now = func() time.Time { return time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	require.NoError(t, svc.Recompute(ctx, "usr_1"))

	// Change the stored profile and recompute; the record is replaced,
	// not merged.
	p, err := profiles.Get(ctx, "usr_1")
	require.NoError(t, err)
	p.Goal = models.GoalWeightMaintenance
	p.WeeklyGoalKG = 0
	require.NoError(t, profiles.Update(ctx, p))

	require.NoError(t, svc.Recompute(ctx, "usr_1"))

	got, err := svc.Get(ctx, "usr_1")
	require.NoError(t, err)
	assert.InDelta(t, 1978, got.TDEE, 1e-9)
}

func TestService_Recompute_IncompleteProfile(t *testing.T) {
	profiles := profile.NewMemoryRepository()
	seedProfile(t, profiles, "usr_stub", false)

	svc := NewService(NewMemoryRepository(), profiles)

	err := svc.Recompute(context.Background(), "usr_stub")
	assert.ErrorIs(t, err, ErrProfileIncomplete)
}

func TestService_Recompute_NoProfile(t *testing.T) {
	svc := NewService(NewMemoryRepository(), profile.NewMemoryRepository())

	err := svc.Recompute(context.Background(), "usr_missing")
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestService_Get_NotFound(t *testing.T) {
	svc := NewService(NewMemoryRepository(), profile.NewMemoryRepository())

	_, err := svc.Get(context.Background(), "usr_missing")
	assert.ErrorIs(t, err, ErrInsightsNotFound)
}

func TestService_DailyTarget(t *testing.T) {
	profiles := profile.NewMemoryRepository()
	seedProfile(t, profiles, "usr_1", true)

	svc := NewService(NewMemoryRepository(), profiles)
	svc.now = func() time.Time { return time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC) }

	ctx := context.Background()

	// No insights yet
	_, ok, err := svc.DailyTarget(ctx, "usr_1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.Recompute(ctx, "usr_1"))

	target, ok, err := svc.DailyTarget(ctx, "usr_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1428, target)
}
