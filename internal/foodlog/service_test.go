package foodlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealmeter/mealmeter/internal/api/models"
)

type stubTargets struct {
	target int
	ok     bool
	err    error
}

func (s *stubTargets) DailyTarget(_ context.Context, _ string) (int, bool, error) {
	return s.target, s.ok, s.err
}

func newTestService(targets TargetSource) *Service {
	svc := NewService(NewMemoryRepository(), targets)
	svc.now = func() time.Time { return time.Date(2025, 6, 20, 9, 30, 0, 0, time.UTC) }
	return svc
}

func entryRequest(name string, slot models.MealSlot, calories float64) *models.FoodEntryRequest {
	return &models.FoodEntryRequest{
		FoodName: name,
		MealType: slot,
		Calories: calories,
	}
}

func TestService_AppendEntry(t *testing.T) {
	svc := newTestService(&stubTargets{target: 1800, ok: true})
	ctx := context.Background()

	got, err := svc.AppendEntry(ctx, "usr_1", entryRequest("oatmeal", models.MealBreakfast, 350))
	require.NoError(t, err)

	assert.Equal(t, "usr_1", got.UserID)
	assert.Equal(t, "2025-06-20", got.Date.String())
	assert.Equal(t, 350.0, got.TotalCalories)
	assert.Equal(t, 1800, got.TargetCalories)
	assert.Equal(t, 1450.0, got.RemainingCalories)

	require.Len(t, got.Meals[models.MealBreakfast], 1)
	entry := got.Meals[models.MealBreakfast][0]
	assert.Equal(t, "oatmeal", entry.FoodName)
	assert.True(t, len(entry.ID) > 4 && entry.ID[:4] == "ent_")

	// All five slots are present even when empty
	for _, slot := range models.AllMealSlots {
		_, present := got.Meals[slot]
		assert.True(t, present, "slot %s missing", slot)
	}
}

func TestService_AppendEntry_AccumulatesInOrder(t *testing.T) {
	svc := newTestService(&stubTargets{target: 2000, ok: true})
	ctx := context.Background()

	_, err := svc.AppendEntry(ctx, "usr_1", entryRequest("eggs", models.MealBreakfast, 200))
	require.NoError(t, err)
	_, err = svc.AppendEntry(ctx, "usr_1", entryRequest("toast", models.MealBreakfast, 150))
	require.NoError(t, err)
	got, err := svc.AppendEntry(ctx, "usr_1", entryRequest("salad", models.MealLunch, 400))
	require.NoError(t, err)

	assert.Equal(t, 750.0, got.TotalCalories)
	assert.Equal(t, 1250.0, got.RemainingCalories)

	breakfast := got.Meals[models.MealBreakfast]
	require.Len(t, breakfast, 2)
	assert.Equal(t, "eggs", breakfast[0].FoodName)
	assert.Equal(t, "toast", breakfast[1].FoodName)
}

func TestService_AppendEntry_DefaultTarget(t *testing.T) {
	svc := newTestService(&stubTargets{ok: false})

	got, err := svc.AppendEntry(context.Background(), "usr_new", entryRequest("apple", models.MealSnacks, 80))
	require.NoError(t, err)

	assert.Equal(t, DefaultTargetCalories, got.TargetCalories)
	assert.Equal(t, float64(DefaultTargetCalories)-80, got.RemainingCalories)
}

func TestService_AppendEntry_UnknownSlot(t *testing.T) {
	svc := newTestService(&stubTargets{target: 2000, ok: true})

	_, err := svc.AppendEntry(context.Background(), "usr_1", entryRequest("mystery", models.MealSlot("brunch"), 100))
	assert.ErrorIs(t, err, ErrUnknownMealSlot)
}

func TestService_AppendEntry_Validation(t *testing.T) {
	svc := newTestService(&stubTargets{target: 2000, ok: true})
	ctx := context.Background()

	tests := []struct {
		name  string
		input *models.FoodEntryRequest
	}{
		{name: "missing food name", input: entryRequest("", models.MealLunch, 100)},
		{name: "negative calories", input: entryRequest("antimatter", models.MealLunch, -10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AppendEntry(ctx, "usr_1", tt.input)
			var validationErr *ValidationError
			assert.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)
		})
	}
}

func TestService_AppendEntry_ZeroCalories(t *testing.T) {
	svc := newTestService(&stubTargets{target: 2000, ok: true})

	got, err := svc.AppendEntry(context.Background(), "usr_1", entryRequest("water", models.MealDrinks, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.TotalCalories)
}

func TestService_AppendEntry_ExplicitDate(t *testing.T) {
	svc := newTestService(&stubTargets{target: 2000, ok: true})
	ctx := context.Background()

	req := entryRequest("leftovers", models.MealDinner, 500)
	req.Date = &models.DateOnly{Time: time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)}

	got, err := svc.AppendEntry(ctx, "usr_1", req)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-18", got.Date.String())

	// Today's log is untouched
	today, err := svc.GetDaily(ctx, "usr_1", time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0.0, today.TotalCalories)
}

func TestService_GetDaily_SynthesizesEmptyLog(t *testing.T) {
	// The user has a personal target, but a day with no entries always
	// comes back at the default target.
	svc := newTestService(&stubTargets{target: 1750, ok: true})

	got, err := svc.GetDaily(context.Background(), "usr_1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01", got.Date.String())
	assert.Equal(t, 0.0, got.TotalCalories)
	assert.Equal(t, DefaultTargetCalories, got.TargetCalories)
	assert.Equal(t, float64(DefaultTargetCalories), got.RemainingCalories)
	for _, slot := range models.AllMealSlots {
		assert.Empty(t, got.Meals[slot])
	}
}

func TestService_ListAll_NewestFirst(t *testing.T) {
	svc := newTestService(&stubTargets{target: 2000, ok: true})
	ctx := context.Background()

	days := []string{"2025-06-10", "2025-06-12", "2025-06-11"}
	for _, day := range days {
		date, err := time.Parse("2006-01-02", day)
		require.NoError(t, err)
		req := entryRequest("meal", models.MealDinner, 600)
		req.Date = &models.DateOnly{Time: date}
		_, err = svc.AppendEntry(ctx, "usr_1", req)
		require.NoError(t, err)
	}

	got, err := svc.ListAll(ctx, "usr_1")
	require.NoError(t, err)

	require.Equal(t, 3, got.Count)
	assert.Equal(t, "2025-06-12", got.Logs[0].Date.String())
	assert.Equal(t, "2025-06-11", got.Logs[1].Date.String())
	assert.Equal(t, "2025-06-10", got.Logs[2].Date.String())
}

func TestService_ListAll_Empty(t *testing.T) {
	svc := newTestService(&stubTargets{target: 2000, ok: true})

	got, err := svc.ListAll(context.Background(), "usr_nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Count)
}

func TestService_ConcurrentAppends(t *testing.T) {
	svc := newTestService(&stubTargets{target: 2000, ok: true})
	ctx := context.Background()

	const goroutines = 50

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AppendEntry(ctx, "usr_1", entryRequest("snack", models.MealSnacks, 10))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.GetDaily(ctx, "usr_1", time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Len(t, got.Meals[models.MealSnacks], goroutines)
	assert.Equal(t, float64(goroutines*10), got.TotalCalories)
	assert.Equal(t, 2000.0-float64(goroutines*10), got.RemainingCalories)
}
