package nutrition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealmeter/mealmeter/internal/api/models"
)

func TestBMR(t *testing.T) {
	tests := []struct {
		name     string
		gender   models.Gender
		weightKG float64
		heightCM float64
		age      int
		want     float64
	}{
		{name: "male reference", gender: models.GenderMale, weightKG: 70, heightCM: 175, age: 30, want: 1648.75},
		{name: "female reference", gender: models.GenderFemale, weightKG: 70, heightCM: 175, age: 30, want: 1482.75},
		{name: "male heavier", gender: models.GenderMale, weightKG: 90, heightCM: 180, age: 25, want: 10*90 + 6.25*180 - 5*25 + 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BMR(tt.gender, tt.weightKG, tt.heightCM, tt.age)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTDEE(t *testing.T) {
	const bmr = 1648.75

	tests := []struct {
		level models.ActivityLevel
		want  float64
	}{
		{level: models.ActivitySedentary, want: 1978},
		{level: models.ActivityLightlyActive, want: 2267},
		{level: models.ActivityModeratelyActive, want: 2555},
		{level: models.ActivityVeryActive, want: 2844},
		{level: models.ActivityExtraActive, want: 3132},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			got, err := TDEE(bmr, tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTDEE_UnknownLevel(t *testing.T) {
	_, err := TDEE(1648.75, models.ActivityLevel("couch potato"))
	assert.ErrorIs(t, err, ErrUnknownActivityLevel)
}

func TestDailyCalories(t *testing.T) {
	tests := []struct {
		name   string
		tdee   float64
		goal   models.Goal
		weekly float64
		want   float64
	}{
		{name: "loss of half a kilo", tdee: 1978, goal: models.GoalWeightLoss, weekly: 0.5, want: 1978 - 550},
		{name: "gain of half a kilo", tdee: 1978, goal: models.GoalWeightGain, weekly: 0.5, want: 1978 + 550},
		{name: "muscle gain adds calories", tdee: 2555, goal: models.GoalMuscleGain, weekly: 0.25, want: 2555 + 275},
		{name: "maintenance ignores weekly", tdee: 2000, goal: models.GoalWeightMaintenance, weekly: 0.5, want: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DailyCalories(tt.tdee, tt.goal, tt.weekly)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDailyCalories_UnknownGoal(t *testing.T) {
	_, err := DailyCalories(2000, models.Goal("bulk forever"), 0.5)
	assert.ErrorIs(t, err, ErrUnknownGoal)
}

func TestMacroSplit(t *testing.T) {
	tests := []struct {
		name        string
		calories    float64
		goal        models.Goal
		wantProtein int
		wantCarbs   int
		wantFats    int
	}{
		{name: "maintenance at 2000", calories: 2000, goal: models.GoalWeightMaintenance, wantProtein: 137, wantCarbs: 237, wantFats: 50},
		{name: "weight loss at 2000", calories: 2000, goal: models.GoalWeightLoss, wantProtein: 162, wantCarbs: 212, wantFats: 50},
		{name: "muscle gain at 2000", calories: 2000, goal: models.GoalMuscleGain, wantProtein: 162, wantCarbs: 237, wantFats: 38},
		{name: "weight gain at 2000", calories: 2000, goal: models.GoalWeightGain, wantProtein: 137, wantCarbs: 262, wantFats: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			protein, carbs, fats, err := MacroSplit(tt.calories, tt.goal)
			require.NoError(t, err)
			assert.Equal(t, tt.wantProtein, protein)
			assert.Equal(t, tt.wantCarbs, carbs)
			assert.Equal(t, tt.wantFats, fats)
		})
	}
}

func TestMacroSplit_UnknownGoal(t *testing.T) {
	_, _, _, err := MacroSplit(2000, models.Goal("unknown"))
	assert.ErrorIs(t, err, ErrUnknownGoal)
}

func TestSubject_Age(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		birthdate time.Time
		want      int
	}{
		{name: "birthday passed", birthdate: time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC), want: 30},
		{name: "birthday today", birthdate: time.Date(1995, 6, 20, 0, 0, 0, 0, time.UTC), want: 30},
		{name: "birthday upcoming", birthdate: time.Date(1995, 6, 25, 0, 0, 0, 0, time.UTC), want: 29},
		{name: "birthday next month", birthdate: time.Date(1995, 7, 1, 0, 0, 0, 0, time.UTC), want: 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Subject{Birthdate: tt.birthdate}
			assert.Equal(t, tt.want, s.Age(now))
		})
	}
}

func TestCompute(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)

	subject := Subject{
		Gender:        models.GenderMale,
		Birthdate:     time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC),
		HeightCM:      175,
		WeightKG:      70,
		ActivityLevel: models.ActivitySedentary,
		Goal:          models.GoalWeightLoss,
		WeeklyGoalKG:  0.5,
	}

	got, err := Compute(subject, now)
	require.NoError(t, err)

	// BMR 1648.75, sedentary TDEE 1978, minus 550 for half a kilo a week
	assert.InDelta(t, 1428, got.TDEE, 1e-9)
	assert.Equal(t, 116, got.ProteinGrams)
	assert.Equal(t, 151, got.CarbsGrams)
	assert.Equal(t, 35, got.FatsGrams)
	assert.Equal(t, now, got.UpdatedAt)
}

func TestCompute_UnknownActivityLevel(t *testing.T) {
	_, err := Compute(Subject{
		Gender:        models.GenderMale,
		Birthdate:     time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC),
		HeightCM:      175,
		WeightKG:      70,
		ActivityLevel: models.ActivityLevel("extreme"),
		Goal:          models.GoalWeightLoss,
	}, time.Now())
	assert.ErrorIs(t, err, ErrUnknownActivityLevel)
}
