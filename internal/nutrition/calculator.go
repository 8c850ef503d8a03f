// Package nutrition derives daily energy and macronutrient targets from a
// user profile.
package nutrition

import (
	"errors"
	"math"
	"time"

	"github.com/mealmeter/mealmeter/internal/api/models"
)

// Calculator errors.
var (
	ErrUnknownActivityLevel = errors.New("unknown activity level")
	ErrUnknownGoal          = errors.New("unknown goal")
)

// CaloriesPerKG is the energy equivalent of one kilogram of body weight.
const CaloriesPerKG = 7700

// activityFactors maps each activity tier to its BMR multiplier.
var activityFactors = map[models.ActivityLevel]float64{
	models.ActivitySedentary:        1.2,
	models.ActivityLightlyActive:    1.375,
	models.ActivityModeratelyActive: 1.55,
	models.ActivityVeryActive:       1.725,
	models.ActivityExtraActive:      1.9,
}

// macroRatio is the calorie share assigned to each macronutrient.
type macroRatio struct {
	protein float64
	carbs   float64
	fats    float64
}

// macroRatios maps each goal to its macro split.
var macroRatios = map[models.Goal]macroRatio{
	models.GoalWeightLoss:        {protein: 0.325, carbs: 0.425, fats: 0.225},
	models.GoalWeightMaintenance: {protein: 0.275, carbs: 0.475, fats: 0.225},
	models.GoalMuscleGain:        {protein: 0.325, carbs: 0.475, fats: 0.175},
	models.GoalWeightGain:        {protein: 0.275, carbs: 0.525, fats: 0.225},
}

// Subject is the calculator input, extracted from a completed profile.
type Subject struct {
	Gender        models.Gender
	Birthdate     time.Time
	HeightCM      float64
	WeightKG      float64
	ActivityLevel models.ActivityLevel
	Goal          models.Goal
	WeeklyGoalKG  float64
}

// Age returns the subject's age in whole years at the given instant.
func (s Subject) Age(now time.Time) int {
	age := now.Year() - s.Birthdate.Year()
	if now.Month() < s.Birthdate.Month() ||
		(now.Month() == s.Birthdate.Month() && now.Day() < s.Birthdate.Day()) {
		age--
	}
	return age
}

// BMR computes basal metabolic rate with the Mifflin-St Jeor equation.
func BMR(gender models.Gender, weightKG, heightCM float64, age int) float64 {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if gender == models.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE scales BMR by the activity factor, floored to a whole calorie.
func TDEE(bmr float64, level models.ActivityLevel) (float64, error) {
	factor, ok := activityFactors[level]
	if !ok {
		return 0, ErrUnknownActivityLevel
	}
	return math.Floor(bmr * factor), nil
}

// DailyCalories adjusts TDEE for the weekly weight goal: the weekly
// kilogram delta spread over seven days, subtracted for loss and added
// for gain.
func DailyCalories(tdee float64, goal models.Goal, weeklyGoalKG float64) (float64, error) {
	adjustment := weeklyGoalKG * CaloriesPerKG / 7

	switch goal {
	case models.GoalWeightLoss:
		return tdee - adjustment, nil
	case models.GoalWeightGain, models.GoalMuscleGain:
		return tdee + adjustment, nil
	case models.GoalWeightMaintenance:
		return tdee, nil
	default:
		return 0, ErrUnknownGoal
	}
}

// MacroSplit divides the daily calorie target into macro grams using the
// goal's ratio table. Protein and carbs carry 4 kcal per gram, fats 9;
// grams are floored.
func MacroSplit(dailyCalories float64, goal models.Goal) (protein, carbs, fats int, err error) {
	ratio, ok := macroRatios[goal]
	if !ok {
		return 0, 0, 0, ErrUnknownGoal
	}

	protein = int(math.Floor(dailyCalories * ratio.protein / 4))
	carbs = int(math.Floor(dailyCalories * ratio.carbs / 4))
	fats = int(math.Floor(dailyCalories * ratio.fats / 9))
	return protein, carbs, fats, nil
}

// Compute runs the full pipeline for a subject at the given instant.
func Compute(s Subject, now time.Time) (*Insights, error) {
	bmr := BMR(s.Gender, s.WeightKG, s.HeightCM, s.Age(now))

	tdee, err := TDEE(bmr, s.ActivityLevel)
	if err != nil {
		return nil, err
	}

	daily, err := DailyCalories(tdee, s.Goal, s.WeeklyGoalKG)
	if err != nil {
		return nil, err
	}

	protein, carbs, fats, err := MacroSplit(daily, s.Goal)
	if err != nil {
		return nil, err
	}

	return &Insights{
		TDEE:         daily,
		ProteinGrams: protein,
		CarbsGrams:   carbs,
		FatsGrams:    fats,
		UpdatedAt:    now,
	}, nil
}
