// Package models provides request and response models for the MealMeter API.
package models

import "time"

// Gender is the biological sex used by the BMR formula.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether the gender is one of the known values.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// ActivityLevel represents one of the five activity tiers used to scale BMR.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly active"
	ActivityModeratelyActive ActivityLevel = "moderately active"
	ActivityVeryActive       ActivityLevel = "very active"
	ActivityExtraActive      ActivityLevel = "extra active"
)

// Valid reports whether the activity level is one of the known tiers.
func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLightlyActive, ActivityModeratelyActive,
		ActivityVeryActive, ActivityExtraActive:
		return true
	}
	return false
}

// Goal represents the user's body-composition goal.
type Goal string

const (
	GoalWeightLoss        Goal = "weight loss"
	GoalWeightGain        Goal = "weight gain"
	GoalWeightMaintenance Goal = "weight maintenance"
	GoalMuscleGain        Goal = "muscle gain"
)

// Valid reports whether the goal is one of the known goals.
func (g Goal) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalWeightGain, GoalWeightMaintenance, GoalMuscleGain:
		return true
	}
	return false
}

// DietType represents a dietary preference.
type DietType string

const (
	DietStandard   DietType = "standard"
	DietVegetarian DietType = "vegetarian"
	DietVegan      DietType = "vegan"
	DietKeto       DietType = "keto"
	DietPaleo      DietType = "paleo"
)

// Valid reports whether the diet type is one of the known diets.
func (d DietType) Valid() bool {
	switch d {
	case DietStandard, DietVegetarian, DietVegan, DietKeto, DietPaleo:
		return true
	}
	return false
}

// MealSlot is one of the five fixed categories a food entry is filed under.
type MealSlot string

const (
	MealBreakfast MealSlot = "breakfast"
	MealLunch     MealSlot = "lunch"
	MealDinner    MealSlot = "dinner"
	MealSnacks    MealSlot = "snacks"
	MealDrinks    MealSlot = "drinks"
)

// Valid reports whether the slot is one of the five fixed slots.
func (m MealSlot) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnacks, MealDrinks:
		return true
	}
	return false
}

// AllMealSlots lists the five slots in presentation order.
var AllMealSlots = []MealSlot{MealBreakfast, MealLunch, MealDinner, MealSnacks, MealDrinks}

// HealthStatus represents the health status of a service or provider.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// Timestamp is a helper type for time.Time with RFC3339 JSON formatting.
type Timestamp time.Time

// MarshalJSON implements json.Marshaler for Timestamp.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	parsed, err := time.Parse(`"`+time.RFC3339+`"`, string(data))
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
// Birthdates and food-log dates are calendar days, not instants.
type DateOnly struct{ time.Time }

// MarshalJSON implements json.Marshaler for DateOnly.
func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for DateOnly.
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// String returns the date in YYYY-MM-DD form.
func (d DateOnly) String() string {
	return d.Time.Format("2006-01-02")
}
