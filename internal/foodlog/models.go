// Package foodlog maintains per-day food diaries with running calorie totals.
package foodlog

import (
	"errors"
	"time"

	"github.com/mealmeter/mealmeter/internal/api/models"
)

// DefaultTargetCalories is the calorie target used when a user has no
// stored nutrition insights yet.
const DefaultTargetCalories = 2000

// Package errors.
var (
	ErrLogNotFound     = errors.New("food log not found")
	ErrUnknownMealSlot = errors.New("unknown meal slot")
)

// Entry is a single logged food item. The JSON tags define the shape
// stored inside the meals document.
type Entry struct {
	ID          string    `json:"id"`
	FoodName    string    `json:"food_name"`
	Calories    float64   `json:"calories"`
	ServingSize *string   `json:"serving_size,omitempty"`
	TimeLogged  time.Time `json:"time_logged"`
}

// DailyLog is one calendar day of entries for one user. Meals always holds
// all five slots; appends preserve insertion order within a slot.
type DailyLog struct {
	UserID            string
	Date              time.Time
	Meals             map[models.MealSlot][]Entry
	TotalCalories     float64
	TargetCalories    int
	RemainingCalories float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// EmptyMeals returns a meals document with all five slots present and empty.
func EmptyMeals() map[models.MealSlot][]Entry {
	meals := make(map[models.MealSlot][]Entry, len(models.AllMealSlots))
	for _, slot := range models.AllMealSlots {
		meals[slot] = []Entry{}
	}
	return meals
}

// NewEmptyLog builds the synthesized log returned for days with no entries.
func NewEmptyLog(userID string, date time.Time, targetCalories int) *DailyLog {
	return &DailyLog{
		UserID:            userID,
		Date:              date,
		Meals:             EmptyMeals(),
		TotalCalories:     0,
		TargetCalories:    targetCalories,
		RemainingCalories: float64(targetCalories),
	}
}

// DateKey normalizes a timestamp to its calendar day in UTC.
func DateKey(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
