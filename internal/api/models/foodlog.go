package models

// FoodEntryRequest is the payload for logging a single food item.
// Date is optional; when absent the entry lands on today's log (UTC).
type FoodEntryRequest struct {
	FoodName    string    `json:"food_name"`
	MealType    MealSlot  `json:"meal_type"`
	Calories    float64   `json:"calories"`
	ServingSize *string   `json:"serving_size,omitempty"`
	Date        *DateOnly `json:"date,omitempty"`
}

// MealEntry is a single logged food item inside a daily log.
type MealEntry struct {
	ID          string    `json:"id"`
	FoodName    string    `json:"food_name"`
	Calories    float64   `json:"calories"`
	ServingSize *string   `json:"serving_size,omitempty"`
	TimeLogged  Timestamp `json:"time_logged"`
}

// DailyFoodLog is one calendar day of logged meals with running totals.
// Meals always contains all five slots, each possibly empty.
type DailyFoodLog struct {
	UserID            string                   `json:"user_id"`
	Date              DateOnly                 `json:"date"`
	Meals             map[MealSlot][]MealEntry `json:"meals"`
	TotalCalories     float64                  `json:"total_calories"`
	TargetCalories    int                      `json:"target_calories"`
	RemainingCalories float64                  `json:"remaining_calories"`
}

// FoodLogList is the response for listing every log a user has.
type FoodLogList struct {
	Logs  []DailyFoodLog `json:"logs"`
	Count int            `json:"count"`
}
