package models

// ProfileCreateRequest is the payload for completing a user profile.
// All goal-relevant fields are required; the validator enforces the
// goal/target-weight consistency rules before anything is persisted.
type ProfileCreateRequest struct {
	Gender         Gender        `json:"gender"`
	Birthdate      DateOnly      `json:"birthdate"`
	HeightCM       float64       `json:"height_cm"`
	WeightKG       float64       `json:"weight_kg"`
	ActivityLevel  ActivityLevel `json:"activity_level"`
	Goal           Goal          `json:"goal"`
	TargetWeightKG float64       `json:"target_weight"`
	WeeklyGoalKG   float64       `json:"weekly_goal_kg"`

	DietType          *DietType `json:"diet_type,omitempty"`
	FoodPreferences   []string  `json:"food_preferences,omitempty"`
	Allergies         []string  `json:"allergies,omitempty"`
	MedicalConditions []string  `json:"medical_conditions,omitempty"`
	Medications       []string  `json:"medications,omitempty"`
}

// ProfileUpdateRequest is an explicit patch: only fields present in the
// payload are applied. Goal-consistency checks run only when the patch
// sets the goal itself.
type ProfileUpdateRequest struct {
	Gender         *Gender        `json:"gender,omitempty"`
	Birthdate      *DateOnly      `json:"birthdate,omitempty"`
	HeightCM       *float64       `json:"height_cm,omitempty"`
	WeightKG       *float64       `json:"weight_kg,omitempty"`
	ActivityLevel  *ActivityLevel `json:"activity_level,omitempty"`
	Goal           *Goal          `json:"goal,omitempty"`
	TargetWeightKG *float64       `json:"target_weight,omitempty"`
	WeeklyGoalKG   *float64       `json:"weekly_goal_kg,omitempty"`

	DietType          *DietType `json:"diet_type,omitempty"`
	FoodPreferences   []string  `json:"food_preferences,omitempty"`
	Allergies         []string  `json:"allergies,omitempty"`
	MedicalConditions []string  `json:"medical_conditions,omitempty"`
	Medications       []string  `json:"medications,omitempty"`
}

// Profile is the API representation of a user profile.
type Profile struct {
	UserID         string        `json:"user_id"`
	Gender         Gender        `json:"gender"`
	Birthdate      DateOnly      `json:"birthdate"`
	HeightCM       float64       `json:"height_cm"`
	WeightKG       float64       `json:"weight_kg"`
	ActivityLevel  ActivityLevel `json:"activity_level"`
	Goal           Goal          `json:"goal"`
	TargetWeightKG float64       `json:"target_weight"`
	WeeklyGoalKG   float64       `json:"weekly_goal_kg"`

	DietType          *DietType `json:"diet_type,omitempty"`
	FoodPreferences   []string  `json:"food_preferences,omitempty"`
	Allergies         []string  `json:"allergies,omitempty"`
	MedicalConditions []string  `json:"medical_conditions,omitempty"`
	Medications       []string  `json:"medications,omitempty"`

	// IsSetup distinguishes a completed profile from the preliminary
	// stub created at signup.
	IsSetup bool `json:"is_setup"`

	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}
