// Package profile manages user profiles and their goal validation rules.
package profile

import (
	"errors"
	"time"

	"github.com/mealmeter/mealmeter/internal/api/models"
)

// Repository errors.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already set up")
)

// Profile is the domain representation of a user profile.
// A stub row (IsSetup=false) is created at signup; completing the profile
// fills the remaining fields and flips the flag.
type Profile struct {
	UserID         string
	Gender         models.Gender
	Birthdate      time.Time
	HeightCM       float64
	WeightKG       float64
	ActivityLevel  models.ActivityLevel
	Goal           models.Goal
	TargetWeightKG float64
	WeeklyGoalKG   float64

	DietType          *models.DietType
	FoodPreferences   []string
	Allergies         []string
	MedicalConditions []string
	Medications       []string

	IsSetup   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
