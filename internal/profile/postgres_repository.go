package profile

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mealmeter/mealmeter/internal/api/models"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL profile repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a profile by user ID.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Profile, error) {
	query := `
		SELECT user_id, gender, birthdate, height_cm, weight_kg, activity_level,
		       goal, target_weight_kg, weekly_goal_kg, diet_type, food_preferences,
		       allergies, medical_conditions, medications, is_setup, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var p Profile
	var gender, activityLevel, goal, dietType *string
	var birthdate *time.Time
	var heightCM, weightKG, targetWeightKG, weeklyGoalKG *float64

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&gender,
		&birthdate,
		&heightCM,
		&weightKG,
		&activityLevel,
		&goal,
		&targetWeightKG,
		&weeklyGoalKG,
		&dietType,
		&p.FoodPreferences,
		&p.Allergies,
		&p.MedicalConditions,
		&p.Medications,
		&p.IsSetup,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	// Stub rows have NULL goal columns
	if gender != nil {
		p.Gender = models.Gender(*gender)
	}
	if birthdate != nil {
		p.Birthdate = *birthdate
	}
	if heightCM != nil {
		p.HeightCM = *heightCM
	}
	if weightKG != nil {
		p.WeightKG = *weightKG
	}
	if activityLevel != nil {
		p.ActivityLevel = models.ActivityLevel(*activityLevel)
	}
	if goal != nil {
		p.Goal = models.Goal(*goal)
	}
	if targetWeightKG != nil {
		p.TargetWeightKG = *targetWeightKG
	}
	if weeklyGoalKG != nil {
		p.WeeklyGoalKG = *weeklyGoalKG
	}
	if dietType != nil {
		dt := models.DietType(*dietType)
		p.DietType = &dt
	}

	return &p, nil
}

// Create creates a new profile row.
func (r *PostgresRepository) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (user_id, gender, birthdate, height_cm, weight_kg,
			activity_level, goal, target_weight_kg, weekly_goal_kg, diet_type,
			food_preferences, allergies, medical_conditions, medications,
			is_setup, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.pool.Exec(ctx, query, profileArgs(p)...)
	return err
}

// Update updates an existing profile row.
func (r *PostgresRepository) Update(ctx context.Context, p *Profile) error {
	query := `
		UPDATE profiles
		SET gender = $2,
		    birthdate = $3,
		    height_cm = $4,
		    weight_kg = $5,
		    activity_level = $6,
		    goal = $7,
		    target_weight_kg = $8,
		    weekly_goal_kg = $9,
		    diet_type = $10,
		    food_preferences = $11,
		    allergies = $12,
		    medical_conditions = $13,
		    medications = $14,
		    is_setup = $15,
		    updated_at = $17
		WHERE user_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, profileArgs(p)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ListSetupUserIDs returns the user IDs of all completed profiles.
func (r *PostgresRepository) ListSetupUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id FROM profiles WHERE is_setup`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// profileArgs builds the positional arguments shared by Create and Update.
// Stub rows keep their goal columns NULL until the profile is completed.
func profileArgs(p *Profile) []any {
	var gender, activityLevel, goal, dietType *string
	var birthdate *time.Time
	var heightCM, weightKG, targetWeightKG, weeklyGoalKG *float64

	if p.IsSetup {
		g := string(p.Gender)
		gender = &g
		birthdate = &p.Birthdate
		heightCM = &p.HeightCM
		weightKG = &p.WeightKG
		al := string(p.ActivityLevel)
		activityLevel = &al
		gl := string(p.Goal)
		goal = &gl
		targetWeightKG = &p.TargetWeightKG
		weeklyGoalKG = &p.WeeklyGoalKG
	}
	if p.DietType != nil {
		dt := string(*p.DietType)
		dietType = &dt
	}

	return []any{
		p.UserID,
		gender,
		birthdate,
		heightCM,
		weightKG,
		activityLevel,
		goal,
		targetWeightKG,
		weeklyGoalKG,
		dietType,
		p.FoodPreferences,
		p.Allergies,
		p.MedicalConditions,
		p.Medications,
		p.IsSetup,
		p.CreatedAt,
		p.UpdatedAt,
	}
}
