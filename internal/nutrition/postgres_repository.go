package nutrition

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL insights repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves the stored insights for a user.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Insights, error) {
	query := `
		SELECT user_id, tdee, protein_grams, carbs_grams, fats_grams, updated_at
		FROM nutrition_insights
		WHERE user_id = $1
	`

	var i Insights
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&i.UserID,
		&i.TDEE,
		&i.ProteinGrams,
		&i.CarbsGrams,
		&i.FatsGrams,
		&i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInsightsNotFound
		}
		return nil, err
	}

	return &i, nil
}

// Upsert stores the insights, replacing any previous record.
func (r *PostgresRepository) Upsert(ctx context.Context, insights *Insights) error {
	query := `
		INSERT INTO nutrition_insights (user_id, tdee, protein_grams, carbs_grams, fats_grams, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET tdee = EXCLUDED.tdee,
		    protein_grams = EXCLUDED.protein_grams,
		    carbs_grams = EXCLUDED.carbs_grams,
		    fats_grams = EXCLUDED.fats_grams,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		insights.UserID,
		insights.TDEE,
		insights.ProteinGrams,
		insights.CarbsGrams,
		insights.FatsGrams,
		insights.UpdatedAt,
	)
	return err
}
