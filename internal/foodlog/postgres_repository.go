package foodlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mealmeter/mealmeter/internal/api/models"
)

// PostgresRepository is a PostgreSQL implementation of Repository. Logs are
// one row per (user, day) with the meals document stored as JSONB.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL food log repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// AppendEntry appends an entry in a single upsert statement so concurrent
// appends to the same day never lose entries or miscount totals.
func (r *PostgresRepository) AppendEntry(ctx context.Context, userID string, date time.Time, slot models.MealSlot, entry Entry, targetCalories int) (*DailyLog, error) {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshaling entry: %w", err)
	}

	emptyJSON, err := json.Marshal(EmptyMeals())
	if err != nil {
		return nil, fmt.Errorf("marshaling empty meals: %w", err)
	}

	query := `
		INSERT INTO food_logs (user_id, log_date, meals, total_calories, target_calories, remaining_calories, created_at, updated_at)
		VALUES ($1, $2,
			jsonb_set($5::jsonb, ARRAY[$3], jsonb_build_array($4::jsonb)),
			$6, $7, $7::double precision - $6, $8, $8)
		ON CONFLICT (user_id, log_date) DO UPDATE
		SET meals = jsonb_set(food_logs.meals, ARRAY[$3], food_logs.meals -> $3 || $4::jsonb),
		    total_calories = food_logs.total_calories + $6,
		    target_calories = $7,
		    remaining_calories = $7::double precision - (food_logs.total_calories + $6),
		    updated_at = $8
		RETURNING user_id, log_date, meals, total_calories, target_calories, remaining_calories, created_at, updated_at
	`

	row := r.pool.QueryRow(ctx, query,
		userID,
		DateKey(date),
		string(slot),
		entryJSON,
		emptyJSON,
		entry.Calories,
		targetCalories,
		time.Now(),
	)

	return scanLog(row)
}

// GetDaily retrieves the log for one day.
func (r *PostgresRepository) GetDaily(ctx context.Context, userID string, date time.Time) (*DailyLog, error) {
	query := `
		SELECT user_id, log_date, meals, total_calories, target_calories, remaining_calories, created_at, updated_at
		FROM food_logs
		WHERE user_id = $1 AND log_date = $2
	`

	log, err := scanLog(r.pool.QueryRow(ctx, query, userID, DateKey(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return log, nil
}

// ListAll retrieves every log for a user, newest date first.
func (r *PostgresRepository) ListAll(ctx context.Context, userID string) ([]*DailyLog, error) {
	query := `
		SELECT user_id, log_date, meals, total_calories, target_calories, remaining_calories, created_at, updated_at
		FROM food_logs
		WHERE user_id = $1
		ORDER BY log_date DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*DailyLog
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func scanLog(row pgx.Row) (*DailyLog, error) {
	var log DailyLog
	var mealsJSON []byte

	err := row.Scan(
		&log.UserID,
		&log.Date,
		&mealsJSON,
		&log.TotalCalories,
		&log.TargetCalories,
		&log.RemainingCalories,
		&log.CreatedAt,
		&log.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(mealsJSON, &log.Meals); err != nil {
		return nil, fmt.Errorf("unmarshaling meals: %w", err)
	}

	// Older rows may predate a slot being introduced
	for _, slot := range models.AllMealSlots {
		if log.Meals[slot] == nil {
			log.Meals[slot] = []Entry{}
		}
	}

	return &log, nil
}
