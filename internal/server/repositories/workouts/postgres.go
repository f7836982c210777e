package workouts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/dbx"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, w *models.Workout) (*models.Workout, error) {
	query := `
		INSERT INTO workouts (user_id, date, activity_type, duration, intensity, notes, external_id, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		w.UserID, w.Date, w.ActivityType, w.Duration, w.Intensity, w.Notes, w.ExternalID, w.Source).
		Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) ExistsByExternalID(ctx context.Context, userID, externalID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM workouts WHERE user_id = $1 AND external_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, externalID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ListByDate(ctx context.Context, userID, date string) ([]*models.Workout, error) {
	query := `
		SELECT id, user_id, to_char(date, 'YYYY-MM-DD'), activity_type, duration, intensity,
			notes, external_id, source, created_at
		FROM workouts
		WHERE user_id = $1 AND date = $2
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Workout
	for rows.Next() {
		w := &models.Workout{}
		if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.ActivityType, &w.Duration, &w.Intensity,
			&w.Notes, &w.ExternalID, &w.Source, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `
		DELETE FROM workouts
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
