package bodymetrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/dbx"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

const columns = `id, user_id, to_char(date, 'YYYY-MM-DD'), weight, photo_key, measurements, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scan(row *sql.Row) (*models.BodyMetrics, error) {
	m := &models.BodyMetrics{}
	var raw []byte
	if err := row.Scan(&m.ID, &m.UserID, &m.Date, &m.Weight, &m.PhotoKey, &raw, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Measurements = map[string]float64{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m.Measurements); err != nil {
			return nil, fmt.Errorf("decode measurements: %w", err)
		}
	}
	return m, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, date string) (*models.BodyMetrics, error) {
	query := `SELECT ` + columns + `
		FROM body_metrics
		WHERE user_id = $1 AND date = $2`

	m, err := scan(r.db.QueryRowContext(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// Upsert uses COALESCE so an unset field keeps the stored value.
func (r *PostgresRepository) Upsert(ctx context.Context, userID, date string, patch *models.BodyMetricsPatch) (*models.BodyMetrics, error) {
	var measurements any
	if patch.Measurements != nil {
		b, err := json.Marshal(*patch.Measurements)
		if err != nil {
			return nil, err
		}
		measurements = string(b)
	}

	query := `INSERT INTO body_metrics (user_id, date, weight, photo_key, measurements)
		VALUES ($1, $2, $3, $4, COALESCE($5::jsonb, '{}'::jsonb))
		ON CONFLICT (user_id, date) DO UPDATE SET
			weight = COALESCE($3, body_metrics.weight),
			photo_key = COALESCE($4, body_metrics.photo_key),
			measurements = COALESCE($5::jsonb, body_metrics.measurements),
			updated_at = now()
		RETURNING ` + columns

	m, err := scan(r.db.QueryRowContext(ctx, query, userID, date, patch.Weight, patch.PhotoKey, measurements))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}
