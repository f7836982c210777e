package settings

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

const columns = `user_id, target_weight, target_protein, target_calories, cycle_tracking,
	custom_habits, lifetime_xp, level, updated_at`

const ensureRowQuery = `INSERT INTO user_settings (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scan(row *sql.Row) (*models.UserSettings, error) {
	s := &models.UserSettings{}
	var habits []byte
	if err := row.Scan(&s.UserID, &s.TargetWeight, &s.TargetProtein, &s.TargetCalories, &s.CycleTracking,
		&habits, &s.LifetimeXP, &s.Level, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.CustomHabits = []string{}
	if len(habits) > 0 {
		if err := json.Unmarshal(habits, &s.CustomHabits); err != nil {
			return nil, fmt.Errorf("decode custom habits: %w", err)
		}
	}
	return s, nil
}

func (r *PostgresRepository) get(ctx context.Context, query, userID string) (*models.UserSettings, error) {
	s, err := scan(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	return r.get(ctx, `SELECT `+columns+` FROM user_settings WHERE user_id = $1`, userID)
}

// GetForUpdate creates the default row first so a user's first saves
// serialise on the same lock.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, userID string) (*models.UserSettings, error) {
	if _, err := r.db.ExecContext(ctx, ensureRowQuery, userID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.get(ctx, `SELECT `+columns+` FROM user_settings WHERE user_id = $1 FOR UPDATE`, userID)
}

func (r *PostgresRepository) Update(ctx context.Context, userID string, patch *models.SettingsPatch) (*models.UserSettings, error) {
	var habits any
	if patch.CustomHabits != nil {
		h := *patch.CustomHabits
		if h == nil {
			h = []string{}
		}
		b, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		habits = string(b)
	}

	query := `INSERT INTO user_settings (user_id, target_weight, target_protein, target_calories, cycle_tracking, custom_habits)
		VALUES ($1, $2, $3, $4, COALESCE($5, false), COALESCE($6::jsonb, '[]'::jsonb))
		ON CONFLICT (user_id) DO UPDATE SET
			target_weight = COALESCE($2, user_settings.target_weight),
			target_protein = COALESCE($3, user_settings.target_protein),
			target_calories = COALESCE($4, user_settings.target_calories),
			cycle_tracking = COALESCE($5, user_settings.cycle_tracking),
			custom_habits = COALESCE($6::jsonb, user_settings.custom_habits),
			updated_at = now()
		RETURNING ` + columns

	s, err := scan(r.db.QueryRowContext(ctx, query, userID,
		patch.TargetWeight, patch.TargetProtein, patch.TargetCalories, patch.CycleTracking, habits))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) SetProgress(ctx context.Context, userID string, lifetimeXP, level int) error {
	query := `INSERT INTO user_settings (user_id, lifetime_xp, level)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET lifetime_xp = $2, level = $3, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, userID, lifetimeXP, level); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
