package dailylogs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/dbx"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

const selectColumns = `id, user_id, to_char(date, 'YYYY-MM-DD'), movement_completed, movement_duration,
	protein_grams, carbs_grams, fat_grams, calories, eating_window_start, eating_window_end,
	nutrition_tracked, alcohol_drinks, sleep_quality, energy_level, motivation_level, stress_level,
	daily_note, habits, cycle_flow, created_at, updated_at`

// clearable lists the nullable columns a patch may reset.
var clearable = map[string]bool{
	"movement_duration":   true,
	"protein_grams":       true,
	"carbs_grams":         true,
	"fat_grams":           true,
	"calories":            true,
	"eating_window_start": true,
	"eating_window_end":   true,
	"alcohol_drinks":      true,
	"sleep_quality":       true,
	"energy_level":        true,
	"motivation_level":    true,
	"stress_level":        true,
	"daily_note":          true,
	"cycle_flow":          true,
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLog(s scanner) (*models.DailyLog, error) {
	l := &models.DailyLog{}
	var habits []byte
	err := s.Scan(&l.ID, &l.UserID, &l.Date, &l.MovementCompleted, &l.MovementDuration,
		&l.ProteinGrams, &l.CarbsGrams, &l.FatGrams, &l.Calories, &l.EatingWindowStart, &l.EatingWindowEnd,
		&l.NutritionTracked, &l.AlcoholDrinks, &l.SleepQuality, &l.EnergyLevel, &l.MotivationLevel, &l.StressLevel,
		&l.DailyNote, &habits, &l.CycleFlow, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.Habits = []string{}
	if len(habits) > 0 {
		if err := json.Unmarshal(habits, &l.Habits); err != nil {
			return nil, fmt.Errorf("decode habits: %w", err)
		}
	}
	return l, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, date string) (*models.DailyLog, error) {
	query := `SELECT ` + selectColumns + `
		FROM daily_logs
		WHERE user_id = $1 AND date = $2`

	l, err := scanLog(r.db.QueryRowContext(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) ListRange(ctx context.Context, userID, from, to string) ([]*models.DailyLog, error) {
	query := `SELECT ` + selectColumns + `
		FROM daily_logs
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date`

	return r.list(ctx, query, userID, from, to)
}

func (r *PostgresRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*models.DailyLog, error) {
	query := `SELECT ` + selectColumns + `
		FROM daily_logs
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2`

	logs, err := r.list(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	slices.Reverse(logs)
	return logs, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.DailyLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.DailyLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) MovementDates(ctx context.Context, userID string, limit int) ([]string, error) {
	query := `SELECT to_char(date, 'YYYY-MM-DD')
		FROM daily_logs
		WHERE user_id = $1 AND movement_completed
		ORDER BY date DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return dates, nil
}

// patchColumns flattens the set fields of p into parallel column/value lists.
func patchColumns(p *models.DailyLogPatch) ([]string, []any, error) {
	var cols []string
	var vals []any
	add := func(col string, v any) {
		cols = append(cols, col)
		vals = append(vals, v)
	}

	if p.MovementCompleted != nil {
		add("movement_completed", *p.MovementCompleted)
	}
	if p.MovementDuration != nil {
		add("movement_duration", *p.MovementDuration)
	}
	if p.ProteinGrams != nil {
		add("protein_grams", *p.ProteinGrams)
	}
	if p.CarbsGrams != nil {
		add("carbs_grams", *p.CarbsGrams)
	}
	if p.FatGrams != nil {
		add("fat_grams", *p.FatGrams)
	}
	if p.Calories != nil {
		add("calories", *p.Calories)
	}
	if p.EatingWindowStart != nil {
		add("eating_window_start", *p.EatingWindowStart)
	}
	if p.EatingWindowEnd != nil {
		add("eating_window_end", *p.EatingWindowEnd)
	}
	if p.NutritionTracked != nil {
		add("nutrition_tracked", *p.NutritionTracked)
	}
	if p.AlcoholDrinks != nil {
		add("alcohol_drinks", *p.AlcoholDrinks)
	}
	if p.SleepQuality != nil {
		add("sleep_quality", *p.SleepQuality)
	}
	if p.EnergyLevel != nil {
		add("energy_level", *p.EnergyLevel)
	}
	if p.MotivationLevel != nil {
		add("motivation_level", *p.MotivationLevel)
	}
	if p.StressLevel != nil {
		add("stress_level", *p.StressLevel)
	}
	if p.DailyNote != nil {
		add("daily_note", *p.DailyNote)
	}
	if p.Habits != nil {
		habits := *p.Habits
		if habits == nil {
			habits = []string{}
		}
		b, err := json.Marshal(habits)
		if err != nil {
			return nil, nil, err
		}
		add("habits", string(b))
	}
	if p.CycleFlow != nil {
		add("cycle_flow", *p.CycleFlow)
	}

	for _, c := range p.Clear {
		if !clearable[c] {
			return nil, nil, fmt.Errorf("%w: column %q cannot be cleared", common.ErrorValidation, c)
		}
		for _, existing := range cols {
			if existing == c {
				return nil, nil, fmt.Errorf("%w: column %q both set and cleared", common.ErrorValidation, c)
			}
		}
		add(c, nil)
	}
	return cols, vals, nil
}

func (r *PostgresRepository) Patch(ctx context.Context, userID, date string, patch *models.DailyLogPatch) (*models.DailyLog, error) {
	cols, vals, err := patchColumns(patch)
	if err != nil {
		return nil, err
	}

	insertCols := append([]string{"user_id", "date"}, cols...)
	args := append([]any{userID, date}, vals...)

	placeholders := make([]string, len(insertCols))
	for i := range insertCols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	sets := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf(`INSERT INTO daily_logs (%s)
		VALUES (%s)
		ON CONFLICT (user_id, date) DO UPDATE SET %s
		RETURNING %s`,
		strings.Join(insertCols, ", "), strings.Join(placeholders, ", "), strings.Join(sets, ", "), selectColumns)

	l, err := scanLog(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) MarkMovementCompleted(ctx context.Context, userID, date string) error {
	query := `INSERT INTO daily_logs (user_id, date, movement_completed)
		VALUES ($1, $2, true)
		ON CONFLICT (user_id, date) DO UPDATE SET movement_completed = true, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, userID, date); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
