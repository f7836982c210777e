// Package dailylogs persists one log row per (user, date).
package dailylogs

import (
	"context"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the user has no log for date.
	Get(ctx context.Context, userID, date string) (*models.DailyLog, error)

	// ListRange returns logs with from <= date <= to, oldest first.
	ListRange(ctx context.Context, userID, from, to string) ([]*models.DailyLog, error)

	// ListRecent returns up to limit most recent logs, oldest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]*models.DailyLog, error)

	// MovementDates returns up to limit dates with movement completed,
	// newest first.
	MovementDates(ctx context.Context, userID string, limit int) ([]string, error)

	// Patch creates the row if missing and writes only the fields set in
	// patch. Columns named in patch.Clear are set to NULL.
	Patch(ctx context.Context, userID, date string, patch *models.DailyLogPatch) (*models.DailyLog, error)

	// MarkMovementCompleted sets movement_completed on the (user, date) row,
	// creating a minimal row when absent. No other column is touched.
	MarkMovementCompleted(ctx context.Context, userID, date string) error
}
