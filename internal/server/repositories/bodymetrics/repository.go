// Package bodymetrics stores weight, measurements and the progress photo key
// per (user, date).
package bodymetrics

import (
	"context"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, userID, date string) (*models.BodyMetrics, error)
	// Upsert writes only the fields set in patch.
	Upsert(ctx context.Context, userID, date string, patch *models.BodyMetricsPatch) (*models.BodyMetrics, error)
}
