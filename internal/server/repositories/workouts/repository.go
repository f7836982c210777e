// Package workouts stores exercise sessions, manual and imported.
package workouts

import (
	"context"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

type Repository interface {
	// Create inserts w. A second row with the same (user, external id)
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, w *models.Workout) (*models.Workout, error)
	ExistsByExternalID(ctx context.Context, userID, externalID string) (bool, error)
	ListByDate(ctx context.Context, userID, date string) ([]*models.Workout, error)
	// Delete removes the user's workout; another user's id is ErrorNotFound.
	Delete(ctx context.Context, userID, id string) error
}
