// Package settings stores per-user targets, preferences and XP totals.
package settings

import (
	"context"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the user never saved settings.
	Get(ctx context.Context, userID string) (*models.UserSettings, error)
	// GetForUpdate is Get with a row lock; use it inside a transaction. The
	// row is created with defaults when missing, so it never returns
	// common.ErrorNotFound.
	GetForUpdate(ctx context.Context, userID string) (*models.UserSettings, error)
	Update(ctx context.Context, userID string, patch *models.SettingsPatch) (*models.UserSettings, error)
	SetProgress(ctx context.Context, userID string, lifetimeXP, level int) error
}
