// Package integrations stores OAuth credentials per (user, provider).
package integrations

import (
	"context"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the user has not connected provider.
	Get(ctx context.Context, userID, provider string) (*models.Integration, error)
	// Upsert creates or overwrites the (user, provider) row.
	Upsert(ctx context.Context, in *models.Integration) error
	// UpdateTokens overwrites the token triple in one statement.
	UpdateTokens(ctx context.Context, userID, provider, accessToken, refreshToken string, expiresAt int64) error
	Delete(ctx context.Context, userID, provider string) error
}
