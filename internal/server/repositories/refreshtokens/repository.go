// Package refreshtokens stores the opaque refresh tokens handed out at login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, expiresAt time.Time) error

	// Consume deletes token and returns the row it removed, so a token can
	// be redeemed at most once. common.ErrorNotFound if it is absent.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)

	// Revoke is a no-op for unknown tokens.
	Revoke(ctx context.Context, token string) error

	// DeleteExpired removes every token that expired before now and
	// reports how many rows went away.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
