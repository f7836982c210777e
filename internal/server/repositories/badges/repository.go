// Package badges stores awarded achievements.
package badges

import (
	"context"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]*models.UserBadge, error)
	// Award records badgeID for userID. It reports false without error when
	// the badge was already held.
	Award(ctx context.Context, userID, badgeID string) (bool, error)
}
