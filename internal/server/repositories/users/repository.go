// Package users stores accounts. Emails are stored already normalized, so
// lookups compare them verbatim.
package users

import (
	"context"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

type Repository interface {
	// Create fills in ID and CreatedAt. A taken email is
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
