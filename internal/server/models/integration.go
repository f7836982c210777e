package models

import "time"

// Integration is the stored OAuth credential pair for one (user, provider).
// ExpiresAt is epoch seconds, as issued by the provider.
type Integration struct {
	ID           string
	UserID       string
	Provider     string
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
	UpdatedAt    time.Time
}
