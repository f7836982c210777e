package models

import "time"

// UserBadge is an append-only award record, unique per (user, badge).
type UserBadge struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	BadgeID  string    `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}
