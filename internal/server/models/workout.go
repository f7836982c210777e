package models

import "time"

const (
	IntensityLight    = "Light"
	IntensityModerate = "Moderate"
	IntensityHard     = "Hard"
)

// Workout is one exercise session. ExternalID is unique per user when set.
type Workout struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Date         string    `json:"date"`
	ActivityType string    `json:"activity_type"`
	Duration     int       `json:"duration"`
	Intensity    string    `json:"intensity"`
	Notes        *string   `json:"notes,omitempty"`
	ExternalID   *string   `json:"external_id,omitempty"`
	Source       *string   `json:"source,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidIntensity reports whether s is one of the three intensity levels.
func ValidIntensity(s string) bool {
	switch s {
	case IntensityLight, IntensityModerate, IntensityHard:
		return true
	}
	return false
}
