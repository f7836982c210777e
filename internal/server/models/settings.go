package models

import "time"

// UserSettings holds per-user targets and the gamification totals.
type UserSettings struct {
	UserID         string    `json:"user_id"`
	TargetWeight   *float64  `json:"target_weight,omitempty"`
	TargetProtein  *float64  `json:"target_protein,omitempty"`
	TargetCalories *int      `json:"target_calories,omitempty"`
	CycleTracking  bool      `json:"cycle_tracking"`
	CustomHabits   []string  `json:"custom_habits"`
	LifetimeXP     int       `json:"lifetime_xp"`
	Level          int       `json:"level"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DefaultSettings is what a user without a settings row sees.
func DefaultSettings(userID string) *UserSettings {
	return &UserSettings{UserID: userID, CustomHabits: []string{}, Level: 1}
}

// SettingsPatch is the user-editable subset. XP and level are written only
// by the gamification write-back.
type SettingsPatch struct {
	TargetWeight   *float64  `json:"target_weight,omitempty"`
	TargetProtein  *float64  `json:"target_protein,omitempty"`
	TargetCalories *int      `json:"target_calories,omitempty"`
	CycleTracking  *bool     `json:"cycle_tracking,omitempty"`
	CustomHabits   *[]string `json:"custom_habits,omitempty"`
}
