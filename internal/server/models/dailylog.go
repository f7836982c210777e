package models

import "time"

// Cycle flow categories accepted on a daily log.
const (
	FlowNone   = "none"
	FlowLight  = "light"
	FlowMedium = "medium"
	FlowHeavy  = "heavy"
)

// DailyLog is one user's record for one calendar day. At most one exists per
// (user, date).
type DailyLog struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Date              string    `json:"date"`
	MovementCompleted bool      `json:"movement_completed"`
	MovementDuration  *int      `json:"movement_duration,omitempty"`
	ProteinGrams      *float64  `json:"protein_grams,omitempty"`
	CarbsGrams        *float64  `json:"carbs_grams,omitempty"`
	FatGrams          *float64  `json:"fat_grams,omitempty"`
	Calories          *int      `json:"calories,omitempty"`
	EatingWindowStart *string   `json:"eating_window_start,omitempty"`
	EatingWindowEnd   *string   `json:"eating_window_end,omitempty"`
	NutritionTracked  bool      `json:"nutrition_tracked"`
	AlcoholDrinks     *float64  `json:"alcohol_drinks,omitempty"`
	SleepQuality      *int      `json:"sleep_quality,omitempty"`
	EnergyLevel       *int      `json:"energy_level,omitempty"`
	MotivationLevel   *int      `json:"motivation_level,omitempty"`
	StressLevel       *int      `json:"stress_level,omitempty"`
	DailyNote         *string   `json:"daily_note,omitempty"`
	Habits            []string  `json:"habits"`
	CycleFlow         *string   `json:"cycle_flow,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DailyLogPatch lists the fields a save wants to change. Nil fields are left
// untouched; names in Clear are set to NULL.
type DailyLogPatch struct {
	MovementCompleted *bool     `json:"movement_completed,omitempty"`
	MovementDuration  *int      `json:"movement_duration,omitempty"`
	ProteinGrams      *float64  `json:"protein_grams,omitempty"`
	CarbsGrams        *float64  `json:"carbs_grams,omitempty"`
	FatGrams          *float64  `json:"fat_grams,omitempty"`
	Calories          *int      `json:"calories,omitempty"`
	EatingWindowStart *string   `json:"eating_window_start,omitempty"`
	EatingWindowEnd   *string   `json:"eating_window_end,omitempty"`
	NutritionTracked  *bool     `json:"nutrition_tracked,omitempty"`
	AlcoholDrinks     *float64  `json:"alcohol_drinks,omitempty"`
	SleepQuality      *int      `json:"sleep_quality,omitempty"`
	EnergyLevel       *int      `json:"energy_level,omitempty"`
	MotivationLevel   *int      `json:"motivation_level,omitempty"`
	StressLevel       *int      `json:"stress_level,omitempty"`
	DailyNote         *string   `json:"daily_note,omitempty"`
	Habits            *[]string `json:"habits,omitempty"`
	CycleFlow         *string   `json:"cycle_flow,omitempty"`
	Clear             []string  `json:"clear,omitempty"`
}
