package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

const (
	minScale = 1
	maxScale = 5

	maxNoteLength = 2000
	maxHabits     = 50
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

// ValidateDate accepts only canonical YYYY-MM-DD calendar dates.
func ValidateDate(date string) error {
	t, err := time.Parse(common.DateLayout, date)
	if err != nil || t.Format(common.DateLayout) != date {
		return invalid("date %q is not YYYY-MM-DD", date)
	}
	return nil
}

// ValidateDateRange checks both ends and their order.
func ValidateDateRange(from, to string) error {
	if err := ValidateDate(from); err != nil {
		return err
	}
	if err := ValidateDate(to); err != nil {
		return err
	}
	if from > to {
		return invalid("from %s is after to %s", from, to)
	}
	return nil
}

func checkScale(name string, v *int) error {
	if v != nil && (*v < minScale || *v > maxScale) {
		return invalid("%s must be between %d and %d", name, minScale, maxScale)
	}
	return nil
}

func checkNonNegativeInt(name string, v *int) error {
	if v != nil && *v < 0 {
		return invalid("%s must not be negative", name)
	}
	return nil
}

func checkNonNegativeFloat(name string, v *float64) error {
	if v != nil && *v < 0 {
		return invalid("%s must not be negative", name)
	}
	return nil
}

func checkClock(name string, v *string) error {
	if v == nil {
		return nil
	}
	if _, err := time.Parse("15:04", *v); err != nil || len(*v) != 5 {
		return invalid("%s must be HH:MM", name)
	}
	return nil
}

// cleanHabits trims names and drops empties and duplicates, keeping order.
func cleanHabits(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, h := range in {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	if len(out) > maxHabits {
		return nil, invalid("at most %d habits", maxHabits)
	}
	return out, nil
}

func validateDailyLogPatch(p *models.DailyLogPatch) error {
	if p == nil {
		return invalid("empty patch")
	}
	checks := []error{
		checkNonNegativeInt("movement_duration", p.MovementDuration),
		checkNonNegativeFloat("protein_grams", p.ProteinGrams),
		checkNonNegativeFloat("carbs_grams", p.CarbsGrams),
		checkNonNegativeFloat("fat_grams", p.FatGrams),
		checkNonNegativeInt("calories", p.Calories),
		checkNonNegativeFloat("alcohol_drinks", p.AlcoholDrinks),
		checkScale("sleep_quality", p.SleepQuality),
		checkScale("energy_level", p.EnergyLevel),
		checkScale("motivation_level", p.MotivationLevel),
		checkScale("stress_level", p.StressLevel),
		checkClock("eating_window_start", p.EatingWindowStart),
		checkClock("eating_window_end", p.EatingWindowEnd),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if p.CycleFlow != nil {
		switch *p.CycleFlow {
		case models.FlowNone, models.FlowLight, models.FlowMedium, models.FlowHeavy:
		default:
			return invalid("cycle_flow %q is not one of none, light, medium, heavy", *p.CycleFlow)
		}
	}
	if p.DailyNote != nil && len(*p.DailyNote) > maxNoteLength {
		return invalid("daily_note is longer than %d bytes", maxNoteLength)
	}
	if p.Habits != nil {
		h, err := cleanHabits(*p.Habits)
		if err != nil {
			return err
		}
		p.Habits = &h
	}
	return nil
}

func validateWorkout(w *models.Workout) error {
	if err := ValidateDate(w.Date); err != nil {
		return err
	}
	w.ActivityType = strings.TrimSpace(w.ActivityType)
	if w.ActivityType == "" {
		return invalid("activity_type is required")
	}
	if w.Duration <= 0 {
		return invalid("duration must be positive")
	}
	if w.Intensity == "" {
		w.Intensity = models.IntensityModerate
	}
	if !models.ValidIntensity(w.Intensity) {
		return invalid("intensity %q is not Light, Moderate or Hard", w.Intensity)
	}
	return nil
}

func validateMetricsPatch(p *models.BodyMetricsPatch) error {
	if p == nil {
		return invalid("empty patch")
	}
	if p.Weight != nil && *p.Weight <= 0 {
		return invalid("weight must be positive")
	}
	if p.Measurements != nil {
		for k, v := range *p.Measurements {
			if strings.TrimSpace(k) == "" {
				return invalid("measurement name is empty")
			}
			if v < 0 {
				return invalid("measurement %q must not be negative", k)
			}
		}
	}
	return nil
}

func validateSettingsPatch(p *models.SettingsPatch) error {
	if p == nil {
		return invalid("empty patch")
	}
	if err := checkNonNegativeFloat("target_weight", p.TargetWeight); err != nil {
		return err
	}
	if err := checkNonNegativeFloat("target_protein", p.TargetProtein); err != nil {
		return err
	}
	if err := checkNonNegativeInt("target_calories", p.TargetCalories); err != nil {
		return err
	}
	if p.CustomHabits != nil {
		h, err := cleanHabits(*p.CustomHabits)
		if err != nil {
			return err
		}
		p.CustomHabits = &h
	}
	return nil
}
