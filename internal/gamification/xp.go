package gamification

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

const (
	xpBase     = 10
	xpMovement = 10
	xpProtein  = 5
	xpCalories = 5
	xpPerHabit = 5

	// XPPerLevel is the width of every level band.
	XPPerLevel = 100

	// HistoryWindowDays is how far back the XP history view reaches.
	HistoryWindowDays = 30
)

// Targets are the user's optional daily goals. A nil or non-positive value
// means the goal is not set.
type Targets struct {
	Protein  *float64
	Calories *int
}

func TargetsFromSettings(s *models.UserSettings) Targets {
	if s == nil {
		return Targets{}
	}
	return Targets{Protein: s.TargetProtein, Calories: s.TargetCalories}
}

func (t Targets) proteinSet() bool  { return t.Protein != nil && *t.Protein > 0 }
func (t Targets) caloriesSet() bool { return t.Calories != nil && *t.Calories > 0 }

func movementDone(log *models.DailyLog) bool {
	return log.MovementCompleted || (log.MovementDuration != nil && *log.MovementDuration > 0)
}

func proteinHit(log *models.DailyLog, t Targets) bool {
	return t.proteinSet() && log.ProteinGrams != nil && *log.ProteinGrams >= *t.Protein
}

// caloriesTracked awards the calorie bonus for any logged calories once a
// calorie target exists. The target value itself is not compared.
func caloriesTracked(log *models.DailyLog, t Targets) bool {
	return t.caloriesSet() && log.Calories != nil && *log.Calories > 0
}

func distinctHabits(habits []string) int {
	seen := make(map[string]struct{}, len(habits))
	for _, h := range habits {
		seen[h] = struct{}{}
	}
	return len(seen)
}

// CalculateXP scores one day's log. A nil log scores 0; any stored log
// scores at least the base award.
func CalculateXP(log *models.DailyLog, targets Targets) int {
	if log == nil {
		return 0
	}

	xp := xpBase
	if movementDone(log) {
		xp += xpMovement
	}
	if proteinHit(log, targets) {
		xp += xpProtein
	}
	if caloriesTracked(log, targets) {
		xp += xpCalories
	}
	xp += xpPerHabit * distinctHabits(log.Habits)
	return xp
}

// Level maps lifetime XP to a level, starting at 1.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// Progress describes where lifetime XP sits inside its level band.
type Progress struct {
	Level     int `json:"level"`
	Lifetime  int `json:"lifetime_xp"`
	IntoLevel int `json:"xp_into_level"`
	ToNext    int `json:"xp_to_next_level"`
}

func LevelProgress(xp int) Progress {
	if xp < 0 {
		xp = 0
	}
	lvl := Level(xp)
	into := xp - (lvl-1)*XPPerLevel
	return Progress{Level: lvl, Lifetime: xp, IntoLevel: into, ToNext: XPPerLevel - into}
}

// DeltaResult is the outcome of re-scoring one day after an edit.
type DeltaResult struct {
	Delta      int  `json:"xp_delta"`
	LifetimeXP int  `json:"lifetime_xp"`
	Level      int  `json:"level"`
	LeveledUp  bool `json:"leveled_up"`
}

// ApplyDelta moves lifetime XP by after-before, clamped at 0. Only the
// difference is applied, so re-saving an unchanged day is a no-op.
func ApplyDelta(lifetime, before, after int) DeltaResult {
	delta := after - before
	next := lifetime + delta
	if next < 0 {
		next = 0
	}
	prevLevel := Level(lifetime)
	newLevel := Level(next)
	return DeltaResult{
		Delta:      delta,
		LifetimeXP: next,
		Level:      newLevel,
		LeveledUp:  newLevel > prevLevel,
	}
}

// XPDay is one row of the XP history view.
type XPDay struct {
	Date    string   `json:"date"`
	XP      int      `json:"xp"`
	Details []string `json:"details"`
}

// XPHistory scores each log, labels what earned points, drops zero-XP days
// and returns newest first. logs are expected oldest first.
func XPHistory(logs []*models.DailyLog, targets Targets) []XPDay {
	out := make([]XPDay, 0, len(logs))
	for _, log := range logs {
		xp := CalculateXP(log, targets)
		if xp <= 0 {
			continue
		}
		details := []string{}
		if movementDone(log) {
			details = append(details, "Movement")
		}
		if proteinHit(log, targets) {
			details = append(details, "Protein Goal")
		}
		if caloriesTracked(log, targets) {
			details = append(details, "Tracked Cals")
		}
		if n := distinctHabits(log.Habits); n > 0 {
			details = append(details, fmt.Sprintf("%d Habits", n))
		}
		out = append(out, XPDay{Date: log.Date, XP: xp, Details: details})
	}
	slices.Reverse(out)
	return out
}
