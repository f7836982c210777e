// Package gamification holds the pure scoring rules: movement streaks, daily
// XP and levels, badge predicates and the coaching tip. Nothing here touches
// storage; callers load the inputs and persist the results.
package gamification

import (
	"time"

	"github.com/dmitrijs2005/fitlog/internal/common"
)

// StreakHistoryWindow bounds how many recent movement dates need loading.
const StreakHistoryWindow = 100

// civilDay drops the clock part of t, keeping t's calendar date. Noon UTC is
// used so AddDate never lands on a DST edge.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}

// CalculateStreak returns the length of the run of consecutive dates in
// activeDates that ends today or yesterday, as seen from now. A run that last
// touched yesterday is still alive; anything older counts as broken.
func CalculateStreak(activeDates []string, now time.Time) int {
	if len(activeDates) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(activeDates))
	for _, d := range activeDates {
		set[d] = struct{}{}
	}

	day := civilDay(now)
	if _, ok := set[day.Format(common.DateLayout)]; !ok {
		day = day.AddDate(0, 0, -1)
		if _, ok := set[day.Format(common.DateLayout)]; !ok {
			return 0
		}
	}

	streak := 0
	for {
		if _, ok := set[day.Format(common.DateLayout)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}
