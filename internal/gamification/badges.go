package gamification

import (
	"time"

	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

// Badge is a one-time achievement.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`

	earned func(logs []*models.DailyLog, streak int) bool
}

// Earned reports whether the predicate holds. logs are oldest first.
func (b Badge) Earned(logs []*models.DailyLog, streak int) bool {
	return b.earned(logs, streak)
}

func lastLog(logs []*models.DailyLog) *models.DailyLog {
	if len(logs) == 0 {
		return nil
	}
	return logs[len(logs)-1]
}

// Badges is the fixed catalogue, in display order.
var Badges = []Badge{
	{
		ID:          "first_step",
		Name:        "First Step",
		Description: "Log your first activity.",
		Icon:        "🦶",
		earned:      func(logs []*models.DailyLog, _ int) bool { return len(logs) >= 1 },
	},
	{
		ID:          "heating_up",
		Name:        "Heating Up",
		Description: "Reach a 3-day streak.",
		Icon:        "🔥",
		earned:      func(_ []*models.DailyLog, streak int) bool { return streak >= 3 },
	},
	{
		ID:          "unstoppable",
		Name:        "Unstoppable",
		Description: "Reach a 7-day streak.",
		Icon:        "🚀",
		earned:      func(_ []*models.DailyLog, streak int) bool { return streak >= 7 },
	},
	{
		ID:          "weekend_warrior",
		Name:        "Weekend Warrior",
		Description: "Log a workout on a Saturday or Sunday.",
		Icon:        "📅",
		earned: func(logs []*models.DailyLog, _ int) bool {
			l := lastLog(logs)
			if l == nil || !l.MovementCompleted {
				return false
			}
			d, err := time.Parse(common.DateLayout, l.Date)
			if err != nil {
				return false
			}
			wd := d.Weekday()
			return wd == time.Saturday || wd == time.Sunday
		},
	},
	{
		ID:          "protein_pro",
		Name:        "Protein Pro",
		Description: "Hit 150g protein in a single day.",
		Icon:        "🥩",
		earned: func(logs []*models.DailyLog, _ int) bool {
			l := lastLog(logs)
			return l != nil && l.ProteinGrams != nil && *l.ProteinGrams >= 150
		},
	},
}

// BadgeByID looks up a catalogue entry.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// EvaluateBadges returns every badge whose predicate holds. It has no side
// effects.
func EvaluateBadges(logs []*models.DailyLog, streak int) []Badge {
	var out []Badge
	for _, b := range Badges {
		if b.Earned(logs, streak) {
			out = append(out, b)
		}
	}
	return out
}

// NewlyEarned is EvaluateBadges minus the ids the user already holds.
func NewlyEarned(logs []*models.DailyLog, streak int, alreadyEarned []string) []Badge {
	held := make(map[string]struct{}, len(alreadyEarned))
	for _, id := range alreadyEarned {
		held[id] = struct{}{}
	}
	var out []Badge
	for _, b := range EvaluateBadges(logs, streak) {
		if _, ok := held[b.ID]; !ok {
			out = append(out, b)
		}
	}
	return out
}
