package gamification

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

const (
	TipSuccess = "success"
	TipWarning = "warning"
	TipInfo    = "info"
)

type Tip struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// SmartAdvice picks the dashboard coaching tip. logs are oldest first.
func SmartAdvice(logs []*models.DailyLog, streak int, now time.Time) Tip {
	if streak >= 7 {
		return Tip{
			Title:   "Unstoppable! 🔥",
			Message: fmt.Sprintf("You've been consistent for %d days. Keep this momentum going!", streak),
			Type:    TipSuccess,
		}
	}
	if streak >= 3 {
		return Tip{
			Title:   "Heating Up! 🚀",
			Message: "3 days in a row! You are building a solid habit.",
			Type:    TipSuccess,
		}
	}

	last := lastLog(logs)
	if last == nil {
		return Tip{
			Title:   "Welcome! 👋",
			Message: "Start your journey by logging your first activity today.",
			Type:    TipInfo,
		}
	}

	if d, err := time.Parse(common.DateLayout, last.Date); err == nil {
		days := int(civilDay(now).Sub(civilDay(d)).Hours() / 24)
		if days > 1 {
			return Tip{
				Title:   "We miss you! 👋",
				Message: fmt.Sprintf("It's been %d days. A small 10-minute walk can get you back on track.", days),
				Type:    TipWarning,
			}
		}
	}

	return Tip{
		Title:   "Daily Tip 💡",
		Message: "Consistency beats intensity. Just show up today!",
		Type:    TipInfo,
	}
}
