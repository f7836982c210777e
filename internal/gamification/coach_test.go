package gamification

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/stretchr/testify/assert"
)

func TestSmartAdvice(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("long streak", func(t *testing.T) {
		tip := SmartAdvice(nil, 9, now)
		assert.Equal(t, "Unstoppable! 🔥", tip.Title)
		assert.Contains(t, tip.Message, "9 days")
		assert.Equal(t, TipSuccess, tip.Type)
	})
	t.Run("short streak", func(t *testing.T) {
		tip := SmartAdvice(nil, 3, now)
		assert.Equal(t, "Heating Up! 🚀", tip.Title)
		assert.Equal(t, TipSuccess, tip.Type)
	})
	t.Run("no logs", func(t *testing.T) {
		tip := SmartAdvice(nil, 0, now)
		assert.Equal(t, "Welcome! 👋", tip.Title)
		assert.Equal(t, TipInfo, tip.Type)
	})
	t.Run("lapsed", func(t *testing.T) {
		tip := SmartAdvice([]*models.DailyLog{{Date: "2025-03-11"}}, 0, now)
		assert.Equal(t, "We miss you! 👋", tip.Title)
		assert.Contains(t, tip.Message, "4 days")
		assert.Equal(t, TipWarning, tip.Type)
	})
	t.Run("logged yesterday", func(t *testing.T) {
		tip := SmartAdvice([]*models.DailyLog{{Date: "2025-03-14"}}, 1, now)
		assert.Equal(t, "Daily Tip 💡", tip.Title)
		assert.Equal(t, TipInfo, tip.Type)
	})
}
