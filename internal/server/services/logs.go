package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/dbx"
	"github.com/dmitrijs2005/fitlog/internal/gamification"
	"github.com/dmitrijs2005/fitlog/internal/logging"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/repomanager"
)

// SaveResult is what a daily log save hands back to the client.
type SaveResult struct {
	Log       *models.DailyLog     `json:"log"`
	XPDelta   int                  `json:"xp_delta"`
	Level     int                  `json:"level"`
	LeveledUp bool                 `json:"leveled_up"`
	NewBadges []gamification.Badge `json:"new_badges"`
}

// EarnedBadge is a badge definition plus the time it was awarded.
type EarnedBadge struct {
	gamification.Badge
	EarnedAt time.Time `json:"earned_at"`
}

// Dashboard is the landing-page summary.
type Dashboard struct {
	Streak   int                   `json:"streak"`
	Progress gamification.Progress `json:"progress"`
	Badges   []EarnedBadge         `json:"badges"`
	Tip      gamification.Tip      `json:"tip"`
	Today    *models.DailyLog      `json:"today,omitempty"`
}

// LogService owns daily logs and the XP/badge write-back that follows a save.
type LogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewLogService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *LogService {
	return &LogService{db: db, repomanager: m, log: log.With("module", "logs"), now: time.Now}
}

// GetDailyLog returns common.ErrorNotFound when nothing was logged on date.
func (s *LogService) GetDailyLog(ctx context.Context, userID, date string) (*models.DailyLog, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	return s.repomanager.DailyLogs(s.db).Get(ctx, userID, date)
}

// ListLogs returns logs in [from, to], oldest first.
func (s *LogService) ListLogs(ctx context.Context, userID, from, to string) ([]*models.DailyLog, error) {
	if err := ValidateDateRange(from, to); err != nil {
		return nil, err
	}
	return s.repomanager.DailyLogs(s.db).ListRange(ctx, userID, from, to)
}

// XPHistory scores the last HistoryWindowDays days against the user's
// current targets, newest first.
func (s *LogService) XPHistory(ctx context.Context, userID string) ([]gamification.XPDay, error) {
	st, err := loadSettings(ctx, s.repomanager, s.db, userID, false)
	if err != nil {
		return nil, err
	}
	to := s.now().Format(common.DateLayout)
	from := s.now().AddDate(0, 0, -(gamification.HistoryWindowDays - 1)).Format(common.DateLayout)
	logs, err := s.repomanager.DailyLogs(s.db).ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return gamification.XPHistory(logs, gamification.TargetsFromSettings(st)), nil
}

// SaveDailyLog applies patch to the (user, date) log and, in the same
// transaction, moves lifetime XP by the difference between the log's XP
// before and after the save and awards any badges that became earned.
func (s *LogService) SaveDailyLog(ctx context.Context, userID, date string, patch *models.DailyLogPatch) (*SaveResult, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	if err := validateDailyLogPatch(patch); err != nil {
		return nil, err
	}

	res := &SaveResult{NewBadges: []gamification.Badge{}}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		logsRepo := s.repomanager.DailyLogs(tx)

		st, err := loadSettings(ctx, s.repomanager, tx, userID, true)
		if err != nil {
			return err
		}
		targets := gamification.TargetsFromSettings(st)

		prev, err := logsRepo.Get(ctx, userID, date)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		before := gamification.CalculateXP(prev, targets)

		saved, err := logsRepo.Patch(ctx, userID, date, patch)
		if err != nil {
			return err
		}
		after := gamification.CalculateXP(saved, targets)

		d := gamification.ApplyDelta(st.LifetimeXP, before, after)
		if d.Delta != 0 || d.Level != st.Level {
			if err := s.repomanager.Settings(tx).SetProgress(ctx, userID, d.LifetimeXP, d.Level); err != nil {
				return err
			}
		}

		newBadges, err := s.awardBadges(ctx, tx, userID)
		if err != nil {
			return err
		}

		res.Log = saved
		res.XPDelta = d.Delta
		res.Level = d.Level
		res.LeveledUp = d.LeveledUp
		res.NewBadges = append(res.NewBadges, newBadges...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error saving daily log: %w", err)
	}

	if res.LeveledUp {
		s.log.Info(ctx, "level up", "user_id", userID, "level", res.Level)
	}
	for _, b := range res.NewBadges {
		s.log.Info(ctx, "badge earned", "user_id", userID, "badge", b.ID)
	}
	return res, nil
}

func (s *LogService) awardBadges(ctx context.Context, tx dbx.DBTX, userID string) ([]gamification.Badge, error) {
	logsRepo := s.repomanager.DailyLogs(tx)
	badgeRepo := s.repomanager.Badges(tx)

	dates, err := logsRepo.MovementDates(ctx, userID, gamification.StreakHistoryWindow)
	if err != nil {
		return nil, err
	}
	streak := gamification.CalculateStreak(dates, s.now())

	recent, err := logsRepo.ListRecent(ctx, userID, gamification.StreakHistoryWindow)
	if err != nil {
		return nil, err
	}

	held, err := badgeRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(held))
	for _, b := range held {
		ids = append(ids, b.BadgeID)
	}

	var awarded []gamification.Badge
	for _, b := range gamification.NewlyEarned(recent, streak, ids) {
		created, err := badgeRepo.Award(ctx, userID, b.ID)
		if err != nil {
			return nil, err
		}
		if created {
			awarded = append(awarded, b)
		}
	}
	return awarded, nil
}

// Dashboard gathers streak, level progress, earned badges and today's tip.
func (s *LogService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	logsRepo := s.repomanager.DailyLogs(s.db)
	now := s.now()

	st, err := loadSettings(ctx, s.repomanager, s.db, userID, false)
	if err != nil {
		return nil, err
	}

	dates, err := logsRepo.MovementDates(ctx, userID, gamification.StreakHistoryWindow)
	if err != nil {
		return nil, err
	}
	streak := gamification.CalculateStreak(dates, now)

	recent, err := logsRepo.ListRecent(ctx, userID, gamification.StreakHistoryWindow)
	if err != nil {
		return nil, err
	}

	held, err := s.repomanager.Badges(s.db).List(ctx, userID)
	if err != nil {
		return nil, err
	}
	earned := make([]EarnedBadge, 0, len(held))
	for _, ub := range held {
		def, ok := gamification.BadgeByID(ub.BadgeID)
		if !ok {
			continue
		}
		earned = append(earned, EarnedBadge{Badge: def, EarnedAt: ub.EarnedAt})
	}

	d := &Dashboard{
		Streak:   streak,
		Progress: gamification.LevelProgress(st.LifetimeXP),
		Badges:   earned,
		Tip:      gamification.SmartAdvice(recent, streak, now),
	}
	today := now.Format(common.DateLayout)
	if n := len(recent); n > 0 && recent[n-1].Date == today {
		d.Today = recent[n-1]
	}
	return d, nil
}

// loadSettings returns the stored settings or the defaults when the user
// has none yet.
func loadSettings(ctx context.Context, m repomanager.RepositoryManager, db dbx.DBTX, userID string, forUpdate bool) (*models.UserSettings, error) {
	repo := m.Settings(db)
	var (
		st  *models.UserSettings
		err error
	)
	if forUpdate {
		st, err = repo.GetForUpdate(ctx, userID)
	} else {
		st, err = repo.Get(ctx, userID)
	}
	if errors.Is(err, common.ErrorNotFound) {
		return models.DefaultSettings(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}
