package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/dbx"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/badges"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/bodymetrics"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/dailylogs"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/integrations"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/settings"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/users"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/workouts"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func boolPtr(v bool) *bool        { return &v }

// --- users ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	created []*models.User
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, u)
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *u
	out.ID = fmt.Sprintf("u%d", len(f.created))
	return &out, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

// --- refresh tokens ---

type fakeRefreshRepo struct {
	consumeOut *models.RefreshToken
	consumeErr error
	consumed   []string

	revokeErr error
	revoked   []string

	createErr     error
	createdExpiry []time.Time

	pruned   int64
	pruneErr error
}

func (f *fakeRefreshRepo) Create(_ context.Context, _ string, _ string, expiresAt time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdExpiry = append(f.createdExpiry, expiresAt)
	return nil
}

func (f *fakeRefreshRepo) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	f.consumed = append(f.consumed, token)
	return f.consumeOut, nil
}

func (f *fakeRefreshRepo) Revoke(_ context.Context, token string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revoked = append(f.revoked, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return f.pruned, f.pruneErr
}

// --- daily logs ---

// fakeDailyLogsRepo keeps one user's logs keyed by date.
type fakeDailyLogsRepo struct {
	logs map[string]*models.DailyLog

	patchErr error
	markErr  error
	marked   []string
}

func newFakeDailyLogsRepo() *fakeDailyLogsRepo {
	return &fakeDailyLogsRepo{logs: map[string]*models.DailyLog{}}
}

func cloneLog(l *models.DailyLog) *models.DailyLog {
	c := *l
	c.Habits = slices.Clone(l.Habits)
	return &c
}

func (f *fakeDailyLogsRepo) sorted() []*models.DailyLog {
	out := make([]*models.DailyLog, 0, len(f.logs))
	for _, l := range f.logs {
		out = append(out, cloneLog(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (f *fakeDailyLogsRepo) Get(_ context.Context, _ string, date string) (*models.DailyLog, error) {
	l, ok := f.logs[date]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneLog(l), nil
}

func (f *fakeDailyLogsRepo) ListRange(_ context.Context, _ string, from, to string) ([]*models.DailyLog, error) {
	var out []*models.DailyLog
	for _, l := range f.sorted() {
		if l.Date >= from && l.Date <= to {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeDailyLogsRepo) ListRecent(_ context.Context, _ string, limit int) ([]*models.DailyLog, error) {
	all := f.sorted()
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (f *fakeDailyLogsRepo) MovementDates(_ context.Context, _ string, limit int) ([]string, error) {
	var out []string
	all := f.sorted()
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		if all[i].MovementCompleted {
			out = append(out, all[i].Date)
		}
	}
	return out, nil
}

func (f *fakeDailyLogsRepo) Patch(_ context.Context, userID, date string, p *models.DailyLogPatch) (*models.DailyLog, error) {
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	l, ok := f.logs[date]
	if !ok {
		l = &models.DailyLog{ID: "log-" + date, UserID: userID, Date: date, Habits: []string{}}
		f.logs[date] = l
	}
	if p.MovementCompleted != nil {
		l.MovementCompleted = *p.MovementCompleted
	}
	if p.MovementDuration != nil {
		l.MovementDuration = p.MovementDuration
	}
	if p.ProteinGrams != nil {
		l.ProteinGrams = p.ProteinGrams
	}
	if p.CarbsGrams != nil {
		l.CarbsGrams = p.CarbsGrams
	}
	if p.FatGrams != nil {
		l.FatGrams = p.FatGrams
	}
	if p.Calories != nil {
		l.Calories = p.Calories
	}
	if p.NutritionTracked != nil {
		l.NutritionTracked = *p.NutritionTracked
	}
	if p.SleepQuality != nil {
		l.SleepQuality = p.SleepQuality
	}
	if p.DailyNote != nil {
		l.DailyNote = p.DailyNote
	}
	if p.Habits != nil {
		l.Habits = slices.Clone(*p.Habits)
	}
	if p.CycleFlow != nil {
		l.CycleFlow = p.CycleFlow
	}
	for _, c := range p.Clear {
		switch c {
		case "protein_grams":
			l.ProteinGrams = nil
		case "calories":
			l.Calories = nil
		}
	}
	return cloneLog(l), nil
}

func (f *fakeDailyLogsRepo) MarkMovementCompleted(_ context.Context, userID, date string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, date)
	l, ok := f.logs[date]
	if !ok {
		l = &models.DailyLog{ID: "log-" + date, UserID: userID, Date: date, Habits: []string{}}
		f.logs[date] = l
	}
	l.MovementCompleted = true
	return nil
}

// --- workouts ---

type fakeWorkoutsRepo struct {
	rows []*models.Workout

	createErr error
	existsErr error
	// raceIDs makes ExistsByExternalID miss and Create collide, as if a
	// concurrent sync inserted the row in between.
	raceIDs map[string]bool
	deleted []string
}

func (f *fakeWorkoutsRepo) Create(_ context.Context, w *models.Workout) (*models.Workout, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if w.ExternalID != nil {
		if f.raceIDs[*w.ExternalID] {
			return nil, common.ErrorAlreadyExists
		}
		for _, r := range f.rows {
			if r.ExternalID != nil && *r.ExternalID == *w.ExternalID && r.UserID == w.UserID {
				return nil, common.ErrorAlreadyExists
			}
		}
	}
	c := *w
	c.ID = fmt.Sprintf("w%d", len(f.rows)+1)
	f.rows = append(f.rows, &c)
	return &c, nil
}

func (f *fakeWorkoutsRepo) ExistsByExternalID(_ context.Context, userID, externalID string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, r := range f.rows {
		if r.ExternalID != nil && *r.ExternalID == externalID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeWorkoutsRepo) ListByDate(_ context.Context, userID, date string) ([]*models.Workout, error) {
	var out []*models.Workout
	for _, r := range f.rows {
		if r.UserID == userID && r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeWorkoutsRepo) Delete(_ context.Context, userID, id string) error {
	for i, r := range f.rows {
		if r.ID == id && r.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- body metrics ---

type fakeMetricsRepo struct {
	rows      map[string]*models.BodyMetrics
	upsertErr error
	patches   []*models.BodyMetricsPatch
}

func newFakeMetricsRepo() *fakeMetricsRepo {
	return &fakeMetricsRepo{rows: map[string]*models.BodyMetrics{}}
}

func (f *fakeMetricsRepo) Get(_ context.Context, _ string, date string) (*models.BodyMetrics, error) {
	m, ok := f.rows[date]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *m
	return &c, nil
}

func (f *fakeMetricsRepo) Upsert(_ context.Context, userID, date string, p *models.BodyMetricsPatch) (*models.BodyMetrics, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.patches = append(f.patches, p)
	m, ok := f.rows[date]
	if !ok {
		m = &models.BodyMetrics{UserID: userID, Date: date, Measurements: map[string]float64{}}
		f.rows[date] = m
	}
	if p.Weight != nil {
		m.Weight = p.Weight
	}
	if p.PhotoKey != nil {
		m.PhotoKey = p.PhotoKey
	}
	if p.Measurements != nil {
		m.Measurements = *p.Measurements
	}
	c := *m
	return &c, nil
}

// --- settings ---

type fakeSettingsRepo struct {
	row *models.UserSettings

	getErr      error
	progressErr error

	forUpdateCalls int
	progressCalls  int
}

func (f *fakeSettingsRepo) Get(_ context.Context, _ string) (*models.UserSettings, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.row == nil {
		return nil, common.ErrorNotFound
	}
	c := *f.row
	return &c, nil
}

func (f *fakeSettingsRepo) GetForUpdate(ctx context.Context, userID string) (*models.UserSettings, error) {
	f.forUpdateCalls++
	return f.Get(ctx, userID)
}

func (f *fakeSettingsRepo) Update(_ context.Context, userID string, p *models.SettingsPatch) (*models.UserSettings, error) {
	if f.row == nil {
		f.row = models.DefaultSettings(userID)
	}
	if p.TargetWeight != nil {
		f.row.TargetWeight = p.TargetWeight
	}
	if p.TargetProtein != nil {
		f.row.TargetProtein = p.TargetProtein
	}
	if p.TargetCalories != nil {
		f.row.TargetCalories = p.TargetCalories
	}
	if p.CycleTracking != nil {
		f.row.CycleTracking = *p.CycleTracking
	}
	if p.CustomHabits != nil {
		f.row.CustomHabits = *p.CustomHabits
	}
	c := *f.row
	return &c, nil
}

func (f *fakeSettingsRepo) SetProgress(_ context.Context, userID string, lifetimeXP, level int) error {
	if f.progressErr != nil {
		return f.progressErr
	}
	f.progressCalls++
	if f.row == nil {
		f.row = models.DefaultSettings(userID)
	}
	f.row.LifetimeXP = lifetimeXP
	f.row.Level = level
	return nil
}

// --- badges ---

type fakeBadgesRepo struct {
	held     []*models.UserBadge
	awardErr error
}

func (f *fakeBadgesRepo) List(_ context.Context, _ string) ([]*models.UserBadge, error) {
	return slices.Clone(f.held), nil
}

func (f *fakeBadgesRepo) Award(_ context.Context, userID, badgeID string) (bool, error) {
	if f.awardErr != nil {
		return false, f.awardErr
	}
	for _, b := range f.held {
		if b.BadgeID == badgeID {
			return false, nil
		}
	}
	f.held = append(f.held, &models.UserBadge{UserID: userID, BadgeID: badgeID, EarnedAt: time.Now()})
	return true, nil
}

// --- integrations ---

type fakeIntegrationsRepo struct {
	row *models.Integration

	getErr    error
	upsertErr error
	updateErr error

	updates int
	deleted bool
}

func (f *fakeIntegrationsRepo) Get(_ context.Context, _ string, _ string) (*models.Integration, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.row == nil {
		return nil, common.ErrorNotFound
	}
	c := *f.row
	return &c, nil
}

func (f *fakeIntegrationsRepo) Upsert(_ context.Context, in *models.Integration) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	c := *in
	f.row = &c
	return nil
}

func (f *fakeIntegrationsRepo) UpdateTokens(_ context.Context, _ string, _ string, access, refresh string, expiresAt int64) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.row == nil {
		return common.ErrorNotFound
	}
	f.updates++
	f.row.AccessToken = access
	f.row.RefreshToken = refresh
	f.row.ExpiresAt = expiresAt
	return nil
}

func (f *fakeIntegrationsRepo) Delete(_ context.Context, _ string, _ string) error {
	f.row = nil
	f.deleted = true
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	users        *fakeUsersRepo
	refresh      *fakeRefreshRepo
	logs         *fakeDailyLogsRepo
	workouts     *fakeWorkoutsRepo
	metrics      *fakeMetricsRepo
	settings     *fakeSettingsRepo
	badges       *fakeBadgesRepo
	integrations *fakeIntegrationsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:        &fakeUsersRepo{},
		refresh:      &fakeRefreshRepo{},
		logs:         newFakeDailyLogsRepo(),
		workouts:     &fakeWorkoutsRepo{},
		metrics:      newFakeMetricsRepo(),
		settings:     &fakeSettingsRepo{},
		badges:       &fakeBadgesRepo{},
		integrations: &fakeIntegrationsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refresh }
func (m *fakeRepoManager) DailyLogs(dbx.DBTX) dailylogs.Repository         { return m.logs }
func (m *fakeRepoManager) Workouts(dbx.DBTX) workouts.Repository           { return m.workouts }
func (m *fakeRepoManager) BodyMetrics(dbx.DBTX) bodymetrics.Repository     { return m.metrics }
func (m *fakeRepoManager) Settings(dbx.DBTX) settings.Repository           { return m.settings }
func (m *fakeRepoManager) Badges(dbx.DBTX) badges.Repository               { return m.badges }
func (m *fakeRepoManager) Integrations(dbx.DBTX) integrations.Repository   { return m.integrations }

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }
