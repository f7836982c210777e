package settings

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

var cols = []string{"user_id", "target_weight", "target_protein", "target_calories", "cycle_tracking",
	"custom_habits", "lifetime_xp", "level", "updated_at"}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+user_id,.*FROM\s+user_settings\s+WHERE\s+user_id\s*=\s*\$1$`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("u1", nil, 140.0, 2200, true, []byte(`["Meditation"]`), 250, 3, time.Now()))

	got, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, got.TargetWeight)
	require.NotNil(t, got.TargetProtein)
	assert.Equal(t, 140.0, *got.TargetProtein)
	assert.Equal(t, 2200, *got.TargetCalories)
	assert.Equal(t, []string{"Meditation"}, got.CustomHabits)
	assert.Equal(t, 250, got.LifetimeXP)
	assert.Equal(t, 3, got.Level)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+user_settings`).WithArgs("u1").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetForUpdate_CreatesRowThenLocks(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^INSERT\s+INTO\s+user_settings\s+\(user_id\)\s+VALUES\s+\(\$1\)\s+ON\s+CONFLICT\s+\(user_id\)\s+DO\s+NOTHING$`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)FROM\s+user_settings\s+WHERE\s+user_id\s*=\s*\$1\s+FOR\s+UPDATE$`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("u1", nil, nil, nil, false, []byte(`[]`), 0, 1, time.Now()))

	got, err := repo.GetForUpdate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.LifetimeXP)
	assert.Equal(t, 1, got.Level)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForUpdate_EnsureRowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+user_settings`).WithArgs("u1").WillReturnError(errors.New("fk violation"))

	_, err := repo.GetForUpdate(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_LeavesUnsetFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	protein := 150.0
	habits := []string{"Reading"}
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+user_settings.*ON\s+CONFLICT\s+\(user_id\)\s+DO\s+UPDATE\s+SET\s+target_weight\s*=\s*COALESCE\(\$2,\s*user_settings\.target_weight\)`).
		WithArgs("u1", nil, protein, nil, nil, `["Reading"]`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("u1", 70.0, protein, nil, false, []byte(`["Reading"]`), 40, 1, time.Now()))

	got, err := repo.Update(context.Background(), "u1", &models.SettingsPatch{TargetProtein: &protein, CustomHabits: &habits})
	require.NoError(t, err)
	assert.Equal(t, 70.0, *got.TargetWeight)
	assert.Equal(t, 40, got.LifetimeXP)
}

func TestSetProgress(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+user_settings\s+\(user_id,\s*lifetime_xp,\s*level\).*DO\s+UPDATE\s+SET\s+lifetime_xp\s*=\s*\$2,\s*level\s*=\s*\$3`).
		WithArgs("u1", 130, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetProgress(context.Background(), "u1", 130, 2))
}

func TestSetProgress_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+user_settings`).WillReturnError(errors.New("boom"))

	assert.ErrorContains(t, repo.SetProgress(context.Background(), "u1", 1, 1), "db error: boom")
}
