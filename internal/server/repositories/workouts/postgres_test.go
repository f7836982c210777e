package workouts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const insertQ = `(?s)^\s*INSERT\s+INTO\s+workouts\s+\(user_id,\s*date,\s*activity_type,\s*duration,\s*intensity,\s*notes,\s*external_id,\s*source\)\s+` +
	`VALUES\s+\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)\s+RETURNING\s+id,\s*created_at\s*$`

func strPtr(s string) *string { return &s }

func imported() *models.Workout {
	return &models.Workout{
		UserID: "u1", Date: "2025-03-01", ActivityType: "Run", Duration: 30, Intensity: models.IntensityHard,
		Notes: strPtr("Imported from Strava: Morning Run"), ExternalID: strPtr("123"), Source: strPtr("strava"),
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	w := imported()
	mock.ExpectQuery(insertQ).
		WithArgs("u1", "2025-03-01", "Run", 30, "Hard", "Imported from Strava: Morning Run", "123", "strava").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("w1", time.Now()))

	got, err := repo.Create(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, "w1", got.ID)
}

func TestCreate_ManualWorkoutPassesNulls(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	w := &models.Workout{UserID: "u1", Date: "2025-03-01", ActivityType: "Yoga", Duration: 45, Intensity: models.IntensityLight}
	mock.ExpectQuery(insertQ).
		WithArgs("u1", "2025-03-01", "Yoga", 45, "Light", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("w2", time.Now()))

	_, err := repo.Create(context.Background(), w)
	require.NoError(t, err)
}

func TestCreate_DuplicateExternalID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), imported())
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), imported())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestExistsByExternalID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+EXISTS\s*\(\s*SELECT\s+1\s+FROM\s+workouts\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+external_id\s*=\s*\$2\s*\)`
	mock.ExpectQuery(q).WithArgs("u1", "123").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(q).WithArgs("u1", "456").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.ExistsByExternalID(context.Background(), "u1", "123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByExternalID(context.Background(), "u1", "456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListByDate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "date", "activity_type", "duration", "intensity",
		"notes", "external_id", "source", "created_at"}).
		AddRow("w1", "u1", "2025-03-01", "Run", 30, "Hard", "n", "123", "strava", time.Now()).
		AddRow("w2", "u1", "2025-03-01", "Yoga", 45, "Light", nil, nil, nil, time.Now())
	mock.ExpectQuery(`(?s)FROM\s+workouts\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+date\s*=\s*\$2\s+ORDER\s+BY\s+created_at`).
		WithArgs("u1", "2025-03-01").
		WillReturnRows(rows)

	got, err := repo.ListByDate(context.Background(), "u1", "2025-03-01")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].ExternalID)
	assert.Equal(t, "123", *got[0].ExternalID)
	assert.Nil(t, got[1].ExternalID)
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*DELETE\s+FROM\s+workouts\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`
	mock.ExpectExec(q).WithArgs("w1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("w1", "u2").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u1", "w1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u2", "w1"), common.ErrorNotFound)
}
