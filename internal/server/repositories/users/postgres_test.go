package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQ = `(?s)^\s*INSERT\s+INTO\s+users\s+\(email,\s*password_hash,\s*salt\)\s+VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s+RETURNING\s+id,\s*created_at\s*$`
	selectQ = `(?s)^\s*SELECT\s+id,\s*email,\s*password_hash,\s*salt,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
)

func newRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

func newUser() *models.User {
	return &models.User{Email: "runner@fitlog.app", PasswordHash: []byte("hash"), Salt: []byte("salt")}
}

func TestCreate(t *testing.T) {
	repo, mock := newRepo(t)
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(insertQ).
		WithArgs("runner@fitlog.app", []byte("hash"), []byte("salt")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u-42", created))

	in := newUser()
	got, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "u-42", got.ID)
	assert.Equal(t, "runner@fitlog.app", got.Email)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.Empty(t, in.ID, "input is not mutated")
}

func TestCreate_Errors(t *testing.T) {
	cases := []struct {
		name  string
		dbErr error
		check func(*testing.T, error)
	}{
		{"duplicate email", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, common.ErrorAlreadyExists)
		}},
		{"foreign key is not a duplicate", &pgconn.PgError{Code: "23503"}, func(t *testing.T, err error) {
			assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
			assert.ErrorContains(t, err, "db error")
		}},
		{"driver error", errors.New("db down"), func(t *testing.T, err error) {
			assert.ErrorContains(t, err, "db error: db down")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			mock.ExpectQuery(insertQ).WillReturnError(tc.dbErr)

			got, err := repo.Create(context.Background(), newUser())
			assert.Nil(t, got)
			tc.check(t, err)
		})
	}
}

func TestGetByEmail(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(selectQ).WithArgs("runner@fitlog.app").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "salt", "created_at"}).
			AddRow("u-1", "runner@fitlog.app", []byte("hash"), []byte("salt"), time.Now()))

	got, err := repo.GetByEmail(context.Background(), "runner@fitlog.app")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, []byte("hash"), got.PasswordHash)
	assert.Equal(t, []byte("salt"), got.Salt)
}

func TestGetByEmail_Errors(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(selectQ).WithArgs("ghost@fitlog.app").WillReturnError(sql.ErrNoRows)
	_, err := repo.GetByEmail(context.Background(), "ghost@fitlog.app")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(selectQ).WithArgs("runner@fitlog.app").WillReturnError(errors.New("db err"))
	_, err = repo.GetByEmail(context.Background(), "runner@fitlog.app")
	assert.ErrorContains(t, err, "db error: db err")
}
