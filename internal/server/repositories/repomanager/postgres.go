// Package repomanager binds repository constructors to a DBTX and runs the
// embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fitlog/internal/dbx"
	"github.com/dmitrijs2005/fitlog/internal/server/migrations"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/badges"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/bodymetrics"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/dailylogs"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/integrations"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/settings"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/users"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/workouts"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) DailyLogs(db dbx.DBTX) dailylogs.Repository {
	return dailylogs.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Workouts(db dbx.DBTX) workouts.Repository {
	return workouts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) BodyMetrics(db dbx.DBTX) bodymetrics.Repository {
	return bodymetrics.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Badges(db dbx.DBTX) badges.Repository {
	return badges.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Integrations(db dbx.DBTX) integrations.Repository {
	return integrations.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies every pending embedded migration.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
