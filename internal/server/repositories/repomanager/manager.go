package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fitlog/internal/dbx"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/badges"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/bodymetrics"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/dailylogs"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/integrations"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/settings"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/users"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/workouts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	DailyLogs(db dbx.DBTX) dailylogs.Repository
	Workouts(db dbx.DBTX) workouts.Repository
	BodyMetrics(db dbx.DBTX) bodymetrics.Repository
	Settings(db dbx.DBTX) settings.Repository
	Badges(db dbx.DBTX) badges.Repository
	Integrations(db dbx.DBTX) integrations.Repository
}
