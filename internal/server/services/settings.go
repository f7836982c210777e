package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/repomanager"
)

type SettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSettingsService(db *sql.DB, m repomanager.RepositoryManager) *SettingsService {
	return &SettingsService{db: db, repomanager: m}
}

// Get returns the defaults for a user who never saved settings.
func (s *SettingsService) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	return loadSettings(ctx, s.repomanager, s.db, userID, false)
}

func (s *SettingsService) Update(ctx context.Context, userID string, patch *models.SettingsPatch) (*models.UserSettings, error) {
	if err := validateSettingsPatch(patch); err != nil {
		return nil, err
	}
	return s.repomanager.Settings(s.db).Update(ctx, userID, patch)
}
