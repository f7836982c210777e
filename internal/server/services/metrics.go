package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/repomanager"
)

type MetricsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMetricsService(db *sql.DB, m repomanager.RepositoryManager) *MetricsService {
	return &MetricsService{db: db, repomanager: m}
}

func (s *MetricsService) Get(ctx context.Context, userID, date string) (*models.BodyMetrics, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	return s.repomanager.BodyMetrics(s.db).Get(ctx, userID, date)
}

// Save upserts weight and measurements for date. The photo key is managed
// by PhotoService and ignored here.
func (s *MetricsService) Save(ctx context.Context, userID, date string, patch *models.BodyMetricsPatch) (*models.BodyMetrics, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	if err := validateMetricsPatch(patch); err != nil {
		return nil, err
	}
	patch.PhotoKey = nil
	return s.repomanager.BodyMetrics(s.db).Upsert(ctx, userID, date, patch)
}
