package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/repomanager"
)

// WorkoutService handles manually logged workouts. Imported ones arrive
// through SyncService.
type WorkoutService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewWorkoutService(db *sql.DB, m repomanager.RepositoryManager) *WorkoutService {
	return &WorkoutService{db: db, repomanager: m}
}

// Create stores a manual workout for userID. ExternalID and Source are
// reserved for imports and are cleared.
func (s *WorkoutService) Create(ctx context.Context, userID string, w *models.Workout) (*models.Workout, error) {
	if err := validateWorkout(w); err != nil {
		return nil, err
	}
	w.UserID = userID
	w.ExternalID = nil
	w.Source = nil

	out, err := s.repomanager.Workouts(s.db).Create(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("error creating workout: %w", err)
	}
	return out, nil
}

func (s *WorkoutService) ListByDate(ctx context.Context, userID, date string) ([]*models.Workout, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	return s.repomanager.Workouts(s.db).ListByDate(ctx, userID, date)
}

// Delete removes one of the user's workouts. Ids owned by someone else are
// reported as not found.
func (s *WorkoutService) Delete(ctx context.Context, userID, id string) error {
	return s.repomanager.Workouts(s.db).Delete(ctx, userID, id)
}
