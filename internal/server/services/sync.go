package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/logging"
	"github.com/dmitrijs2005/fitlog/internal/server/config"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fitlog/internal/strava"
)

const (
	hardHeartrate  = 150.0
	lightHeartrate = 120.0

	// maxSyncPages stops paging through a misbehaving provider.
	maxSyncPages = 20

	importNotePrefix = "Imported from Strava: "
)

// SyncedActivity names one workout created by a sync.
type SyncedActivity struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

type SyncResult struct {
	Count int              `json:"count"`
	Added []SyncedActivity `json:"added"`
}

// SyncService imports provider activities as workouts.
type SyncService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	integrations *IntegrationService
	provider     ActivityProvider
	window       time.Duration
	timeout      time.Duration
	log          logging.Logger
	now          func() time.Time
}

func NewSyncService(db *sql.DB, m repomanager.RepositoryManager, integrations *IntegrationService,
	p ActivityProvider, cfg *config.Config, log logging.Logger) *SyncService {
	return &SyncService{
		db:           db,
		repomanager:  m,
		integrations: integrations,
		provider:     p,
		window:       cfg.SyncWindow,
		timeout:      cfg.ProviderTimeout,
		log:          log.With("module", "sync"),
		now:          time.Now,
	}
}

// intensityFromHeartrate grades a session by average heart rate. Without a
// reading the session counts as Moderate.
func intensityFromHeartrate(hr *float64) string {
	switch {
	case hr == nil:
		return models.IntensityModerate
	case *hr > hardHeartrate:
		return models.IntensityHard
	case *hr < lightHeartrate:
		return models.IntensityLight
	default:
		return models.IntensityModerate
	}
}

// workoutFromActivity maps a provider activity onto a local workout.
func workoutFromActivity(userID string, a strava.Activity) (*models.Workout, error) {
	if len(a.StartDateLocal) < len(common.DateLayout) {
		return nil, invalid("activity %d has no start date", a.ID)
	}
	date := a.StartDateLocal[:len(common.DateLayout)]
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	note := importNotePrefix + a.Name
	extID := strconv.FormatInt(a.ID, 10)
	source := common.ProviderStrava

	return &models.Workout{
		UserID:       userID,
		Date:         date,
		ActivityType: a.Type,
		Duration:     int(math.Round(float64(a.MovingTime) / 60)),
		Intensity:    intensityFromHeartrate(a.AverageHeartrate),
		Notes:        &note,
		ExternalID:   &extID,
		Source:       &source,
	}, nil
}

func (s *SyncService) fetchAll(ctx context.Context, token string, after time.Time) ([]strava.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var all []strava.Activity
	for page := 1; page <= maxSyncPages; page++ {
		batch, err := s.provider.ListActivities(ctx, token, strava.ListParams{
			After:   after,
			Page:    page,
			PerPage: strava.DefaultPerPage,
		})
		if err != nil {
			if !errors.Is(err, common.ErrUpstream) {
				err = fmt.Errorf("%w: %v", common.ErrUpstream, err)
			}
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < strava.DefaultPerPage {
			break
		}
	}
	return all, nil
}

// Sync imports every provider activity of the last SyncWindow that is not
// imported yet and marks movement as completed on each day that gained a
// workout.
//
// Activities are processed independently: one that fails to import is
// logged and skipped, and the rest still go through. A provider fetch
// failure aborts the sync before anything is written.
func (s *SyncService) Sync(ctx context.Context, userID string) (*SyncResult, error) {
	tokenCtx, cancel := context.WithTimeout(ctx, s.timeout)
	token, err := s.integrations.ValidToken(tokenCtx, userID)
	cancel()
	if err != nil {
		return nil, err
	}

	activities, err := s.fetchAll(ctx, token, s.now().Add(-s.window))
	if err != nil {
		s.log.Error(ctx, "fetch activities", "user_id", userID, "error", err)
		return nil, err
	}

	workoutsRepo := s.repomanager.Workouts(s.db)
	res := &SyncResult{Added: []SyncedActivity{}}
	var touched []string
	seen := make(map[string]struct{})

	for _, a := range activities {
		log := s.log.With("user_id", userID, "activity_id", a.ID)

		w, err := workoutFromActivity(userID, a)
		if err != nil {
			log.Warn(ctx, "skip activity", "error", err)
			continue
		}

		exists, err := workoutsRepo.ExistsByExternalID(ctx, userID, *w.ExternalID)
		if err != nil {
			log.Error(ctx, "check imported activity", "error", err)
			continue
		}
		if exists {
			continue
		}

		if _, err := workoutsRepo.Create(ctx, w); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				log.Debug(ctx, "activity imported concurrently")
				continue
			}
			log.Error(ctx, "import activity", "error", err)
			continue
		}

		res.Count++
		res.Added = append(res.Added, SyncedActivity{Date: w.Date, Name: a.Name})
		if _, ok := seen[w.Date]; !ok {
			seen[w.Date] = struct{}{}
			touched = append(touched, w.Date)
		}
	}

	logsRepo := s.repomanager.DailyLogs(s.db)
	for _, date := range touched {
		if err := logsRepo.MarkMovementCompleted(ctx, userID, date); err != nil {
			s.log.Error(ctx, "mark movement completed", "user_id", userID, "date", date, "error", err)
		}
	}

	s.log.Info(ctx, "sync finished", "user_id", userID, "fetched", len(activities), "count", res.Count)
	return res, nil
}
