// Package httpapi exposes the FitLog services over HTTP/JSON using gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fitlog/internal/gamification"
	"github.com/dmitrijs2005/fitlog/internal/logging"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/dmitrijs2005/fitlog/internal/server/services"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type LogService interface {
	GetDailyLog(ctx context.Context, userID, date string) (*models.DailyLog, error)
	ListLogs(ctx context.Context, userID, from, to string) ([]*models.DailyLog, error)
	XPHistory(ctx context.Context, userID string) ([]gamification.XPDay, error)
	SaveDailyLog(ctx context.Context, userID, date string, patch *models.DailyLogPatch) (*services.SaveResult, error)
	Dashboard(ctx context.Context, userID string) (*services.Dashboard, error)
}

type WorkoutService interface {
	Create(ctx context.Context, userID string, w *models.Workout) (*models.Workout, error)
	ListByDate(ctx context.Context, userID, date string) ([]*models.Workout, error)
	Delete(ctx context.Context, userID, id string) error
}

type MetricsService interface {
	Get(ctx context.Context, userID, date string) (*models.BodyMetrics, error)
	Save(ctx context.Context, userID, date string, patch *models.BodyMetricsPatch) (*models.BodyMetrics, error)
}

type PhotoService interface {
	UploadURL(ctx context.Context, userID, date string) (*services.PhotoUpload, error)
	DownloadURL(ctx context.Context, userID, date string) (string, error)
}

type SettingsService interface {
	Get(ctx context.Context, userID string) (*models.UserSettings, error)
	Update(ctx context.Context, userID string, patch *models.SettingsPatch) (*models.UserSettings, error)
}

type IntegrationService interface {
	AuthURL() (string, error)
	Connect(ctx context.Context, userID, code string) error
	Disconnect(ctx context.Context, userID string) error
}

type SyncService interface {
	Sync(ctx context.Context, userID string) (*services.SyncResult, error)
}

// Services bundles what the handlers call into.
type Services struct {
	Users        UserService
	Logs         LogService
	Workouts     WorkoutService
	Metrics      MetricsService
	Photos       PhotoService
	Settings     SettingsService
	Integrations IntegrationService
	Sync         SyncService
}

type Server struct {
	address         string
	svc             Services
	logger          logging.Logger
	jwtSecret       []byte
	shutdownTimeout time.Duration
	engine          *gin.Engine
}

func NewServer(address string, l logging.Logger, svc Services, secretKey string, shutdownTimeout time.Duration) *Server {
	s := &Server{
		address:         address,
		svc:             svc,
		logger:          l.With("module", "http_server"),
		jwtSecret:       []byte(secretKey),
		shutdownTimeout: shutdownTimeout,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/ping", s.ping)
	// Consent is a browser navigation and carries no Authorization header.
	r.GET("/strava/auth", s.stravaAuth)

	auth := r.Group("/auth")
	{
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
		auth.POST("/refresh", s.refresh)
		auth.POST("/logout", s.logout)
	}

	api := r.Group("/")
	api.Use(s.bearerAuth())
	{
		api.POST("/strava/exchange", s.stravaExchange)
		api.POST("/strava/sync", s.stravaSync)
		api.DELETE("/strava", s.stravaDisconnect)

		api.GET("/dashboard", s.dashboard)
		api.GET("/logs", s.listLogs)
		api.GET("/logs/xp-history", s.xpHistory)
		api.GET("/logs/:date", s.getLog)
		api.PUT("/logs/:date", s.saveLog)

		api.GET("/workouts", s.listWorkouts)
		api.POST("/workouts", s.createWorkout)
		api.DELETE("/workouts/:id", s.deleteWorkout)

		api.GET("/metrics/:date", s.getMetrics)
		api.PUT("/metrics/:date", s.saveMetrics)
		api.POST("/metrics/:date/photo", s.photoUploadURL)
		api.GET("/metrics/:date/photo", s.photoDownloadURL)

		api.GET("/settings", s.getSettings)
		api.PUT("/settings", s.updateSettings)

		api.POST("/ai/intent", s.parseIntent)
	}
	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
