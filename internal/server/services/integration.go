package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/logging"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fitlog/internal/strava"
)

// RefreshLeeway is how close to expiry a stored access token may get before
// ValidToken trades it in.
const RefreshLeeway = 5 * time.Minute

// ActivityProvider is the slice of the provider client the services use.
// *strava.Client satisfies it.
type ActivityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*strava.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*strava.Token, error)
	ListActivities(ctx context.Context, accessToken string, p strava.ListParams) ([]strava.Activity, error)
}

// IntegrationService keeps one provider credential per user usable.
type IntegrationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	provider    ActivityProvider
	log         logging.Logger
	now         func() time.Time
}

func NewIntegrationService(db *sql.DB, m repomanager.RepositoryManager, p ActivityProvider, log logging.Logger) *IntegrationService {
	return &IntegrationService{
		db:          db,
		repomanager: m,
		provider:    p,
		log:         log.With("module", "integrations"),
		now:         time.Now,
	}
}

// AuthURL returns the provider consent URL with a random state value.
func (s *IntegrationService) AuthURL() (string, error) {
	state, err := common.MakeRandHexString(16)
	if err != nil {
		return "", common.ErrorInternal
	}
	return s.provider.AuthCodeURL(state), nil
}

// Connect exchanges an authorization code and stores the resulting
// credential, replacing any earlier one for the same provider.
func (s *IntegrationService) Connect(ctx context.Context, userID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return invalid("code is required")
	}

	tok, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return err
	}

	err = s.repomanager.Integrations(s.db).Upsert(ctx, &models.Integration{
		UserID:       userID,
		Provider:     common.ProviderStrava,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("error storing integration: %w", err)
	}
	s.log.Info(ctx, "provider connected", "user_id", userID, "provider", common.ProviderStrava)
	return nil
}

// Disconnect forgets the stored credential. Imported workouts stay.
func (s *IntegrationService) Disconnect(ctx context.Context, userID string) error {
	if err := s.repomanager.Integrations(s.db).Delete(ctx, userID, common.ProviderStrava); err != nil {
		return fmt.Errorf("error deleting integration: %w", err)
	}
	return nil
}

// ValidToken returns an access token that is good for at least
// RefreshLeeway. A stored token expiring later than that is returned as is;
// otherwise exactly one refresh is attempted and its result persisted.
//
// No stored credential is common.ErrIntegrationNotConnected. A failed
// refresh is common.ErrNoValidToken and means the user has to reconnect.
func (s *IntegrationService) ValidToken(ctx context.Context, userID string) (string, error) {
	repo := s.repomanager.Integrations(s.db)

	in, err := repo.Get(ctx, userID, common.ProviderStrava)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrIntegrationNotConnected
		}
		return "", err
	}

	if in.ExpiresAt > s.now().Add(RefreshLeeway).Unix() {
		return in.AccessToken, nil
	}

	tok, err := s.provider.Refresh(ctx, in.RefreshToken)
	if err != nil {
		s.log.Warn(ctx, "token refresh failed", "user_id", userID, "error", err)
		return "", common.ErrNoValidToken
	}
	if tok.AccessToken == "" {
		return "", common.ErrNoValidToken
	}
	refresh := tok.RefreshToken
	if refresh == "" {
		refresh = in.RefreshToken
	}

	if err := repo.UpdateTokens(ctx, userID, common.ProviderStrava, tok.AccessToken, refresh, tok.ExpiresAt); err != nil {
		return "", fmt.Errorf("error storing refreshed token: %w", err)
	}
	s.log.Debug(ctx, "provider token refreshed", "user_id", userID, "expires_at", tok.ExpiresAt)
	return tok.AccessToken, nil
}
