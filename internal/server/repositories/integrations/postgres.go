package integrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/dmitrijs2005/fitlog/internal/dbx"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID, provider string) (*models.Integration, error) {
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, expires_at, updated_at
		FROM integrations
		WHERE user_id = $1 AND provider = $2
	`
	in := &models.Integration{}
	err := r.db.QueryRowContext(ctx, query, userID, provider).
		Scan(&in.ID, &in.UserID, &in.Provider, &in.AccessToken, &in.RefreshToken, &in.ExpiresAt, &in.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return in, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, in *models.Integration) error {
	query := `
		INSERT INTO integrations (user_id, provider, access_token, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()
	`
	_, err := r.db.ExecContext(ctx, query, in.UserID, in.Provider, in.AccessToken, in.RefreshToken, in.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateTokens(ctx context.Context, userID, provider, accessToken, refreshToken string, expiresAt int64) error {
	query := `
		UPDATE integrations
		SET access_token = $3, refresh_token = $4, expires_at = $5, updated_at = now()
		WHERE user_id = $1 AND provider = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, provider, accessToken, refreshToken, expiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, provider string) error {
	query := `
		DELETE FROM integrations
		WHERE user_id = $1 AND provider = $2
	`
	if _, err := r.db.ExecContext(ctx, query, userID, provider); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
