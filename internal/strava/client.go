// Package strava talks to the Strava OAuth and activities endpoints.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/fitlog/internal/common"
	"golang.org/x/oauth2"
)

// Scope is the fixed consent scope; Strava expects it comma separated.
const Scope = "read,activity:read_all"

// DefaultPerPage is the page size used for activity listing.
const DefaultPerPage = 30

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
	Timeout      time.Duration
}

// Token is the provider credential triple. ExpiresAt is epoch seconds.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

// Activity is the subset of a Strava summary activity we import.
type Activity struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	MovingTime       int      `json:"moving_time"`
	StartDateLocal   string   `json:"start_date_local"`
	AverageHeartrate *float64 `json:"average_heartrate,omitempty"`
}

type ListParams struct {
	After   time.Time
	Before  time.Time
	Page    int
	PerPage int
}

type Client struct {
	oauth      *oauth2.Config
	apiBase    string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{Scope},
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiBase:    strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// AuthCodeURL builds the consent redirect. approval_prompt=force makes
// Strava show the consent screen even for an already authorized app.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "force"))
}

func (c *Client) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// Exchange trades an authorization code for the first token pair.
func (c *Client) Exchange(ctx context.Context, code string) (*Token, error) {
	tok, err := c.oauth.Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", common.ErrUpstream, err)
	}
	return fromOAuth(tok), nil
}

// Refresh runs a refresh_token grant.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	src := c.oauth.TokenSource(c.withHTTPClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: token refresh: %v", common.ErrUpstream, err)
	}
	return fromOAuth(tok), nil
}

// fromOAuth prefers Strava's absolute expires_at over the computed expiry.
func fromOAuth(tok *oauth2.Token) *Token {
	t := &Token{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}
	switch v := tok.Extra("expires_at").(type) {
	case float64:
		t.ExpiresAt = int64(v)
	case int64:
		t.ExpiresAt = v
	case json.Number:
		t.ExpiresAt, _ = v.Int64()
	case string:
		t.ExpiresAt, _ = strconv.ParseInt(v, 10, 64)
	}
	if t.ExpiresAt == 0 && !tok.Expiry.IsZero() {
		t.ExpiresAt = tok.Expiry.Unix()
	}
	return t
}

// ListActivities fetches one page of the athlete's activities.
func (c *Client) ListActivities(ctx context.Context, accessToken string, p ListParams) ([]Activity, error) {
	q := url.Values{}
	if !p.After.IsZero() {
		q.Set("after", strconv.FormatInt(p.After.Unix(), 10))
	}
	if !p.Before.IsZero() {
		q.Set("before", strconv.FormatInt(p.Before.Unix(), 10))
	}
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	q.Set("per_page", strconv.Itoa(perPage))
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/athlete/activities?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: list activities: %v", common.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: list activities: status %d: %s", common.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("%w: decode activities: %v", common.ErrUpstream, err)
	}
	return activities, nil
}
