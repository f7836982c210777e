package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/fitlog/internal/flagx"
	"github.com/dmitrijs2005/fitlog/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Interval fields
// use timex.Duration, so both "30s" and integer nanoseconds are accepted.
type JsonConfig struct {
	HTTPAddr                     string         `json:"http_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	StravaClientID               string         `json:"strava_client_id"`
	StravaClientSecret           string         `json:"strava_client_secret"`
	StravaRedirectURI            string         `json:"strava_redirect_uri"`
	StravaAuthURL                string         `json:"strava_auth_url"`
	StravaTokenURL               string         `json:"strava_token_url"`
	StravaAPIBaseURL             string         `json:"strava_api_base_url"`
	SyncWindow                   timex.Duration `json:"sync_window"`
	ProviderTimeout              timex.Duration `json:"provider_timeout"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	PhotoURLTTL                  timex.Duration `json:"photo_url_ttl"`
	LogLevel                     string         `json:"log_level"`
	LogFile                      string         `json:"log_file"`
	ShutdownTimeout              timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays the JSON file named by -c/-config, if any. Keys absent
// from the file keep their current value. An unreadable or invalid file
// panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setString(&config.StravaClientID, c.StravaClientID)
	setString(&config.StravaClientSecret, c.StravaClientSecret)
	setString(&config.StravaRedirectURI, c.StravaRedirectURI)
	setString(&config.StravaAuthURL, c.StravaAuthURL)
	setString(&config.StravaTokenURL, c.StravaTokenURL)
	setString(&config.StravaAPIBaseURL, c.StravaAPIBaseURL)
	setDuration(&config.SyncWindow, c.SyncWindow)
	setDuration(&config.ProviderTimeout, c.ProviderTimeout)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.PhotoURLTTL, c.PhotoURLTTL)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFile, c.LogFile)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
