package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/fitlog/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "FITLOG_"

const defaultEnvFile = ".env"

// parseEnv loads a dotenv file into the process environment and then copies
// any FITLOG_* variables into config. The file comes from -f/-env-file, or
// ./.env when present. Variables already set in the environment win over the
// file. A malformed file or duration panics.
func parseEnv(config *Config) {
	path := flagx.EnvFileFlags()
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); err == nil {
			path = defaultEnvFile
		}
	}
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	}

	envString("HTTP_ADDR", &config.HTTPAddr)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envString("SECRET_KEY", &config.SecretKey)
	envDuration("ACCESS_TOKEN_VALIDITY", &config.AccessTokenValidityDuration)
	envDuration("REFRESH_TOKEN_VALIDITY", &config.RefreshTokenValidityDuration)
	envString("STRAVA_CLIENT_ID", &config.StravaClientID)
	envString("STRAVA_CLIENT_SECRET", &config.StravaClientSecret)
	envString("STRAVA_REDIRECT_URI", &config.StravaRedirectURI)
	envString("STRAVA_AUTH_URL", &config.StravaAuthURL)
	envString("STRAVA_TOKEN_URL", &config.StravaTokenURL)
	envString("STRAVA_API_BASE_URL", &config.StravaAPIBaseURL)
	envDuration("SYNC_WINDOW", &config.SyncWindow)
	envDuration("PROVIDER_TIMEOUT", &config.ProviderTimeout)
	envString("S3_ROOT_USER", &config.S3RootUser)
	envString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	envString("S3_BUCKET", &config.S3Bucket)
	envString("S3_REGION", &config.S3Region)
	envString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	envDuration("PHOTO_URL_TTL", &config.PhotoURLTTL)
	envString("LOG_LEVEL", &config.LogLevel)
	envString("LOG_FILE", &config.LogFile)
	envDuration("SHUTDOWN_TIMEOUT", &config.ShutdownTimeout)
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}

func envDuration(name string, dst *time.Duration) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
