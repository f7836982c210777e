package common

// AuthorizationHeaderName carries the bearer access token on inbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// DateLayout is the calendar-day format used for every persisted date.
const DateLayout = "2006-01-02"

// ProviderStrava is the provider tag stored on integrations and imported workouts.
const ProviderStrava = "strava"
