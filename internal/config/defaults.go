package config

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60

	DefaultModel               = "claude-sonnet-4-5"
	DefaultMaxTokens           = 4096
	DefaultModelTimeoutSeconds = 90

	DefaultCongressBaseURL         = "https://api.congress.gov/v3"
	DefaultCongressCacheTTLSeconds = 300
	DefaultToolTimeoutSeconds      = 20
	DefaultCongress                = 119

	// Turn budget per user query.
	DefaultMaxTurns = 5

	DefaultWarningMarker = "⚠️ Note: Unable to retrieve current data. This answer may be outdated."

	DefaultSessionTTLMinutes = 30

	DefaultElasticsearchIndex = "legisai-telemetry"

	DefaultCORSMaxAge = 300
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}

var DefaultPIIKeywords = []string{
	"password", "ssn", "social security", "credit card",
	"bank account", "private key", "access token", "api key",
}
