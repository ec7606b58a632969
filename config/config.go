package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
	StorageSQLite = "sqlite"
)

// DevJWTSecret signs tokens when JWT_SECRET is unset outside production.
const DevJWTSecret = "civiclink-dev-secret"

type Config struct {
	Port   string
	Env    string
	Domain string

	JWTSecret string
	TokenTTL  time.Duration

	StorageDriver string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string

	// Redis backs the issue rate limiter and the gap cache; both are
	// disabled when RedisAddress is empty.
	RedisAddress    string
	RedisPassword   string
	IssueLimitKey   string
	IssueDailyLimit int

	CORSOrigins []string

	AnthropicAPIKey   string
	AnthropicModel    string
	EnrichmentTimeout time.Duration

	GeocoderURL    string
	GeocodeTimeout time.Duration

	GapCacheTTL time.Duration

	AdminEmail    string
	AdminPassword string
}

func Load() Config {
	env := getenv("GO_ENV", "development")
	jwtFallback := DevJWTSecret
	if env == "production" {
		jwtFallback = ""
	}

	return Config{
		Port:   getenv("PORT", "8080"),
		Env:    env,
		Domain: getenv("DOMAIN", "localhost"),

		JWTSecret: getenv("JWT_SECRET", jwtFallback),
		TokenTTL:  getenvDuration("TOKEN_TTL", 72*time.Hour),

		StorageDriver: strings.ToLower(getenv("STORAGE_DRIVER", StorageMemory)),
		MongoURI:      getenv("MONGODB_URI", ""),
		MongoDatabase: getenv("MONGODB_DATABASE", "civiclink"),
		SQLitePath:    getenv("SQLITE_PATH", "./data/civiclink.db"),

		RedisAddress:    getenv("REDIS_ADDRESS", ""),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		IssueLimitKey:   getenv("REDIS_QUEUE_FOR_ISSUE_LIMIT", "issue_limit:"),
		IssueDailyLimit: getenvInt("ISSUE_DAILY_LIMIT", 5),

		CORSOrigins: splitList(getenv("CORS_ORIGIN", "http://localhost:3000")),

		AnthropicAPIKey:   getenv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:    getenv("ANTHROPIC_MODEL", "claude-haiku-4-5-20251001"),
		EnrichmentTimeout: getenvDuration("ENRICHMENT_TIMEOUT", 5*time.Second),

		GeocoderURL:    getenv("GEOCODER_URL", ""),
		GeocodeTimeout: getenvDuration("GEOCODE_TIMEOUT", 3*time.Second),

		GapCacheTTL: getenvDuration("GAP_CACHE_TTL", 15*time.Minute),

		AdminEmail:    getenv("ADMIN_EMAIL", ""),
		AdminPassword: getenv("ADMIN_PASSWORD", ""),
	}
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings that are only acceptable in development.
func (c Config) Validate() error {
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == DevJWTSecret) {
		return errors.New("JWT_SECRET must be set to a non-default value in production")
	}
	return nil
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getenvDuration accepts Go duration strings ("90s") or plain seconds.
func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
