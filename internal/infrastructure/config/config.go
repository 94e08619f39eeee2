// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion       string
	LogLevel         string
	MetricsNamespace string

	// Server
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// PostgreSQL; empty DSN runs on the in-memory store
	PostgresDSN string

	// MongoDB; empty URI keeps tracking jobs in memory
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Redis; empty address uses an in-process provider lease
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool

	// Price lookup
	LookupProvider    string
	LookupBaseURL     string
	LookupTimeout     time.Duration
	LookupRateLimit   int
	LookupRateWindow  time.Duration
	StubFlightNumbers []string

	// Scheduling
	ProviderLeaseKey  string
	ProviderLeaseTTL  time.Duration
	SchedulerLocation *time.Location
	TickTimeout       time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	loc, err := time.LoadLocation(getEnv("SCHEDULER_LOCATION", "UTC"))
	if err != nil {
		return nil, err
	}

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:       getEnv("APP_VERSION", "1.0.0"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "flightstats"),

		Port:            getEnv("PORT", "8080"),
		ReadTimeout:     time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout:    time.Duration(getEnvAsInt("WRITE_TIMEOUT", 120)) * time.Second,
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "flightstats"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		LookupProvider:    strings.ToLower(getEnv("LOOKUP_PROVIDER", "http")),
		LookupBaseURL:     getEnv("LOOKUP_BASE_URL", "http://localhost:3000"),
		LookupTimeout:     getEnvAsDuration("LOOKUP_TIMEOUT", 90*time.Second),
		LookupRateLimit:   getEnvAsInt("LOOKUP_RATE_LIMIT", 30),
		LookupRateWindow:  getEnvAsDuration("LOOKUP_RATE_WINDOW", time.Minute),
		StubFlightNumbers: getEnvAsList("STUB_FLIGHT_NUMBERS", []string{"BA117", "VS3", "AA100"}),

		ProviderLeaseKey:  getEnv("PROVIDER_LEASE_KEY", "flightstats:provider-lease"),
		ProviderLeaseTTL:  getEnvAsDuration("PROVIDER_LEASE_TTL", 5*time.Minute),
		SchedulerLocation: loc,
		TickTimeout:       getEnvAsDuration("TICK_TIMEOUT", 5*time.Minute),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
