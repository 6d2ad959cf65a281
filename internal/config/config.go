package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StorePgx    = "pgx"
	StoreMongo  = "mongo"
)

type Config struct {
	// Application
	AppName  string
	AppEnv   string
	AppURL   string
	Port     string
	Timezone string

	// Challenge
	GoalDays int

	// Storage backend (memory, sqlite, pgx or mongo; default: sqlite)
	StoreDriver   string
	DBConnection  string
	MongoURI      string
	MongoDatabase string
	AutoMigrate   bool

	// Coordination (both optional)
	RedisURL    string
	RabbitMQURL string
	EventsQueue string

	// Security
	JWTSecret      string
	JWTExpiry      time.Duration
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	MetricsUser    string
	MetricsPass    string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Storage for progress photos (S3-compatible, optional: uploads disabled without a bucket)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:  envString("APP_NAME", "20 Hard"),
		AppEnv:   envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:   envString("APP_URL", "http://localhost:8090"),
		Port:     envString("PORT", "8090"),
		Timezone: envString("APP_TIMEZONE", "UTC"),

		GoalDays: envInt("CHALLENGE_GOAL_DAYS", 20),

		// Storage backend
		StoreDriver:   envString("STORE_DRIVER", StoreSQLite),
		DBConnection:  envString("DB_CONNECTION", "./data/twentyhard.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),
		MongoURI:      envString("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: envString("MONGO_DATABASE", "twentyhard"),
		AutoMigrate:   envBool("DB_AUTO_MIGRATE", true),

		RedisURL:    envString("REDIS_URL", ""),
		RabbitMQURL: envString("RABBITMQ_URL", ""),
		EventsQueue: envString("EVENTS_QUEUE", "challenge.events"),

		// Security
		JWTSecret:      envRequired("JWT_SECRET"),
		JWTExpiry:      envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days
		CORSOrigins:    envList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 30),
		MetricsUser:    envString("METRICS_USER", ""),
		MetricsPass:    envString("METRICS_PASS", ""),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		SentryDSN: envString("SENTRY_DSN", ""),

		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),                     // Optional: for non-AWS providers
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 168*time.Hour), // 7 days
	}

	err = cfg.Validate()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	return cfg
}

// Validate checks values that have no sensible fallback. Production also
// requires the services development can fake.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite, StorePgx, StoreMongo:
	default:
		return errors.New("STORE_DRIVER must be one of memory, sqlite, pgx, mongo")
	}
	_, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return errors.New("APP_TIMEZONE is not a known IANA zone")
	}
	if c.GoalDays <= 0 {
		return errors.New("CHALLENGE_GOAL_DAYS must be positive")
	}
	if c.IsProduction() {
		return validateProduction(c)
	}
	return nil
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows some services (like email) to use fallback modes for easier local testing.
func validateProduction(c *Config) error {
	if c.ResendAPIKey == "" {
		return errors.New("production deployment requires RESEND_API_KEY")
	}
	if c.StoreDriver == StoreMemory {
		return errors.New("production deployment cannot use the memory store")
	}
	return nil
}

// Location resolves Timezone. Validate has already rejected unknown zones.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) PhotosEnabled() bool {
	return c.S3Bucket != ""
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("config invalid float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envList splits a comma separated value, dropping blanks.
func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy holding only fields that are safe to log.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:     c.AppName,
		AppEnv:      c.AppEnv,
		AppURL:      c.AppURL,
		Port:        c.Port,
		Timezone:    c.Timezone,
		GoalDays:    c.GoalDays,
		StoreDriver: c.StoreDriver,
		EventsQueue: c.EventsQueue,
		EmailFrom:   c.EmailFrom,
		S3Endpoint:  c.S3Endpoint,
		S3Bucket:    c.S3Bucket,
	}
}
