package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg := Load()
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, 20, cfg.GoalDays)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.PhotosEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("APP_TIMEZONE", "Europe/Berlin")
	t.Setenv("CHALLENGE_GOAL_DAYS", "30")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("JWT_EXPIRY", "not-a-duration")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("S3_BUCKET", "photos")

	cfg := Load()
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
	assert.Equal(t, 30, cfg.GoalDays)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry, "invalid duration falls back")
	assert.False(t, cfg.AutoMigrate)
	assert.True(t, cfg.PhotosEnabled())
}

func TestValidate(t *testing.T) {
	base := Config{AppEnv: "development", StoreDriver: StoreMemory, Timezone: "UTC", GoalDays: 20}
	require.NoError(t, base.Validate())

	c := base
	c.StoreDriver = "cassandra"
	assert.Error(t, c.Validate())

	c = base
	c.Timezone = "Mars/Olympus"
	assert.Error(t, c.Validate())

	c = base
	c.GoalDays = 0
	assert.Error(t, c.Validate())

	c = base
	c.AppEnv = "production"
	assert.ErrorContains(t, c.Validate(), "RESEND_API_KEY")

	c.ResendAPIKey = "re_123"
	assert.ErrorContains(t, c.Validate(), "memory")

	c.StoreDriver = StoreSQLite
	assert.NoError(t, c.Validate())
}

func TestSanitized_DropsSecrets(t *testing.T) {
	c := &Config{AppName: "x", JWTSecret: "s", ResendAPIKey: "k", S3SecretKey: "sk", MetricsPass: "p"}
	s := c.Sanitized()
	assert.Equal(t, "x", s.AppName)
	assert.Empty(t, s.JWTSecret)
	assert.Empty(t, s.ResendAPIKey)
	assert.Empty(t, s.S3SecretKey)
	assert.Empty(t, s.MetricsPass)
}
