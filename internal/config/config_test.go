package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexfound/apply-engine/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.GroqModel)
	assert.False(t, cfg.AdminEnabled())
	assert.False(t, cfg.AIConfigured())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("KAFKA_BROKERS", "b1:9092,b2:9092")
	t.Setenv("HTTP_WRITE_TIMEOUT", "45s")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.AIConfigured())
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 45*time.Second, cfg.HTTPWriteTimeout)
}

func TestAdminEnabled(t *testing.T) {
	cfg := config.Config{AdminUsername: "admin"}
	assert.False(t, cfg.AdminEnabled())
	cfg.AdminPasswordHash = "argon2id$3$65536$2$c2FsdA$aGFzaA"
	assert.True(t, cfg.AdminEnabled())
}

func TestGetAIBackoffConfig_TestEnvShortens(t *testing.T) {
	cfg := config.Config{AppEnv: "test", AIBackoffMaxElapsedTime: time.Minute}
	maxElapsed, initial, maxInterval, mult := cfg.GetAIBackoffConfig()
	assert.Equal(t, 2*time.Second, maxElapsed)
	assert.Equal(t, 50*time.Millisecond, initial)
	assert.Equal(t, 500*time.Millisecond, maxInterval)
	assert.Equal(t, 2.0, mult)
}
