package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")

	cfg, err := Load()
	assert.ErrorIs(t, err, ErrMissingMongoURI)
	assert.Nil(t, cfg)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "6666", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowOrigins)
	assert.Equal(t, "quiz.events", cfg.RabbitMQ.Exchange)
	assert.Equal(t, 60, cfg.Redis.RateLimit)
	assert.Equal(t, time.Minute, cfg.Redis.RateWindow)
	assert.False(t, cfg.Consul.Enabled)
	assert.True(t, cfg.MongoDB.EnsureIndexes)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb+srv://cluster0.example.net")
	t.Setenv("PORT", "8080")
	t.Setenv("HOSTNAME", "pod-7")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("ALLOW_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("CONSUL_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "quiz-service-pod-7", cfg.Server.ServiceID)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 5, cfg.Redis.RateLimit)
	assert.True(t, cfg.Consul.Enabled)
	assert.Equal(t, "debug", cfg.Logger.Level)
}
