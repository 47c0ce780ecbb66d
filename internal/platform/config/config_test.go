package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.EventCatalog)
	assert.False(t, cfg.Translations.Watch)
	assert.Equal(t, 10*time.Minute, cfg.Translations.CacheTTL)
	assert.Equal(t, "rrss:translation", cfg.Translations.RedisPrefix)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("RRSS_ADDR", ":9090")
	t.Setenv("RRSS_LOG_LEVEL", "debug")
	t.Setenv("RRSS_LOG_FORMAT", "json")
	t.Setenv("RRSS_EVENT_CATALOG", "/etc/rrss/events.yaml")
	t.Setenv("RRSS_TRANSLATIONS_DIR", "/srv/translations")
	t.Setenv("RRSS_TRANSLATIONS_WATCH", "true")
	t.Setenv("RRSS_TRANSLATION_CACHE_TTL", "30s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("REDIS_POOL_SIZE", "4")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/etc/rrss/events.yaml", cfg.EventCatalog)
	assert.Equal(t, "/srv/translations", cfg.Translations.Dir)
	assert.True(t, cfg.Translations.Watch)
	assert.Equal(t, 30*time.Second, cfg.Translations.CacheTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 4, cfg.Redis.PoolSize)
}

func TestFromEnvRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown log level", map[string]string{"RRSS_LOG_LEVEL": "verbose"}},
		{"unknown log format", map[string]string{"RRSS_LOG_FORMAT": "xml"}},
		{"watch without dir", map[string]string{"RRSS_TRANSLATIONS_WATCH": "true"}},
		{"malformed duration", map[string]string{"RRSS_TRANSLATION_CACHE_TTL": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
