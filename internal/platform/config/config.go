package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures process level configuration.
type Server struct {
	Addr      string `env:"RRSS_ADDR"       envDefault:":8080"`
	LogLevel  string `env:"RRSS_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"RRSS_LOG_FORMAT" envDefault:"text"`

	// EventCatalog is an optional YAML file of event names declared at
	// start-up.
	EventCatalog string `env:"RRSS_EVENT_CATALOG"`

	Translations TranslationConfig
	Redis        RedisConfig
}

// TranslationConfig controls translation resource discovery.
type TranslationConfig struct {
	Dir         string        `env:"RRSS_TRANSLATIONS_DIR"`
	Watch       bool          `env:"RRSS_TRANSLATIONS_WATCH"        envDefault:"false"`
	CacheTTL    time.Duration `env:"RRSS_TRANSLATION_CACHE_TTL"     envDefault:"10m"`
	RedisPrefix string        `env:"RRSS_TRANSLATIONS_REDIS_PREFIX" envDefault:"rrss:translation"`
}

// RedisConfig configures the optional Redis connection. An empty URL leaves
// Redis disabled.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects values env.Parse cannot check on its own.
func (s Server) Validate() error {
	if !oneOf(s.LogLevel, logLevels) {
		return fmt.Errorf("RRSS_LOG_LEVEL must be one of %s, got %q", strings.Join(logLevels, ", "), s.LogLevel)
	}
	if !oneOf(s.LogFormat, logFormats) {
		return fmt.Errorf("RRSS_LOG_FORMAT must be one of %s, got %q", strings.Join(logFormats, ", "), s.LogFormat)
	}
	if s.Translations.Watch && s.Translations.Dir == "" {
		return fmt.Errorf("RRSS_TRANSLATIONS_WATCH requires RRSS_TRANSLATIONS_DIR")
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}
