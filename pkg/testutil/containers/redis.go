//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"rrss/internal/platform/config"
	platformredis "rrss/internal/platform/redis"
)

const redisImage = "redis:7-alpine"

// TranslationRedis is a throwaway Redis holding translation resources under
// Prefix. The client is built the way the server builds it, from a
// config.RedisConfig. Everything is torn down when the test finishes.
type TranslationRedis struct {
	Container testcontainers.Container
	Config    config.RedisConfig
	Client    *platformredis.Client
	Prefix    string
}

// NewTranslationRedis starts Redis and connects to it through the platform
// client.
func NewTranslationRedis(t *testing.T, prefix string) *TranslationRedis {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, redisImage)
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}

	cfg := config.RedisConfig{
		URL:          url,
		PoolSize:     4,
		MinIdleConns: 1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	client, err := platformredis.New(ctx, cfg)
	if err != nil {
		t.Fatalf("connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return &TranslationRedis{
		Container: container,
		Config:    cfg,
		Client:    client,
		Prefix:    prefix,
	}
}

// SetRaw stores value under prefix:suffix without any validation, for keys a
// well-behaved writer would never produce.
func (r *TranslationRedis) SetRaw(ctx context.Context, suffix, value string) error {
	return r.Client.Set(ctx, r.Prefix+":"+suffix, value, 0).Err()
}

// Clear deletes every key under Prefix. Keys outside it are left alone.
func (r *TranslationRedis) Clear(ctx context.Context) error {
	iter := r.Client.Scan(ctx, 0, r.Prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.Client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
