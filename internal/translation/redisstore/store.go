// Package redisstore discovers translation resources stored in Redis under
// keys of the form <prefix>:<lng>:<namespace>.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"rrss/internal/translation"
	"rrss/pkg/platform/sentinel"
)

const scanCount = 100

// Location reads one resource with GET.
type Location struct {
	client redis.Cmdable
	key    string
}

func NewLocation(client redis.Cmdable, key string) Location {
	return Location{client: client, key: key}
}

func (l Location) Read(ctx context.Context) ([]byte, error) {
	data, err := l.client.Get(ctx, l.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis key %s: %w", l.key, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w: %w", l.key, sentinel.ErrUnavailable, err)
	}
	return data, nil
}

func (l Location) String() string {
	return "redis:" + l.key
}

// Key builds the key a resource is stored under.
func Key(prefix, lng, ns string) string {
	return prefix + ":" + lng + ":" + ns
}

// Put stores resource content under Key(prefix, lng, ns).
func Put(ctx context.Context, client redis.Cmdable, prefix, lng, ns string, data []byte) error {
	if _, err := translation.NewResourceMeta(lng, ns, NewLocation(client, "")); err != nil {
		return err
	}
	if err := client.Set(ctx, Key(prefix, lng, ns), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Discover scans for resource keys under prefix. Keys that do not split into
// a valid language tag and namespace are skipped.
func Discover(ctx context.Context, client redis.Cmdable, prefix string, logger *slog.Logger) ([]translation.ResourceMeta, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var metas []translation.ResourceMeta
	iter := client.Scan(ctx, 0, prefix+":*", scanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		lng, ns, ok := splitKey(prefix, key)
		if !ok {
			logger.Debug("skipping redis key", "key", key)
			continue
		}
		meta, err := translation.NewResourceMeta(lng, ns, NewLocation(client, key))
		if err != nil {
			logger.Debug("skipping redis key", "key", key, "error", err)
			continue
		}
		metas = append(metas, meta)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w: %w", sentinel.ErrUnavailable, err)
	}
	return metas, nil
}

func splitKey(prefix, key string) (lng, ns string, ok bool) {
	rest, found := strings.CutPrefix(key, prefix+":")
	if !found {
		return "", "", false
	}
	lng, ns, found = strings.Cut(rest, ":")
	if !found || strings.Contains(ns, ":") {
		return "", "", false
	}
	return lng, ns, true
}
