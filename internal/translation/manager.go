package translation

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	dErrors "rrss/pkg/domain-errors"
	"rrss/pkg/identifier"
)

const (
	DefaultCacheTTL        = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
	resourceExt            = ".json"
)

// Manager indexes translation resources by (language, namespace) and serves
// their content through a read-through cache. It is safe for concurrent use.
//
// Every Register, Unregister and Invalidate bumps the key's generation.
// Cached content is only served, and only stored, while its generation is
// current, so a read racing an Unregister or Invalidate cannot bring stale
// content back.
type Manager struct {
	mu        sync.RWMutex
	resources map[resourceKey]ResourceMeta
	gens      map[resourceKey]uint64

	cache  *gocache.Cache
	logger *slog.Logger
}

type managerConfig struct {
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*managerConfig)

// WithCacheTTL sets how long resource content stays cached. Zero or less
// disables expiry.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *managerConfig) {
		c.ttl = ttl
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *managerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewManager(opts ...Option) *Manager {
	cfg := managerConfig{
		ttl:    DefaultCacheTTL,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	ttl := cfg.ttl
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Manager{
		resources: make(map[resourceKey]ResourceMeta),
		gens:      make(map[resourceKey]uint64),
		cache:     gocache.New(ttl, DefaultCleanupInterval),
		logger:    cfg.logger,
	}
}

// Register adds meta. A resource with the same language and namespace fails
// with ErrDuplicatedNamespace.
func (m *Manager) Register(meta ResourceMeta) error {
	if meta.Location == nil {
		return dErrors.New(dErrors.CodeValidation, "resource location is required")
	}
	k := meta.key()

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resources[k]; ok {
		return newDuplicatedError(meta)
	}
	m.resources[k] = meta
	m.gens[k]++
	m.logger.Debug("translation resource registered",
		"lng", k.lng,
		"ns", k.ns,
		"location", meta.Location.String(),
	)
	return nil
}

// Unregister removes a resource and its cached content.
func (m *Manager) Unregister(lng, ns string) error {
	k, err := parseKey(lng, ns)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resources[k]; !ok {
		return newNotFoundError(k)
	}
	delete(m.resources, k)
	m.gens[k]++
	m.cache.Delete(k.String())
	return nil
}

// Meta returns the registered metadata of a resource.
func (m *Manager) Meta(lng, ns string) (ResourceMeta, error) {
	k, err := parseKey(lng, ns)
	if err != nil {
		return ResourceMeta{}, err
	}
	return m.meta(k)
}

func (m *Manager) meta(k resourceKey) (ResourceMeta, error) {
	meta, _, err := m.lookup(k)
	return meta, err
}

func (m *Manager) lookup(k resourceKey) (ResourceMeta, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	meta, ok := m.resources[k]
	if !ok {
		return ResourceMeta{}, 0, newNotFoundError(k)
	}
	return meta, m.gens[k], nil
}

type cachedResource struct {
	gen  uint64
	data []byte
}

// Resource returns the JSON content of a resource. Content is cached per
// (language, namespace) until it expires or is invalidated.
func (m *Manager) Resource(ctx context.Context, lng, ns string) ([]byte, error) {
	k, err := parseKey(lng, ns)
	if err != nil {
		return nil, err
	}

	meta, gen, err := m.lookup(k)
	if err != nil {
		return nil, err
	}

	if cached, found := m.cache.Get(k.String()); found {
		c, ok := cached.(cachedResource)
		if !ok {
			m.logger.Error("wrong type in translation cache", "key", k.String())
		} else if c.gen == gen {
			return bytes.Clone(c.data), nil
		}
	}

	data, err := meta.Location.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", meta.Location, err)
	}

	// Writers hold the write lock while bumping the generation.
	m.mu.RLock()
	if m.gens[k] == gen {
		m.cache.Set(k.String(), cachedResource{gen: gen, data: data}, gocache.DefaultExpiration)
	}
	m.mu.RUnlock()
	return bytes.Clone(data), nil
}

// Invalidate drops the cached content of a resource, if any.
func (m *Manager) Invalidate(lng, ns string) {
	k, err := parseKey(lng, ns)
	if err != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens[k]++
	m.cache.Delete(k.String())
}

// List returns every registered resource ordered by language then namespace.
func (m *Manager) List() []ResourceMeta {
	m.mu.RLock()
	out := slices.Collect(maps.Values(m.resources))
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b ResourceMeta) int {
		return cmp.Or(
			strings.Compare(a.Lng.String(), b.Lng.String()),
			strings.Compare(a.Namespace.String(), b.Namespace.String()),
		)
	})
	return out
}

// Discover walks fsys for <lng>/<namespace>.json files. Top-level entries
// that are not directories named by a language tag are skipped, as are
// non-JSON files and files whose name is not a valid namespace. With
// register set, every discovered resource is registered; duplicates are
// skipped.
func (m *Manager) Discover(fsys fs.FS, register bool) ([]ResourceMeta, error) {
	m.logger.Debug("discovering translation resources", "register", register)

	dirs, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read translation root: %w", err)
	}

	var discovered []ResourceMeta
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		if !isLanguage(dir.Name()) {
			continue
		}
		files, err := fs.ReadDir(fsys, dir.Name())
		if err != nil {
			return nil, fmt.Errorf("read language dir %s: %w", dir.Name(), err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), resourceExt) {
				continue
			}
			loc := FSLocation{FS: fsys, Path: path.Join(dir.Name(), f.Name())}
			meta, err := NewResourceMeta(dir.Name(), strings.TrimSuffix(f.Name(), resourceExt), loc)
			if err != nil {
				m.logger.Debug("skipping translation file", "path", loc.Path, "error", err)
				continue
			}
			discovered = append(discovered, meta)
		}
	}

	if register {
		for _, meta := range discovered {
			if err := m.Register(meta); err != nil {
				if errors.Is(err, ErrDuplicatedNamespace) {
					m.logger.Debug("duplicated translation namespace skipped", "resource", meta.String())
					continue
				}
				return discovered, err
			}
		}
	}
	return discovered, nil
}

func parseKey(lng, ns string) (resourceKey, error) {
	tag, err := ParseLanguage(lng)
	if err != nil {
		return resourceKey{}, err
	}
	namespace, err := identifier.Parse(ns)
	if err != nil {
		return resourceKey{}, fmt.Errorf("namespace: %w", err)
	}
	return resourceKey{lng: tag.String(), ns: namespace}, nil
}
