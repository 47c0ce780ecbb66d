package translation

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/language"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher keeps a Manager in sync with a translation directory. Resources
// that appear are registered, changed ones have their cached content
// dropped, and removed ones are unregistered.
type Watcher struct {
	manager *Manager
	dir     string
	fsys    fs.FS
	fsw     *fsnotify.Watcher

	debounce   time.Duration
	onRegister func(ctx context.Context, meta ResourceMeta)
	logger     *slog.Logger

	// Resources this watcher is responsible for unregistering.
	owned map[resourceKey]struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for file events to settle
// before re-scanning.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithOnRegister sets a callback run for every resource the watcher
// registers.
func WithOnRegister(fn func(ctx context.Context, meta ResourceMeta)) WatcherOption {
	return func(w *Watcher) {
		w.onRegister = fn
	}
}

func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher for dir. Nothing is watched until Run.
func NewWatcher(m *Manager, dir string, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	w := &Watcher{
		manager:  m,
		dir:      dir,
		fsys:     os.DirFS(dir),
		fsw:      fsw,
		debounce: defaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
		owned:    make(map[resourceKey]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run syncs once, then watches until ctx is done. It releases the underlying
// watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", w.dir, err)
	}
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read translation root: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() && isLanguage(e.Name()) {
			w.watch(filepath.Join(w.dir, e.Name()))
		}
	}
	w.sync(ctx)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.watch(ev.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.sync(ctx)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("translation watcher error", "error", err)
		}
	}
}

func (w *Watcher) watch(dir string) {
	if err := w.fsw.Add(dir); err != nil {
		w.logger.Warn("cannot watch language directory", "dir", dir, "error", err)
	}
}

// relevant accepts language directories at the root and JSON files directly
// inside them.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	rel, err := filepath.Rel(w.dir, ev.Name)
	if err != nil {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	switch len(parts) {
	case 1:
		return isLanguage(parts[0])
	case 2:
		return isLanguage(parts[0]) && strings.HasSuffix(parts[1], resourceExt)
	default:
		return false
	}
}

func (w *Watcher) sync(ctx context.Context) {
	discovered, err := w.manager.Discover(w.fsys, false)
	if err != nil {
		w.logger.Warn("translation discovery failed", "dir", w.dir, "error", err)
		return
	}

	seen := make(map[resourceKey]struct{}, len(discovered))
	for _, meta := range discovered {
		k := meta.key()
		seen[k] = struct{}{}

		err := w.manager.Register(meta)
		switch {
		case err == nil:
			w.owned[k] = struct{}{}
			w.logger.Info("translation resource registered", "lng", k.lng, "ns", k.ns)
			if w.onRegister != nil {
				w.onRegister(ctx, meta)
			}
		case errors.Is(err, ErrDuplicatedNamespace):
			if w.adopt(k, meta) {
				w.manager.Invalidate(k.lng, k.ns.String())
			}
		default:
			w.logger.Warn("translation resource rejected", "resource", meta.String(), "error", err)
		}
	}

	for k := range w.owned {
		if _, ok := seen[k]; ok {
			continue
		}
		delete(w.owned, k)
		if err := w.manager.Unregister(k.lng, k.ns.String()); err != nil {
			w.logger.Debug("translation resource already gone", "lng", k.lng, "ns", k.ns)
			continue
		}
		w.logger.Info("translation resource unregistered", "lng", k.lng, "ns", k.ns)
	}
}

// adopt takes ownership of an already registered resource when it points at
// the same file, as happens when the directory was discovered before Run.
func (w *Watcher) adopt(k resourceKey, meta ResourceMeta) bool {
	if _, ok := w.owned[k]; ok {
		return true
	}
	existing, err := w.manager.meta(k)
	if err != nil {
		return false
	}
	have, ok := existing.Location.(FSLocation)
	if !ok {
		return false
	}
	want, ok := meta.Location.(FSLocation)
	if !ok || have.Path != want.Path {
		return false
	}
	w.owned[k] = struct{}{}
	return true
}

func isLanguage(name string) bool {
	_, err := language.Parse(name)
	return err == nil
}
