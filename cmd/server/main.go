package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"rrss/internal/event"
	eventmetrics "rrss/internal/event/metrics"
	"rrss/internal/platform/config"
	"rrss/internal/platform/httpserver"
	"rrss/internal/platform/logger"
	"rrss/internal/platform/metrics"
	"rrss/internal/platform/redis"
	httptransport "rrss/internal/transport/http"
	"rrss/internal/translation"
	"rrss/internal/translation/redisstore"
)

const (
	// EventTranslationRegistered is emitted for every translation resource the
	// watcher picks up after start-up.
	EventTranslationRegistered = "rrss.translation.registered"

	systemRegistrant = "rrss.sys.translation"
)

// TranslationRegistered is the payload of EventTranslationRegistered.
type TranslationRegistered struct {
	Lng       string `json:"lng"`
	Namespace string `json:"ns"`
	Location  string `json:"location"`
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "rrss:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.New()
	dispatcher := event.NewDispatcher[any](
		event.WithLogger(log),
		event.WithMetrics(eventmetrics.New(reg)),
	)
	if err := declareEvents(dispatcher, cfg, log); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	translations := translation.NewManager(
		translation.WithCacheTTL(cfg.Translations.CacheTTL),
		translation.WithLogger(log),
	)
	if err := discoverTranslations(ctx, translations, redisClient, cfg, log); err != nil {
		return err
	}

	var handlerOpts []httptransport.Option
	if redisClient != nil {
		handlerOpts = append(handlerOpts, httptransport.WithHealthCheck("redis", redisClient))
	}
	handler := httptransport.NewHandler(dispatcher, translations, log, handlerOpts...)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler, reg.Handler()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Serve(gctx, srv, log)
	})
	if cfg.Translations.Watch {
		w, err := translation.NewWatcher(translations, cfg.Translations.Dir,
			translation.WithWatcherLogger(log),
			translation.WithOnRegister(func(ctx context.Context, m translation.ResourceMeta) {
				emitRegistered(ctx, dispatcher, m, log)
			}),
		)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	log.Info("rrss started",
		"addr", cfg.Addr,
		"events", dispatcher.Len(),
		"translations", len(translations.List()),
	)
	return g.Wait()
}

func declareEvents(d *event.Dispatcher[any], cfg config.Server, log *slog.Logger) error {
	if err := d.AddEvent(EventTranslationRegistered); err != nil {
		return err
	}
	h, err := event.Sync(EventTranslationRegistered, systemRegistrant, "log_registration",
		func(ctx context.Context, evt event.Event[any]) error {
			log.InfoContext(ctx, "translation resource available", "event_id", evt.ID, "resource", evt.Data)
			return nil
		})
	if err != nil {
		return err
	}
	if err := d.AddHandler(h); err != nil {
		return err
	}

	if cfg.EventCatalog == "" {
		return nil
	}
	catalog, err := event.LoadCatalogFile(cfg.EventCatalog)
	if err != nil {
		return err
	}
	return d.Declare(catalog)
}

func discoverTranslations(ctx context.Context, m *translation.Manager, client *redis.Client, cfg config.Server, log *slog.Logger) error {
	if cfg.Translations.Dir != "" {
		if _, err := m.Discover(os.DirFS(cfg.Translations.Dir), true); err != nil {
			return fmt.Errorf("discover translations in %s: %w", cfg.Translations.Dir, err)
		}
	}
	if client == nil {
		return nil
	}

	metas, err := redisstore.Discover(ctx, client, cfg.Translations.RedisPrefix, log)
	if err != nil {
		return err
	}
	for _, meta := range metas {
		if err := m.Register(meta); err != nil {
			log.Warn("redis translation resource skipped", "resource", meta.String(), "error", err)
		}
	}
	return nil
}

func emitRegistered(ctx context.Context, d *event.Dispatcher[any], m translation.ResourceMeta, log *slog.Logger) {
	evt, err := event.NewEvent[any](EventTranslationRegistered, TranslationRegistered{
		Lng:       m.Lng.String(),
		Namespace: m.Namespace.String(),
		Location:  m.Location.String(),
	}, event.WithSender(systemRegistrant))
	if err != nil {
		log.Error("build translation event", "error", err)
		return
	}
	if err := d.Emit(ctx, evt); err != nil {
		log.Warn("translation event handlers failed", "error", err)
	}
}
