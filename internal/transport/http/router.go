package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"rrss/internal/event"
	"rrss/internal/platform/middleware"
	"rrss/internal/translation"
)

// EventService is the read side of an event dispatcher.
type EventService interface {
	Summary() []event.EventSummary
	HandlerKeys(name string) ([]event.HandlerKey, error)
}

// TranslationService serves translation resources.
type TranslationService interface {
	Resource(ctx context.Context, lng, ns string) ([]byte, error)
	List() []translation.ResourceMeta
}

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler is the thin HTTP layer. It only reads state; nothing here emits
// events or mutates registries.
type Handler struct {
	events       EventService
	translations TranslationService
	checks       map[string]HealthChecker
	logger       *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithHealthCheck adds a named dependency to /healthz.
func WithHealthCheck(name string, c HealthChecker) Option {
	return func(h *Handler) {
		if c != nil {
			h.checks[name] = c
		}
	}
}

func NewHandler(events EventService, translations TranslationService, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		events:       events,
		translations: translations,
		checks:       make(map[string]HealthChecker),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the introspection endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleHealth)
	r.Get("/events", h.HandleListEvents)
	r.Get("/events/{event}/handlers", h.HandleListHandlers)
	r.Get("/translations", h.HandleListTranslations)
	r.Get("/translations/{lng}/{ns}", h.HandleTranslation)
}

// NewRouter wires the middleware chain, the handler's endpoints and the
// metrics endpoint.
func NewRouter(h *Handler, metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(h.logger))

	h.Register(r)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	return r
}
