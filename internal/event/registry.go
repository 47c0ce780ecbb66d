package event

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rrss/internal/event/metrics"
	"rrss/internal/registry"
	"rrss/pkg/identifier"
	"rrss/pkg/platform/fanout"
)

// EventRegistry holds the handlers of one event name in registration order.
type EventRegistry[T any] struct {
	*registry.ListRegistry[Handler[T]]

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// NewEventRegistry creates a standalone registry for event name. Dispatchers
// create theirs through the same path.
func NewEventRegistry[T any](name identifier.Identifier, opts ...Option) *EventRegistry[T] {
	return newEventRegistry[T](name, newConfig(opts))
}

func newEventRegistry[T any](name identifier.Identifier, cfg config) *EventRegistry[T] {
	return &EventRegistry[T]{
		ListRegistry: registry.NewListRegistry[Handler[T]](name,
			registry.WithErrorTable(ErrorTable()),
			registry.WithKind(handlerKind),
			registry.WithLogger(cfg.logger),
		),
		logger:  cfg.logger,
		metrics: cfg.metrics,
		tracer:  cfg.tracer,
	}
}

// Emit invokes every handler registered at call time concurrently and blocks
// until all of them have returned. The first failure cancels the context the
// remaining handlers run with and is returned as a *HandlerError.
func (r *EventRegistry[T]) Emit(ctx context.Context, evt Event[T]) error {
	handlers := r.List()
	name := r.RegistryID().String()

	ctx, span := r.tracer.Start(ctx, "event.emit",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("event.name", name),
			attribute.String("event.id", evt.ID.String()),
			attribute.Int("event.handlers", len(handlers)),
		),
	)
	defer span.End()

	r.logger.DebugContext(ctx, "emitting event",
		"event", name,
		"event_id", evt.ID,
		"handlers", len(handlers),
	)

	start := time.Now()
	err := fanout.Run(ctx, len(handlers), func(ctx context.Context, i int) error {
		h := handlers[i]
		if err := Await(h.Invoke(ctx, evt)); err != nil {
			r.metrics.IncrementHandlerFailure(name)
			return newHandlerError(h, err)
		}
		return nil
	})
	elapsed := time.Since(start)
	r.metrics.ObserveEmitLatency(name, elapsed)

	// Invoke itself panicked, which only custom Handler implementations can do.
	var pe *fanout.PanicError
	if errors.As(err, &pe) {
		r.metrics.IncrementHandlerFailure(name)
		err = newHandlerError(handlers[pe.Index], &PanicError{Value: pe.Value, Stack: string(pe.Stack)})
	}

	if err != nil {
		r.metrics.IncrementEmission(name, metrics.OutcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.WarnContext(ctx, "event handler failed",
			"event", name,
			"event_id", evt.ID,
			"duration", elapsed,
			"error", err,
		)
		return err
	}

	r.metrics.IncrementEmission(name, metrics.OutcomeOK)
	span.SetStatus(codes.Ok, "")
	r.logger.InfoContext(ctx, "event emitted",
		"event", name,
		"event_id", evt.ID,
		"handlers", len(handlers),
		"duration", elapsed,
	)
	return nil
}
