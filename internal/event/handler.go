package event

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"rrss/internal/registry"
	dErrors "rrss/pkg/domain-errors"
)

// handlerKind is the readable item name used in logs and String output.
const handlerKind = "EventHandler"

// Future resolves to exactly one value: nil on success or the failure. A
// closed channel without a value counts as success.
type Future = <-chan error

// Handler is a registry item that reacts to one event name. RegistryID is
// the event name.
type Handler[T any] interface {
	registry.Data
	Invoke(ctx context.Context, evt Event[T]) Future
}

// Resolved returns a Future that already holds err.
func Resolved(err error) Future {
	ch := make(chan error, 1)
	ch <- err
	return ch
}

type handlerConfig struct {
	timeout time.Duration
}

// HandlerOption configures Sync and Async.
type HandlerOption func(*handlerConfig)

// WithTimeout bounds every invocation of the handler. The handler sees the
// deadline on its context; failures caused by it match ErrHandlerTimeout.
func WithTimeout(d time.Duration) HandlerOption {
	return func(c *handlerConfig) {
		c.timeout = d
	}
}

type handler[T any] struct {
	registry.Entry
	timeout time.Duration
	call    func(ctx context.Context, evt Event[T]) error
}

// Sync builds a handler from a blocking function. Each invocation runs fn on
// its own goroutine.
func Sync[T any](eventName, registrant, id string, fn func(ctx context.Context, evt Event[T]) error, opts ...HandlerOption) (Handler[T], error) {
	if fn == nil {
		return nil, dErrors.Wrap(ErrNilHandler, dErrors.CodeValidation, "sync handler")
	}
	return newHandler(eventName, registrant, id, fn, opts)
}

// Async builds a handler from a function that starts its own work and
// returns a Future for it. Invoke waits on that Future, so Emit still joins
// the work.
func Async[T any](eventName, registrant, id string, fn func(ctx context.Context, evt Event[T]) Future, opts ...HandlerOption) (Handler[T], error) {
	if fn == nil {
		return nil, dErrors.Wrap(ErrNilHandler, dErrors.CodeValidation, "async handler")
	}
	return newHandler(eventName, registrant, id, func(ctx context.Context, evt Event[T]) error {
		return Await(fn(ctx, evt))
	}, opts)
}

func newHandler[T any](eventName, registrant, id string, call func(context.Context, Event[T]) error, opts []HandlerOption) (Handler[T], error) {
	entry, err := registry.NewEntry(eventName, registrant, id)
	if err != nil {
		return nil, err
	}
	var cfg handlerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &handler[T]{Entry: entry, timeout: cfg.timeout, call: call}, nil
}

// Invoke starts the handler and returns immediately.
func (h *handler[T]) Invoke(ctx context.Context, evt Event[T]) Future {
	out := make(chan error, 1)
	go func() {
		out <- h.run(ctx, evt)
	}()
	return out
}

func (h *handler[T]) run(ctx context.Context, evt Event[T]) (err error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()

	err = h.call(ctx, evt)
	if err != nil && h.timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrHandlerTimeout) {
		err = fmt.Errorf("%w after %s: %w", ErrHandlerTimeout, h.timeout, err)
	}
	return err
}

func (h *handler[T]) String() string {
	return registry.Describe(handlerKind, h)
}

// Await blocks until f resolves. A nil Future resolves immediately.
func Await(f Future) error {
	if f == nil {
		return nil
	}
	return <-f
}
