package event

import (
	"context"

	"rrss/internal/registry"
	dErrors "rrss/pkg/domain-errors"
	"rrss/pkg/identifier"
)

// Dispatcher routes events to the EventRegistry of their name. It is not
// safe for concurrent mutation; concurrent Emit calls are fine once the
// handler set is settled.
type Dispatcher[T any] struct {
	*registry.Group[Handler[T], *EventRegistry[T]]
	cfg config
}

func NewDispatcher[T any](opts ...Option) *Dispatcher[T] {
	cfg := newConfig(opts)
	return &Dispatcher[T]{
		Group: registry.NewGroup[Handler[T], *EventRegistry[T]](
			func(name identifier.Identifier) *EventRegistry[T] {
				return newEventRegistry[T](name, cfg)
			},
			registry.WithErrorTable(ErrorTable()),
			registry.WithKind(handlerKind),
			registry.WithLogger(cfg.logger),
		),
		cfg: cfg,
	}
}

// AddEvent declares an event name. Declaring it twice fails with
// ErrDuplicatedEvent.
func (d *Dispatcher[T]) AddEvent(name string) error {
	id, err := identifier.Parse(name)
	if err != nil {
		return err
	}
	return d.AddRegistry(id)
}

func (d *Dispatcher[T]) HasEvent(name string) bool {
	return d.HasRegistry(identifier.Identifier(name))
}

// RemoveEvent drops the event and every handler still registered for it.
func (d *Dispatcher[T]) RemoveEvent(name string) error {
	id, err := identifier.Parse(name)
	if err != nil {
		return err
	}
	return d.RemoveRegistry(id)
}

// AddHandler registers h under the event named by h.RegistryID().
func (d *Dispatcher[T]) AddHandler(h Handler[T]) error {
	if h == nil {
		return dErrors.Wrap(ErrNilHandler, dErrors.CodeValidation, "add handler")
	}
	return d.AddData(h)
}

// RemoveHandler removes the handler keyed like h. Any Data works as a key, so
// callers do not need to keep the original handler around.
func (d *Dispatcher[T]) RemoveHandler(h registry.Data) error {
	r, err := d.Registry(h.RegistryID())
	if err != nil {
		return err
	}
	return r.Remove(h.Registrant(), h.Identifier().Ptr())
}

// RemoveAllByRegistrant removes every handler of registrant from every event.
// Events without such handlers are skipped.
func (d *Dispatcher[T]) RemoveAllByRegistrant(registrant string) error {
	id, err := identifier.Parse(registrant)
	if err != nil {
		return err
	}
	return d.RemoveData(id, nil)
}

// Handlers returns the handlers of an event in invocation order.
func (d *Dispatcher[T]) Handlers(name string) ([]Handler[T], error) {
	id, err := identifier.Parse(name)
	if err != nil {
		return nil, err
	}
	return d.ListData(id)
}

// Emit delivers evt to the handlers of evt.Name. See EventRegistry.Emit for
// the join semantics.
func (d *Dispatcher[T]) Emit(ctx context.Context, evt Event[T]) error {
	r, err := d.Registry(evt.Name)
	if err != nil {
		return err
	}
	return r.Emit(ctx, evt)
}

// Declare adds every catalog event that is not declared yet.
func (d *Dispatcher[T]) Declare(c Catalog) error {
	for _, name := range c.Events {
		if d.HasRegistry(name) {
			continue
		}
		if err := d.AddRegistry(name); err != nil {
			return err
		}
	}
	d.cfg.logger.Info("event catalog declared", "events", len(c.Events))
	return nil
}

// HandlerKey identifies a registered handler.
type HandlerKey struct {
	Registrant identifier.Identifier `json:"registrant"`
	Identifier identifier.Identifier `json:"identifier"`
}

// EventSummary describes one declared event.
type EventSummary struct {
	Name     identifier.Identifier `json:"name"`
	Handlers int                   `json:"handlers"`
}

// Summary lists declared events in declaration order.
func (d *Dispatcher[T]) Summary() []EventSummary {
	out := make([]EventSummary, 0, d.Len())
	for r := range d.Registries() {
		out = append(out, EventSummary{Name: r.RegistryID(), Handlers: r.Len()})
	}
	return out
}

// HandlerKeys lists the keys of an event's handlers in invocation order.
func (d *Dispatcher[T]) HandlerKeys(name string) ([]HandlerKey, error) {
	handlers, err := d.Handlers(name)
	if err != nil {
		return nil, err
	}
	keys := make([]HandlerKey, 0, len(handlers))
	for _, h := range handlers {
		keys = append(keys, HandlerKey{Registrant: h.Registrant(), Identifier: h.Identifier()})
	}
	return keys, nil
}
