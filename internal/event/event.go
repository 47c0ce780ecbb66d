package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"rrss/pkg/identifier"
)

// Event is a single emission. Build it with NewEvent; the zero value is not
// routable.
type Event[T any] struct {
	ID        uuid.UUID
	Sender    *identifier.Identifier
	Name      identifier.Identifier
	Data      T
	CreatedAt time.Time
}

type eventConfig struct {
	sender string
	now    func() time.Time
}

// EventOption configures NewEvent.
type EventOption func(*eventConfig)

// WithSender records which component emitted the event.
func WithSender(sender string) EventOption {
	return func(c *eventConfig) {
		c.sender = sender
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) EventOption {
	return func(c *eventConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// NewEvent validates name and the optional sender and stamps a fresh ID.
func NewEvent[T any](name string, data T, opts ...EventOption) (Event[T], error) {
	cfg := eventConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	n, err := identifier.Parse(name)
	if err != nil {
		return Event[T]{}, fmt.Errorf("event name: %w", err)
	}
	sender, err := identifier.ParseOptional(cfg.sender)
	if err != nil {
		return Event[T]{}, fmt.Errorf("event sender: %w", err)
	}

	return Event[T]{
		ID:        uuid.New(),
		Sender:    sender,
		Name:      n,
		Data:      data,
		CreatedAt: cfg.now(),
	}, nil
}

func (e Event[T]) String() string {
	if e.Sender == nil {
		return fmt.Sprintf("<Event[%s] id=%s>", e.Name, e.ID)
	}
	return fmt.Sprintf("<Event[%s] id=%s sender=%s>", e.Name, e.ID, *e.Sender)
}
