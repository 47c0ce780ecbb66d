package event

import (
	"errors"
	"fmt"

	"rrss/internal/registry"
	"rrss/pkg/identifier"
)

// Domain names for the registry failure kinds. Errors returned by the
// Dispatcher match both these and the generic registry sentinels.
var (
	ErrEventNotRegistered = errors.New("event not registered")
	ErrDuplicatedEvent    = errors.New("event already registered")
	ErrHandlerNotFound    = errors.New("handler not found")
	ErrDuplicatedHandler  = errors.New("handler already registered")
)

var (
	// ErrHandlerPanic is matched by every PanicError.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrHandlerTimeout wraps failures caused by a handler's own timeout.
	ErrHandlerTimeout = errors.New("handler timeout exceeded")

	ErrNilHandler = errors.New("handler func is nil")
)

// ErrorTable maps the registry kinds onto event names.
func ErrorTable() registry.ErrorTable {
	return registry.ErrorTable{
		RegistryNotFound: func() *registry.Error {
			return registry.NewError(registry.KindRegistryNotFound, "event_not_registered", ErrEventNotRegistered)
		},
		DuplicatedRegistry: func() *registry.Error {
			return registry.NewError(registry.KindDuplicatedRegistry, "duplicated_event", ErrDuplicatedEvent)
		},
		RegistryDataNotFound: func() *registry.Error {
			return registry.NewError(registry.KindRegistryDataNotFound, "handler_not_found", ErrHandlerNotFound)
		},
		DuplicatedRegistryData: func() *registry.Error {
			return registry.NewError(registry.KindDuplicatedRegistryData, "duplicated_handler", ErrDuplicatedHandler)
		},
	}
}

// HandlerError is returned by Emit for the first handler that failed.
type HandlerError struct {
	Event      identifier.Identifier
	Registrant identifier.Identifier
	Identifier identifier.Identifier
	Err        error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("event %s: handler %s/%s: %v", e.Event, e.Registrant, e.Identifier, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

func newHandlerError(d registry.Data, err error) *HandlerError {
	return &HandlerError{
		Event:      d.RegistryID(),
		Registrant: d.Registrant(),
		Identifier: d.Identifier(),
		Err:        err,
	}
}

// PanicError carries a recovered handler panic.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}

// Is makes every PanicError match ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
