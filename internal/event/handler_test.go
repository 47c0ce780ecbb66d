package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rrss/pkg/domain-errors"
	"rrss/pkg/identifier"
)

func mustEvent[T any](t *testing.T, name string, data T) Event[T] {
	t.Helper()
	evt, err := NewEvent(name, data)
	require.NoError(t, err)
	return evt
}

func TestHandlerConstruction(t *testing.T) {
	noop := func(context.Context, Event[int]) error { return nil }

	t.Run("keys and string form", func(t *testing.T) {
		h, err := Sync("order.created", "svc.a", "h1", noop)
		require.NoError(t, err)
		assert.Equal(t, identifier.Identifier("order.created"), h.RegistryID())
		assert.Equal(t, identifier.Identifier("svc.a"), h.Registrant())
		assert.Equal(t, identifier.Identifier("h1"), h.Identifier())
		assert.Equal(t, "<EventHandler[order.created] reg=svc.a id=h1>", h.(interface{ String() string }).String())
	})

	t.Run("invalid fields", func(t *testing.T) {
		_, err := Sync("order.created", "svc.A", "h1", noop)
		require.ErrorIs(t, err, identifier.ErrInvalid)
		assert.Contains(t, err.Error(), "registrant")

		_, err = Async[int]("order created", "svc.a", "h1", func(context.Context, Event[int]) Future { return nil })
		require.ErrorIs(t, err, identifier.ErrInvalid)
	})

	t.Run("nil funcs", func(t *testing.T) {
		h, err := Sync[int]("order.created", "svc.a", "h1", nil)
		require.ErrorIs(t, err, ErrNilHandler)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Nil(t, h)

		_, err = Async[int]("order.created", "svc.a", "h1", nil)
		require.ErrorIs(t, err, ErrNilHandler)
	})
}

func TestHandlerInvoke(t *testing.T) {
	evt := mustEvent(t, "order.created", 3)

	t.Run("sync result", func(t *testing.T) {
		boom := errors.New("boom")
		h, err := Sync("order.created", "svc.a", "h1", func(context.Context, Event[int]) error { return boom })
		require.NoError(t, err)
		assert.ErrorIs(t, Await(h.Invoke(context.Background(), evt)), boom)
	})

	t.Run("sync runs off the caller goroutine", func(t *testing.T) {
		release := make(chan struct{})
		h, err := Sync("order.created", "svc.a", "h1", func(context.Context, Event[int]) error {
			<-release
			return nil
		})
		require.NoError(t, err)

		f := h.Invoke(context.Background(), evt)
		select {
		case <-f:
			t.Fatal("future resolved before the handler finished")
		default:
		}
		close(release)
		assert.NoError(t, Await(f))
	})

	t.Run("async waits on the returned future", func(t *testing.T) {
		h, err := Async("order.created", "svc.a", "h1", func(_ context.Context, e Event[int]) Future {
			ch := make(chan error, 1)
			go func() {
				time.Sleep(10 * time.Millisecond)
				ch <- errors.New("late")
			}()
			return ch
		})
		require.NoError(t, err)
		assert.EqualError(t, Await(h.Invoke(context.Background(), evt)), "late")
	})

	t.Run("async nil future succeeds", func(t *testing.T) {
		h, err := Async("order.created", "svc.a", "h1", func(context.Context, Event[int]) Future { return nil })
		require.NoError(t, err)
		assert.NoError(t, Await(h.Invoke(context.Background(), evt)))
	})

	t.Run("closed future succeeds", func(t *testing.T) {
		h, err := Async("order.created", "svc.a", "h1", func(context.Context, Event[int]) Future {
			ch := make(chan error)
			close(ch)
			return ch
		})
		require.NoError(t, err)
		assert.NoError(t, Await(h.Invoke(context.Background(), evt)))
	})

	t.Run("panic is recovered", func(t *testing.T) {
		h, err := Async("order.created", "svc.a", "h1", func(context.Context, Event[int]) Future {
			panic("kaboom")
		})
		require.NoError(t, err)

		err = Await(h.Invoke(context.Background(), evt))
		require.ErrorIs(t, err, ErrHandlerPanic)
		var pe *PanicError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "kaboom", pe.Value)
		assert.NotEmpty(t, pe.Stack)
	})

	t.Run("panic with error value unwraps", func(t *testing.T) {
		cause := errors.New("cause")
		h, err := Sync("order.created", "svc.a", "h1", func(context.Context, Event[int]) error { panic(cause) })
		require.NoError(t, err)

		err = Await(h.Invoke(context.Background(), evt))
		assert.ErrorIs(t, err, ErrHandlerPanic)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("timeout", func(t *testing.T) {
		h, err := Sync("order.created", "svc.a", "h1", func(ctx context.Context, _ Event[int]) error {
			<-ctx.Done()
			return ctx.Err()
		}, WithTimeout(10*time.Millisecond))
		require.NoError(t, err)

		err = Await(h.Invoke(context.Background(), evt))
		assert.ErrorIs(t, err, ErrHandlerTimeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("timeout not reached", func(t *testing.T) {
		h, err := Sync("order.created", "svc.a", "h1", func(context.Context, Event[int]) error { return nil },
			WithTimeout(time.Second))
		require.NoError(t, err)
		assert.NoError(t, Await(h.Invoke(context.Background(), evt)))
	})
}

func TestResolved(t *testing.T) {
	assert.NoError(t, Await(Resolved(nil)))
	assert.EqualError(t, Await(Resolved(errors.New("x"))), "x")
}
