// Package fanout provides the structured fan-out/join combinator used by event
// emission: start N tasks, wait for all of them, surface the first failure and
// cancel the siblings.
package fanout

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// PanicError is returned in place of a task that panicked.
type PanicError struct {
	Index int
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %d panicked: %v", e.Index, e.Value)
}

// Run starts n tasks in index order on a shared group and blocks until every
// task has returned. The context handed to the tasks is cancelled as soon as
// one task fails; that first error is returned. Tasks that already finished are
// not affected.
func Run(ctx context.Context, n int, task func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &PanicError{Index: i, Value: r, Stack: debug.Stack()}
				}
			}()
			return task(gctx, i)
		})
	}

	// Wait for all goroutines with early cancellation on first failure
	return g.Wait()
}
