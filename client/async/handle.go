package async

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Handle is a one-shot result cell for work running on another goroutine.
// It moves from pending to exactly one terminal state: a value or an error.
type Handle[T any] struct {
	id       uuid.UUID
	done     chan struct{}
	resolved atomic.Bool
	cancel   context.CancelFunc

	// val and err are written once before done is closed.
	val T
	err error
}

func newHandle[T any](cancel context.CancelFunc) *Handle[T] {
	if cancel == nil {
		cancel = func() {}
	}
	return &Handle[T]{
		id:     uuid.New(),
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// Failed returns a handle already resolved with err.
func Failed[T any](err error) *Handle[T] {
	h := newHandle[T](nil)
	var zero T
	h.resolve(zero, err)
	return h
}

// ID identifies the submission, e.g. in logs and request headers.
func (h *Handle[T]) ID() uuid.UUID { return h.id }

// Done returns a channel that is closed once the handle is resolved.
func (h *Handle[T]) Done() <-chan struct{} { return h.done }

// Await blocks until the handle is resolved and returns its outcome.
// When the error is non-nil the value is the zero value of T.
func (h *Handle[T]) Await() (T, error) {
	<-h.done
	return h.val, h.err
}

// AwaitContext is Await bounded by ctx. Giving up on the wait does not
// cancel the work; use Cancel for that.
func (h *Handle[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.val, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Err blocks until the handle is resolved and returns its error.
func (h *Handle[T]) Err() error {
	<-h.done
	return h.err
}

// Cancel cancels the context the work runs under. The handle still
// resolves, typically with context.Canceled. Cancelling a resolved handle is
// a no-op.
func (h *Handle[T]) Cancel() {
	h.cancel()
}

// resolve sets the terminal state. A second call is a programming error and
// panics.
func (h *Handle[T]) resolve(val T, err error) {
	if !h.resolved.CompareAndSwap(false, true) {
		panic(fmt.Sprintf("async: handle %s resolved twice", h.id))
	}

	if err != nil {
		var zero T
		val = zero
	}
	h.val = val
	h.err = err
	close(h.done)
}
