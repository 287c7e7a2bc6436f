// Package async runs submitted work off the caller's goroutine and hands back
// a one-shot [Handle] that resolves with the work's value or error.
//
//	e := async.NewExecutor(4, slog.Default())
//	h := async.Submit(e, ctx, func(ctx context.Context) (int, error) {
//		return compute(ctx)
//	})
//	// ... do other work ...
//	v, err := h.Await()
//
// Submit never blocks. Outstanding handles run concurrently with no ordering
// guarantee between them. There are no retries and no implicit timeouts;
// bound the work with the submitted context or [Handle.Cancel].
package async

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ErrExecutorShutdown resolves work submitted after Shutdown, or queued work
// that had not started when Shutdown was called.
var ErrExecutorShutdown = errors.New("executor shut down")

// WorkFunc is the signature for async work.
type WorkFunc[T any] func(ctx context.Context) (T, error)

// PanicError resolves a handle whose work panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("async: work panicked: %v", e.Value)
}

type idKey struct{}

// HandleID returns the id of the handle whose work is running under ctx.
func HandleID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(idKey{}).(uuid.UUID)
	return id, ok
}

// Executor dispatches work to goroutines with an optional concurrency limit.
// It is safe for concurrent use.
type Executor struct {
	mu       sync.Mutex // orders wg.Add against Shutdown
	wg       sync.WaitGroup
	sem      chan struct{}
	shutdown atomic.Bool
	logger   *slog.Logger
}

// NewExecutor creates an Executor. If maxConcurrent <= 0, concurrency is
// unlimited. Work over the limit waits for a slot or for its context to end.
func NewExecutor(maxConcurrent int, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Executor{logger: logger}
	if maxConcurrent > 0 {
		e.sem = make(chan struct{}, maxConcurrent)
	}
	return e
}

// Wait blocks until all submitted work has resolved. Call it after Shutdown
// when submissions may still be racing in.
func (e *Executor) Wait() {
	e.wg.Wait()
}

// Shutdown prevents new work from executing. In-flight work is unaffected.
// Once Shutdown returns no further work is admitted.
func (e *Executor) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdown.Store(true)
}

// admit registers one unit of work unless the executor is shut down.
func (e *Executor) admit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shutdown.Load() {
		return false
	}
	e.wg.Add(1)
	return true
}

// Submit launches fn on a new goroutine and returns its Handle immediately.
// fn runs under a child of ctx that Handle.Cancel cancels.
func Submit[T any](e *Executor, ctx context.Context, fn WorkFunc[T]) *Handle[T] {
	if !e.admit() {
		return Failed[T](ErrExecutorShutdown)
	}

	ctx, cancel := context.WithCancel(ctx)
	h := newHandle[T](cancel)
	ctx = context.WithValue(ctx, idKey{}, h.id)

	go func() {
		defer func() {
			cancel()
			e.wg.Done()
		}()

		val, err := execute(ctx, e, fn)
		if err != nil {
			e.logger.Debug("async work failed", "id", h.id, "error", err)
		}
		h.resolve(val, err)
	}()

	return h
}

func execute[T any](ctx context.Context, e *Executor, fn WorkFunc[T]) (val T, err error) {
	if e.sem != nil {
		select {
		case e.sem <- struct{}{}:
			defer func() {
				<-e.sem
			}()
		case <-ctx.Done():
			return val, ctx.Err()
		}
	}

	if e.shutdown.Load() {
		return val, ErrExecutorShutdown
	}
	// A free slot and a done ctx can be ready together; select picks either.
	if err := ctx.Err(); err != nil {
		return val, err
	}

	defer func() {
		if r := recover(); r != nil {
			var zero T
			val = zero
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	return fn(ctx)
}
