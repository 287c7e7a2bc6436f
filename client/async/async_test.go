package async

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestExecutor(maxConcurrent int) *Executor {
	return NewExecutor(maxConcurrent, slog.New(slog.DiscardHandler))
}

func TestHandle_AwaitValue(t *testing.T) {
	e := newTestExecutor(0)

	h := Submit(e, t.Context(), func(ctx context.Context) (int, error) {
		return 42, nil
	})

	v, err := h.Await()
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}
	if v != 42 {
		t.Errorf("exp 42, got %d", v)
	}
}

func TestHandle_AwaitError(t *testing.T) {
	wantErr := errors.New("boom")
	e := newTestExecutor(0)

	h := Submit(e, t.Context(), func(ctx context.Context) (string, error) {
		return "ignored", wantErr
	})

	v, err := h.Await()
	if !errors.Is(err, wantErr) {
		t.Errorf("exp %v, got %v", wantErr, err)
	}
	if v != "" {
		t.Errorf("exp zero value alongside error, got %q", v)
	}
	if err := h.Err(); !errors.Is(err, wantErr) {
		t.Errorf("Err: exp %v, got %v", wantErr, err)
	}
}

func TestSubmit_DoesNotBlock(t *testing.T) {
	e := newTestExecutor(0)
	release := make(chan struct{})

	start := time.Now()
	h := Submit(e, t.Context(), func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Submit blocked for %v", elapsed)
	}

	select {
	case <-h.Done():
		t.Fatal("handle resolved before work finished")
	default:
	}

	close(release)
	if _, err := h.Await(); err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}
}

func TestHandle_RunsOnSeparateGoroutine(t *testing.T) {
	e := newTestExecutor(0)
	var mu sync.Mutex
	mu.Lock()

	// If fn ran on the caller's goroutine this would deadlock.
	h := Submit(e, t.Context(), func(ctx context.Context) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		return true, nil
	})
	mu.Unlock()

	if v, err := h.Await(); err != nil || !v {
		t.Fatalf("exp true, got %v, %v", v, err)
	}
}

func TestHandle_ResolveTwicePanics(t *testing.T) {
	h := newHandle[int](nil)
	h.resolve(1, nil)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("exp panic on second resolve")
		}
		if v, err := h.Await(); v != 1 || err != nil {
			t.Errorf("first resolution changed: %v, %v", v, err)
		}
	}()

	h.resolve(2, nil)
}

func TestHandle_AwaitContext(t *testing.T) {
	e := newTestExecutor(0)
	release := make(chan struct{})
	defer close(release)

	h := Submit(e, t.Context(), func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	if _, err := h.AwaitContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("exp deadline exceeded, got: %v", err)
	}
}

func TestHandle_Cancel(t *testing.T) {
	e := newTestExecutor(0)
	started := make(chan struct{})

	h := Submit(e, t.Context(), func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	})

	<-started
	h.Cancel()

	if err := h.Err(); !errors.Is(err, context.Canceled) {
		t.Errorf("exp context.Canceled, got: %v", err)
	}

	// Cancelling a resolved handle is a no-op.
	h.Cancel()
}

func TestHandle_ID(t *testing.T) {
	e := newTestExecutor(0)
	fn := func(ctx context.Context) (int, error) { return 0, nil }

	a := Submit(e, t.Context(), fn)
	b := Submit(e, t.Context(), fn)
	e.Wait()

	if a.ID() == b.ID() {
		t.Error("exp distinct handle ids")
	}
}

func TestSubmit_PanicResolvesHandle(t *testing.T) {
	e := newTestExecutor(0)

	h := Submit(e, t.Context(), func(ctx context.Context) (int, error) {
		panic("kaboom")
	})

	_, err := h.Await()

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("exp *PanicError, got %T: %v", err, err)
	}
	if pe.Value != "kaboom" {
		t.Errorf("exp panic value kaboom, got %v", pe.Value)
	}
	if len(pe.Stack) == 0 {
		t.Error("exp stack trace")
	}
}

func TestExecutor_Shutdown(t *testing.T) {
	e := newTestExecutor(0)
	e.Shutdown()

	var ran atomic.Bool
	h := Submit(e, t.Context(), func(ctx context.Context) (int, error) {
		ran.Store(true)
		return 1, nil
	})

	if err := h.Err(); !errors.Is(err, ErrExecutorShutdown) {
		t.Errorf("exp ErrExecutorShutdown, got: %v", err)
	}
	if ran.Load() {
		t.Error("work ran after shutdown")
	}
}

func TestExecutor_ShutdownSkipsQueued(t *testing.T) {
	e := newTestExecutor(1)
	release := make(chan struct{})
	started := make(chan struct{})

	first := Submit(e, t.Context(), func(ctx context.Context) (int, error) {
		close(started)
		<-release
		return 1, nil
	})
	<-started

	var ran atomic.Bool
	queued := Submit(e, t.Context(), func(ctx context.Context) (int, error) {
		ran.Store(true)
		return 2, nil
	})

	e.Shutdown()
	close(release)

	if v, err := first.Await(); err != nil || v != 1 {
		t.Errorf("in-flight work: exp 1, got %v, %v", v, err)
	}
	if err := queued.Err(); !errors.Is(err, ErrExecutorShutdown) {
		t.Errorf("queued work: exp ErrExecutorShutdown, got: %v", err)
	}
	if ran.Load() {
		t.Error("queued work ran after shutdown")
	}
}

func TestExecutor_ConcurrencyLimit(t *testing.T) {
	const limit = 3
	e := newTestExecutor(limit)

	var active, peak atomic.Int32
	handles := make([]*Handle[int], 20)
	for i := range handles {
		handles[i] = Submit(e, t.Context(), func(ctx context.Context) (int, error) {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
			return i, nil
		})
	}

	e.Wait()

	if p := peak.Load(); p > limit {
		t.Errorf("exp at most %d concurrent, got %d", limit, p)
	}
	for i, h := range handles {
		if v, err := h.Await(); err != nil || v != i {
			t.Errorf("handle %d: got %v, %v", i, v, err)
		}
	}
}

func TestExecutor_QueuedContextCancelled(t *testing.T) {
	e := newTestExecutor(1)
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	Submit(e, t.Context(), func(ctx context.Context) (int, error) {
		close(started)
		<-release
		return 0, nil
	})
	<-started

	ctx, cancel := context.WithCancel(t.Context())
	queued := Submit(e, ctx, func(ctx context.Context) (int, error) {
		return 1, nil
	})
	cancel()

	if err := queued.Err(); !errors.Is(err, context.Canceled) {
		t.Errorf("exp context.Canceled, got: %v", err)
	}
}

func TestExecutor_CancelledContextSkipsWork(t *testing.T) {
	testCases := []struct {
		name  string
		limit int
	}{
		{name: "unlimited", limit: 0},
		{name: "limited", limit: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestExecutor(tc.limit)

			ctx, cancel := context.WithCancel(t.Context())
			cancel()

			var ran atomic.Int32
			for range 200 {
				h := Submit(e, ctx, func(ctx context.Context) (int, error) {
					ran.Add(1)
					return 1, nil
				})
				if err := h.Err(); !errors.Is(err, context.Canceled) {
					t.Fatalf("exp context.Canceled, got: %v", err)
				}
			}

			if n := ran.Load(); n != 0 {
				t.Errorf("work ran %d times under a cancelled context", n)
			}
		})
	}
}

// Shutdown followed by Wait must not race with concurrent submissions; run
// with -race.
func TestExecutor_ShutdownConcurrentSubmit(t *testing.T) {
	for range 50 {
		e := newTestExecutor(0)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 20 {
				h := Submit(e, t.Context(), func(ctx context.Context) (int, error) {
					return 1, nil
				})
				if err := h.Err(); err != nil && !errors.Is(err, ErrExecutorShutdown) {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}()
		go func() {
			defer wg.Done()
			e.Shutdown()
			e.Wait()
		}()
		wg.Wait()

		h := Submit(e, t.Context(), func(ctx context.Context) (int, error) {
			return 1, nil
		})
		if err := h.Err(); !errors.Is(err, ErrExecutorShutdown) {
			t.Errorf("exp ErrExecutorShutdown after shutdown, got: %v", err)
		}
	}
}

// Every handle resolves exactly once with either its value or its error,
// even when many are submitted concurrently.
func TestExecutor_ResolutionExclusivity(t *testing.T) {
	e := newTestExecutor(8)
	const n = 200

	var wg sync.WaitGroup
	handles := make([]*Handle[int], n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handles[i] = Submit(e, t.Context(), func(ctx context.Context) (int, error) {
				if i%3 == 0 {
					return i, fmt.Errorf("fail %d", i)
				}
				return i, nil
			})
		}()
	}
	wg.Wait()
	e.Wait()

	for i, h := range handles {
		v, err := h.Await()
		switch {
		case i%3 == 0:
			if err == nil || v != 0 {
				t.Errorf("handle %d: exp error only, got %v, %v", i, v, err)
			}
		default:
			if err != nil || v != i {
				t.Errorf("handle %d: exp value only, got %v, %v", i, v, err)
			}
		}
	}
}

func TestAwaitAll(t *testing.T) {
	e := newTestExecutor(0)

	var handles []*Handle[string]
	for _, s := range []string{"a", "b", "c"} {
		handles = append(handles, Submit(e, t.Context(), func(ctx context.Context) (string, error) {
			return s, nil
		}))
	}

	got, err := AwaitAll(t.Context(), handles...)
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("unexpected values %v", got)
	}
}

func TestAwaitAll_FirstError(t *testing.T) {
	wantErr := errors.New("bad")
	e := newTestExecutor(0)
	release := make(chan struct{})
	defer close(release)

	slow := Submit(e, t.Context(), func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})
	bad := Failed[int](wantErr)

	got, err := AwaitAll(t.Context(), slow, bad)
	if !errors.Is(err, wantErr) {
		t.Errorf("exp %v, got %v", wantErr, err)
	}
	if got != nil {
		t.Errorf("exp nil values, got %v", got)
	}
}

func TestHandleID(t *testing.T) {
	e := newTestExecutor(0)

	h := Submit(e, t.Context(), func(ctx context.Context) (string, error) {
		id, ok := HandleID(ctx)
		if !ok {
			return "", errors.New("no handle id in context")
		}
		return id.String(), nil
	})

	got, err := h.Await()
	if err != nil {
		t.Fatal(err)
	}
	if got != h.ID().String() {
		t.Errorf("exp %s, got %s", h.ID(), got)
	}

	if _, ok := HandleID(t.Context()); ok {
		t.Error("exp no id outside submitted work")
	}
}
