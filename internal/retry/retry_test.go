// internal/retry/retry_test.go
package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	policy := Policy{MaxAttempts: 3, Backoff: time.Millisecond}
	calls := 0
	err := policy.Do(context.Background(), "test call", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	t.Parallel()

	policy := Policy{MaxAttempts: 2, Backoff: time.Millisecond}
	terminal := errors.New("rate limited")
	calls := 0
	err := policy.Do(context.Background(), "test call", func(ctx context.Context) error {
		calls++
		return terminal
	})
	if err == nil {
		t.Fatal("expected terminal error")
	}
	if !errors.Is(err, terminal) {
		t.Fatalf("error should wrap the last failure, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestDoStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	policy := Policy{MaxAttempts: 5, Backoff: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- policy.Do(ctx, "test call", func(ctx context.Context) error {
			calls++
			return errors.New("always fails")
		})
	}()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	if calls > 1 {
		t.Fatalf("expected at most 1 call before cancellation, got %d", calls)
	}
}

func TestDoTreatsZeroAttemptsAsOne(t *testing.T) {
	t.Parallel()

	policy := Policy{}
	calls := 0
	_ = policy.Do(context.Background(), "test call", func(ctx context.Context) error {
		calls++
		return errors.New("fail")
	})
	if calls != 1 {
		t.Fatalf("expected exactly 1 call, got %d", calls)
	}
}
