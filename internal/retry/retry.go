// internal/retry/retry.go
// Package retry implements the bounded retry policy shared by the responder
// and grader call sites. The schedule is linear: attempt n waits n*base
// before retrying.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/livemedbench/medbench/internal/logging"
)

// Policy describes a bounded retry schedule.
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// Do invokes fn up to MaxAttempts times, sleeping between attempts. The
// context is honored both between attempts and by fn itself; a cancelled
// context ends the loop immediately. The last error is returned once the
// attempts are exhausted.
func (p Policy) Do(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt < attempts-1 {
			wait := time.Duration(attempt+1) * p.Backoff
			logging.LogEvent("%s failed, retrying in %s... Error: %v", label, wait, lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", label, attempts, lastErr)
}
