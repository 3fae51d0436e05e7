package submit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"
)

// RowStore appends one ordered row of scalar values. Implementations are
// the sqlite archive and the external sheet client.
type RowStore interface {
	AppendRow(ctx context.Context, values []any) error
}

// ErrNotConfigured means no destination is configured; submission is
// disabled, not broken.
var ErrNotConfigured = errors.New("submission store not configured")

// PersistenceError wraps the final attempt's cause after the retry budget
// is exhausted.
type PersistenceError struct {
	Attempts int
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("row append failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Options tune the retry loop. Zero values take the defaults: 3 attempts,
// 1s base backoff (doubling), 10s per-attempt timeout.
type Options struct {
	Attempts       int
	BaseBackoff    time.Duration
	AttemptTimeout time.Duration
	Sleep          func(ctx context.Context, d time.Duration) error
	Logger         *log.Logger
}

// Submitter writes records to a RowStore with bounded retry.
type Submitter struct {
	store          RowStore
	attempts       int
	baseBackoff    time.Duration
	attemptTimeout time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
	logger         *log.Logger
}

func New(store RowStore, opts Options) *Submitter {
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 1 * time.Second
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = 10 * time.Second
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "aiready ", log.LstdFlags)
	}
	return &Submitter{
		store:          store,
		attempts:       opts.Attempts,
		baseBackoff:    opts.BaseBackoff,
		attemptTimeout: opts.AttemptTimeout,
		sleep:          opts.Sleep,
		logger:         opts.Logger,
	}
}

// Submit appends the record, retrying transient failures with a doubling
// backoff. Non-final failures are swallowed and retried; the final
// failure comes back wrapped in PersistenceError. A per-attempt timeout
// keeps a hung append from blocking the session; timeouts count as
// retryable failures. Cancellation of ctx is honored between attempts.
func (s *Submitter) Submit(ctx context.Context, rec Record) error {
	if s.store == nil {
		return ErrNotConfigured
	}
	values := rec.Values()
	backoff := s.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
		err := s.store.AppendRow(attemptCtx, values)
		cancel()
		if err == nil {
			if attempt > 1 {
				s.logger.Printf("row append succeeded attempt=%d client=%s", attempt, rec.ClientID)
			}
			return nil
		}
		lastErr = err
		s.logger.Printf("row append failed attempt=%d client=%s err=%v", attempt, rec.ClientID, err)
		if attempt == s.attempts {
			break
		}
		if serr := s.sleep(ctx, backoff); serr != nil {
			return fmt.Errorf("submission canceled: %w", serr)
		}
		backoff *= 2
	}
	s.logger.Printf("row append exhausted retries attempts=%d client=%s", s.attempts, rec.ClientID)
	return &PersistenceError{Attempts: s.attempts, Err: lastErr}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
