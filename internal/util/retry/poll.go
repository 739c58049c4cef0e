package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is matched by every ExhaustedError.
var ErrExhausted = errors.New("attempts exhausted")

// ExhaustedError is returned by Poll when every attempt failed.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Is reports ErrExhausted as a match so callers need not use errors.As.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep is the default Sleeper.
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PollConfig holds fixed-interval polling configuration.
type PollConfig struct {
	MaxAttempts int
	Interval    time.Duration
	Sleep       Sleeper
	// OnFailure is called after every failed attempt, before sleeping.
	OnFailure func(attempt int, err error)
}

// PollOption is a functional option for Poll.
type PollOption func(*PollConfig)

// WithSleeper replaces the function used to wait between attempts.
func WithSleeper(s Sleeper) PollOption {
	return func(c *PollConfig) {
		c.Sleep = s
	}
}

// WithFailureHook registers a callback invoked after each failed attempt.
func WithFailureHook(fn func(attempt int, err error)) PollOption {
	return func(c *PollConfig) {
		c.OnFailure = fn
	}
}

// Poll runs operation up to maxAttempts times, sleeping interval between
// attempts. There is no backoff and no jitter. The attempt number passed to
// operation starts at 1.
//
// It returns the number of attempts made. When every attempt fails the error
// is an *ExhaustedError carrying the last failure. Fatal errors stop polling
// immediately.
func Poll(ctx context.Context, maxAttempts int, interval time.Duration, operation func(attempt int) error, opts ...PollOption) (int, error) {
	cfg := &PollConfig{
		MaxAttempts: maxAttempts,
		Interval:    interval,
		Sleep:       ContextSleep,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.MaxAttempts < 1 {
		return 0, fmt.Errorf("max attempts must be at least 1, got %d", cfg.MaxAttempts)
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := operation(attempt)
		if err == nil {
			return attempt, nil
		}
		lastErr = err

		if cfg.OnFailure != nil {
			cfg.OnFailure(attempt, err)
		}
		if IsFatal(err) {
			return attempt, err
		}

		if attempt < cfg.MaxAttempts {
			if err := cfg.Sleep(ctx, cfg.Interval); err != nil {
				return attempt, fmt.Errorf("polling interrupted after %d attempts: %w", attempt, err)
			}
		}
	}

	return cfg.MaxAttempts, &ExhaustedError{Attempts: cfg.MaxAttempts, Err: lastErr}
}
