package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// BackoffConfig holds exponential backoff configuration. The delay doubles
// after every failed attempt and is capped at MaxDelay.
type BackoffConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Sleep        Sleeper
}

// BackoffOption is a functional option for Backoff.
type BackoffOption func(*BackoffConfig)

// WithMaxRetries sets how many times a failed attempt is retried.
func WithMaxRetries(n int) BackoffOption {
	return func(c *BackoffConfig) {
		c.MaxRetries = n
	}
}

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) BackoffOption {
	return func(c *BackoffConfig) {
		c.InitialDelay = d
	}
}

// WithMaxDelay caps the delay between retries.
func WithMaxDelay(d time.Duration) BackoffOption {
	return func(c *BackoffConfig) {
		c.MaxDelay = d
	}
}

// WithBackoffSleeper replaces the function used to wait between retries.
func WithBackoffSleeper(s Sleeper) BackoffOption {
	return func(c *BackoffConfig) {
		c.Sleep = s
	}
}

// Backoff runs operation until it succeeds, returns a Fatal error, or
// MaxRetries retries have failed. The attempt number passed to operation
// starts at 1.
//
// A Fatal error is returned as is. Exhaustion yields an *ExhaustedError and
// cancellation the context's error; Cause recovers the operation's own error.
func Backoff(ctx context.Context, operation func(attempt int) error, opts ...BackoffOption) error {
	cfg := &BackoffConfig{
		MaxRetries:   5,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Sleep:        ContextSleep,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	delay := cfg.InitialDelay
	attempts := cfg.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		err := operation(attempt)
		if err == nil {
			return nil
		}
		if IsFatal(err) {
			return err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		if err := cfg.Sleep(ctx, delay); err != nil {
			return fmt.Errorf("retry interrupted after %d attempts: %w", attempt, err)
		}
		delay = min(delay*2, cfg.MaxDelay)
	}

	return &ExhaustedError{Attempts: attempts, Err: lastErr}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}

// Cause strips the FatalError marker and the ExhaustedError wrapper,
// returning the error the operation originally produced.
func Cause(err error) error {
	var fatalErr *FatalError
	if errors.As(err, &fatalErr) {
		return fatalErr.Err
	}
	var exhausted *ExhaustedError
	if errors.As(err, &exhausted) {
		return exhausted.Err
	}
	return err
}
