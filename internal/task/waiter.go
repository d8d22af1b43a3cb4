package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Static errors for waiter operations.
var (
	// ErrTaskIDRequired is returned when the task ID is not provided.
	ErrTaskIDRequired = errors.New("task: task ID is required")
	// ErrInvalidKind is returned when the kind is not a known generation flow.
	ErrInvalidKind = errors.New("task: invalid kind")
)

// StatusFetcher fetches the raw provider status for one task.
// Implementations must not retry on their own: a transport failure is
// reported as an error and aborts the wait.
type StatusFetcher interface {
	FetchStatus(ctx context.Context, kind Kind, taskID string) (RawStatus, error)
}

// PollPolicy controls how long and how often a waiter polls one task.
type PollPolicy struct {
	// MaxWait is the total time allowed before the wait gives up.
	MaxWait time.Duration
	// Interval is the sleep between consecutive polls.
	Interval time.Duration
}

// DefaultPolicy returns the polling policy for a kind. Music jobs usually
// land inside three minutes; video renders take longer and are polled
// less aggressively.
func DefaultPolicy(kind Kind) PollPolicy {
	if kind.IsMusic() {
		return PollPolicy{MaxWait: 180 * time.Second, Interval: 5 * time.Second}
	}
	return PollPolicy{MaxWait: 300 * time.Second, Interval: 10 * time.Second}
}

// Waiter drives a StatusFetcher on a fixed interval until the task reaches
// a terminal outcome or the policy's deadline elapses.
type Waiter struct {
	fetcher StatusFetcher
	logger  *slog.Logger
}

// NewWaiter creates a new Waiter.
func NewWaiter(fetcher StatusFetcher, logger *slog.Logger) *Waiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Waiter{fetcher: fetcher, logger: logger}
}

// Await polls the task until it reaches a terminal state.
//
// A succeeded or failed normalization returns immediately with that
// outcome and no further polls. A pending normalization sleeps for the
// policy interval and retries, unless the elapsed time has reached the
// policy's MaxWait, in which case the outcome is StateTimedOut.
//
// A fetch error aborts the wait immediately: a malformed or unreachable
// status call is a hard failure of the wait operation, distinct from a
// provider-reported job failure.
//
// Cancelling ctx stops polling with ctx's error and no outcome. The
// remote job may still be running; the caller can resume polling later
// with the same task ID.
func (w *Waiter) Await(ctx context.Context, kind Kind, taskID string, policy PollPolicy) (Outcome, error) {
	if taskID == "" {
		return Outcome{}, ErrTaskIDRequired
	}
	if !kind.IsValid() {
		return Outcome{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if policy.MaxWait <= 0 {
		policy.MaxWait = DefaultPolicy(kind).MaxWait
	}
	if policy.Interval <= 0 {
		policy.Interval = DefaultPolicy(kind).Interval
	}

	start := time.Now()
	for {
		raw, err := w.fetcher.FetchStatus(ctx, kind, taskID)
		if err != nil {
			return Outcome{}, fmt.Errorf("fetch status: %w", err)
		}

		outcome := Normalize(kind, raw)
		if outcome.IsTerminal() {
			w.logger.Info("task reached terminal state",
				slog.String("task_id", taskID),
				slog.String("kind", string(kind)),
				slog.String("state", string(outcome.State)),
				slog.Duration("waited", time.Since(start)),
			)
			return outcome, nil
		}

		if time.Since(start) >= policy.MaxWait {
			w.logger.Warn("task wait deadline elapsed",
				slog.String("task_id", taskID),
				slog.String("kind", string(kind)),
				slog.Duration("max_wait", policy.MaxWait),
			)
			return Outcome{State: StateTimedOut}, nil
		}

		w.logger.Debug("task still pending",
			slog.String("task_id", taskID),
			slog.String("raw_status", raw.Status),
		)

		select {
		case <-ctx.Done():
			return Outcome{}, fmt.Errorf("task: wait cancelled: %w", ctx.Err())
		case <-time.After(policy.Interval):
		}
	}
}
