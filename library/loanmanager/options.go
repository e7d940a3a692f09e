package loanmanager

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/library/shell"
)

var (
	// ErrInvalidOption is returned by NewManager when an option carries an unusable value.
	ErrInvalidOption = errors.New("invalid loan manager option")
)

// Option configures a Manager.
type Option func(*Manager) error

// WithClock replaces time.Now as the source of OccurredAt timestamps and of the overdue reference time.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) error {
		if clock == nil {
			return errors.Join(ErrInvalidOption, errors.New("clock must not be nil"))
		}

		m.clock = clock

		return nil
	}
}

// WithIDGenerator replaces uuid.New for new book and loan IDs.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(m *Manager) error {
		if newID == nil {
			return errors.Join(ErrInvalidOption, errors.New("id generator must not be nil"))
		}

		m.newID = newID

		return nil
	}
}

// WithLoanPeriodDays sets the number of days until a new loan is due.
func WithLoanPeriodDays(days int) Option {
	return func(m *Manager) error {
		if days <= 0 {
			return errors.Join(ErrInvalidOption, errors.New("loan period days must be positive"))
		}

		m.loanPeriodDays = days

		return nil
	}
}

// WithMaxConcurrentLoans sets how many open loans a user may have at a time.
func WithMaxConcurrentLoans(limit int) Option {
	return func(m *Manager) error {
		if limit <= 0 {
			return errors.Join(ErrInvalidOption, errors.New("max concurrent loans must be positive"))
		}

		m.maxConcurrentLoans = limit

		return nil
	}
}

// WithRetryOptions configures the retry of concurrency conflicts in all command handlers.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(m *Manager) error {
		m.retryOptions = opts
		return nil
	}
}

// WithLogger sets the logger of the command and query wrappers.
func WithLogger(logger shell.Logger) Option {
	return func(m *Manager) error {
		m.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger of the command and query wrappers.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(m *Manager) error {
		m.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector of the command and query wrappers.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(m *Manager) error {
		m.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector of the command and query wrappers.
func WithTracing(collector shell.TracingCollector) Option {
	return func(m *Manager) error {
		m.tracingCollector = collector
		return nil
	}
}
