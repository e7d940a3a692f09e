package borrowbook

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/core"
	"github.com/AntonStoeckl/library-lending/library/shell"
)

// CommandHandler runs the Query -> Unmarshal -> Decide -> Append workflow with retry.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	eventStore   shell.EventStore
	policy       Policy
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithLoanPeriodDays sets the number of days until a new loan is due.
func WithLoanPeriodDays(days int) Option {
	return func(h *CommandHandler) {
		h.policy.LoanPeriodDays = days
	}
}

// WithMaxConcurrentLoans sets how many open loans a user may have.
func WithMaxConcurrentLoans(limit int) Option {
	return func(h *CommandHandler) {
		h.policy.MaxConcurrentLoans = limit
	}
}

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with the default policy unless configured otherwise.
func NewCommandHandler(eventStore shell.EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		policy:     DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle borrows the book and returns the new open loan.
//
// Only concurrency conflicts are retried. A business rule violation is returned as is,
// and nothing is appended.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.LoanRecord, shell.HandlerResult, error) {
	var loan core.LoanRecord

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		borrowed, execErr := h.executeCommand(retryCtx, command)
		loan = borrowed

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return core.LoanRecord{}, shell.NewHandlerResult(retryMetrics), err
	}

	return loan, shell.NewHandlerResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.LoanRecord, error) {
	filter := BuildEventFilter(command.BookID, command.UserID)

	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return core.LoanRecord{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return core.LoanRecord{}, err
	}

	result := Decide(history, command, h.policy)
	if decisionErr := result.HasError(); decisionErr != nil {
		return core.LoanRecord{}, decisionErr
	}

	storableEvent, err := shell.StorableEventFrom(result.Event, shell.EventMetadataFor(ctx, uuid.New()))
	if err != nil {
		return core.LoanRecord{}, err
	}

	if err = h.eventStore.Append(ctx, filter, maxSequenceNumber, storableEvent); err != nil {
		return core.LoanRecord{}, err
	}

	loan, _ := core.ProjectLoanLedger(core.DomainEvents{result.Event}).Loan(command.LoanID.String())

	return loan, nil
}
