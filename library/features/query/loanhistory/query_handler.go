package loanhistory

import (
	"context"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/shell"
)

// QueryHandler runs the Query -> Unmarshal -> Project workflow.
// External wrappers handle all observability concerns.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns all loans of the queried user.
func (h QueryHandler) Handle(ctx context.Context, query Query) (LoanHistory, error) {
	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, BuildEventFilter(query.UserID))
	if err != nil {
		return LoanHistory{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return LoanHistory{}, err
	}

	return ProjectLoanHistory(history, query, maxSequenceNumber), nil
}
