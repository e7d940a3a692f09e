package bookdetails

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

// Handle returns the queried book or an error wrapping core.ErrNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BookDetails, error) {
	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, BuildEventFilter(query.BookID))
	if err != nil {
		return BookDetails{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return BookDetails{}, err
	}

	return ProjectBookDetails(history, query, maxSequenceNumber)
}
