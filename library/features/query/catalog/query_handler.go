package catalog

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

// Handle returns the whole catalog.
func (h QueryHandler) Handle(ctx context.Context, _ Query) (Catalog, error) {
	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, BuildEventFilter())
	if err != nil {
		return Catalog{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return Catalog{}, err
	}

	return ProjectCatalog(history, maxSequenceNumber), nil
}
