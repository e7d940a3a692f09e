package addbook

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/core"
)

// Decide determines whether the book can be added to the catalog.
//
//	GIVEN: a book with BookID
//	WHEN: AddBook is received
//	THEN: BookAddedToCatalog is generated
//	ERROR: core.ErrInvalidInput if the title is empty
//	ERROR: core.ErrInvalidInput if the book is already in the catalog
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if command.Title == "" {
		return core.ErrorDecision(fmt.Errorf("%s: title must not be empty: %w", commandType, core.ErrInvalidInput))
	}

	ledger := core.ProjectLoanLedger(history)

	if _, exists := ledger.Book(command.BookID.String()); exists {
		return core.ErrorDecision(
			fmt.Errorf("%s: book %s is already in the catalog: %w", commandType, command.BookID, core.ErrInvalidInput),
		)
	}

	return core.SuccessDecision(
		core.BuildBookAddedToCatalog(
			command.BookID,
			command.Title,
			command.Author,
			command.Genre,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter creates the filter for all events this use case decides on.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("BookID", bookID.String()),
		).
		Finalize()
}
