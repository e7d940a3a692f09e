package catalog

import (
	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/core"
)

// ProjectCatalog is a pure function that returns all books with their derived status.
func ProjectCatalog(history core.DomainEvents, maxSequenceNumber uint) Catalog {
	books := core.ProjectLoanLedger(history).Books()

	available := 0
	for _, book := range books {
		if book.Status == core.BookStatusAvailable {
			available++
		}
	}

	return Catalog{
		Books:          books,
		Count:          len(books),
		AvailableCount: available,
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter creates the filter for the catalog and the events changing availability.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookBorrowedEventType,
			core.BookReturnedEventType,
		).
		Finalize()
}
