package openloans_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending/library/features/command/addbook"
	"github.com/AntonStoeckl/library-lending/library/features/command/borrowbook"
	"github.com/AntonStoeckl/library-lending/library/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending/library/features/query/openloans"
)

type testHandlers struct {
	addBook    addbook.CommandHandler
	borrowBook borrowbook.CommandHandler
	returnBook returnbook.CommandHandler
	query      openloans.QueryHandler
}

func givenHandlers(t *testing.T) (testHandlers, *memengine.EventStore) {
	t.Helper()

	es, err := memengine.NewEventStore()
	require.NoError(t, err)

	return testHandlers{
		addBook:    addbook.NewCommandHandler(es),
		borrowBook: borrowbook.NewCommandHandler(es),
		returnBook: returnbook.NewCommandHandler(es),
		query:      openloans.NewQueryHandler(es),
	}, es
}

func givenBorrowedBook(t *testing.T, handlers testHandlers, userID uuid.UUID, borrowedAt time.Time) uuid.UUID {
	t.Helper()

	bookID, loanID := uuid.New(), uuid.New()

	_, _, err := handlers.addBook.Handle(t.Context(), addbook.BuildCommand(bookID, "Dune", "Frank Herbert", "", borrowedAt))
	require.NoError(t, err)

	_, _, err = handlers.borrowBook.Handle(t.Context(), borrowbook.BuildCommand(loanID, bookID, userID, borrowedAt))
	require.NoError(t, err)

	return loanID
}

func Test_QueryHandler_Handle_ReturnsOpenLoansSortedByBorrowedAt(t *testing.T) {
	// arrange
	handlers, es := givenHandlers(t)
	userID, otherUserID := uuid.New(), uuid.New()
	fakeClock := time.Unix(0, 0).UTC()

	newest := givenBorrowedBook(t, handlers, userID, fakeClock.Add(2*time.Hour))
	oldest := givenBorrowedBook(t, handlers, userID, fakeClock)
	returned := givenBorrowedBook(t, handlers, userID, fakeClock.Add(time.Hour))
	givenBorrowedBook(t, handlers, otherUserID, fakeClock)

	_, _, err := handlers.returnBook.Handle(t.Context(), returnbook.BuildCommand(returned, userID, fakeClock.Add(3*time.Hour)))
	require.NoError(t, err)

	// act
	result, err := handlers.query.Handle(t.Context(), openloans.BuildQuery(userID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, userID.String(), result.UserID)
	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Loans, 2)
	assert.Equal(t, oldest.String(), result.Loans[0].ID)
	assert.Equal(t, newest.String(), result.Loans[1].ID)
	assert.Equal(t, uint(es.Len()), result.GetSequenceNumber())
}

func Test_QueryHandler_Handle_ReturnsEmptyList_WhenUserHasNoLoans(t *testing.T) {
	// arrange
	handlers, _ := givenHandlers(t)

	// act
	result, err := handlers.query.Handle(t.Context(), openloans.BuildQuery(uuid.New()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Loans)
	assert.Equal(t, uint(0), result.GetSequenceNumber())
}
