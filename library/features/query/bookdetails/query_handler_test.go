package bookdetails_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending/library/core"
	"github.com/AntonStoeckl/library-lending/library/features/command/addbook"
	"github.com/AntonStoeckl/library-lending/library/features/command/borrowbook"
	"github.com/AntonStoeckl/library-lending/library/features/command/rateloan"
	"github.com/AntonStoeckl/library-lending/library/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending/library/features/query/bookdetails"
)

func givenBook(t *testing.T, es *memengine.EventStore) uuid.UUID {
	t.Helper()

	bookID := uuid.New()
	_, _, err := addbook.NewCommandHandler(es).
		Handle(t.Context(), addbook.BuildCommand(bookID, "Dune", "Frank Herbert", "Science Fiction", time.Unix(0, 0).UTC()))
	require.NoError(t, err)

	return bookID
}

func givenRatedLoan(t *testing.T, es *memengine.EventStore, bookID uuid.UUID, rating int) {
	t.Helper()

	loanID, userID := uuid.New(), uuid.New()
	fakeClock := time.Unix(0, 0).UTC()

	_, _, err := borrowbook.NewCommandHandler(es).Handle(t.Context(), borrowbook.BuildCommand(loanID, bookID, userID, fakeClock))
	require.NoError(t, err)

	_, _, err = returnbook.NewCommandHandler(es).Handle(t.Context(), returnbook.BuildCommand(loanID, userID, fakeClock))
	require.NoError(t, err)

	_, _, err = rateloan.NewCommandHandler(es).Handle(t.Context(), rateloan.BuildCommand(loanID, userID, rating, fakeClock))
	require.NoError(t, err)
}

func givenEventStore(t *testing.T) *memengine.EventStore {
	t.Helper()

	es, err := memengine.NewEventStore()
	require.NoError(t, err)

	return es
}

func Test_QueryHandler_Handle_ReturnsAvailableBookWithoutRating(t *testing.T) {
	// arrange
	es := givenEventStore(t)
	bookID := givenBook(t, es)

	// act
	result, err := bookdetails.NewQueryHandler(es).Handle(t.Context(), bookdetails.BuildQuery(bookID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, bookID.String(), result.Book.ID)
	assert.Equal(t, "Science Fiction", result.Book.Genre)
	assert.Equal(t, core.BookStatusAvailable, result.Book.Status)
	assert.Nil(t, result.AverageRating)
	assert.Equal(t, 0, result.RatingCount)
}

func Test_QueryHandler_Handle_ReturnsBorrowedStatus_WhileLoanIsOpen(t *testing.T) {
	// arrange
	es := givenEventStore(t)
	bookID := givenBook(t, es)
	_, _, err := borrowbook.NewCommandHandler(es).
		Handle(t.Context(), borrowbook.BuildCommand(uuid.New(), bookID, uuid.New(), time.Unix(0, 0).UTC()))
	require.NoError(t, err)

	// act
	result, err := bookdetails.NewQueryHandler(es).Handle(t.Context(), bookdetails.BuildQuery(bookID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.BookStatusBorrowed, result.Book.Status)
}

func Test_QueryHandler_Handle_ReturnsAverageOfAllRatings(t *testing.T) {
	// arrange
	es := givenEventStore(t)
	bookID := givenBook(t, es)
	givenRatedLoan(t, es, bookID, 5)
	givenRatedLoan(t, es, bookID, 4)
	givenRatedLoan(t, es, bookID, 2)

	// act
	result, err := bookdetails.NewQueryHandler(es).Handle(t.Context(), bookdetails.BuildQuery(bookID))

	// assert
	require.NoError(t, err)
	require.NotNil(t, result.AverageRating)
	assert.InDelta(t, 11.0/3.0, *result.AverageRating, 1e-9)
	assert.Equal(t, 3, result.RatingCount)
	assert.Equal(t, core.BookStatusAvailable, result.Book.Status)
}

func Test_QueryHandler_Handle_Fails_WhenBookIsUnknown(t *testing.T) {
	// arrange
	es := givenEventStore(t)

	// act
	_, err := bookdetails.NewQueryHandler(es).Handle(t.Context(), bookdetails.BuildQuery(uuid.New()))

	// assert
	assert.ErrorIs(t, err, core.ErrNotFound)
}
