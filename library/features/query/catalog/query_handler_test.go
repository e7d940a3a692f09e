package catalog_test

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
	"github.com/AntonStoeckl/library-lending/library/features/query/catalog"
)

func Test_QueryHandler_Handle_ListsBooksInCatalogOrderWithStatus(t *testing.T) {
	// arrange
	es, err := memengine.NewEventStore()
	require.NoError(t, err)

	fakeClock := time.Unix(0, 0).UTC()
	addBook := addbook.NewCommandHandler(es)
	dune, neuromancer := uuid.New(), uuid.New()

	_, _, err = addBook.Handle(t.Context(), addbook.BuildCommand(dune, "Dune", "Frank Herbert", "", fakeClock))
	require.NoError(t, err)
	_, _, err = addBook.Handle(t.Context(), addbook.BuildCommand(neuromancer, "Neuromancer", "William Gibson", "", fakeClock))
	require.NoError(t, err)
	_, _, err = borrowbook.NewCommandHandler(es).
		Handle(t.Context(), borrowbook.BuildCommand(uuid.New(), neuromancer, uuid.New(), fakeClock))
	require.NoError(t, err)

	// act
	result, err := catalog.NewQueryHandler(es).Handle(t.Context(), catalog.BuildQuery())

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 1, result.AvailableCount)
	assert.Equal(t, uint(3), result.GetSequenceNumber())
	require.Len(t, result.Books, 2)
	assert.Equal(t, dune.String(), result.Books[0].ID)
	assert.Equal(t, core.BookStatusAvailable, result.Books[0].Status)
	assert.Equal(t, neuromancer.String(), result.Books[1].ID)
	assert.Equal(t, core.BookStatusBorrowed, result.Books[1].Status)
}

func Test_QueryHandler_Handle_ReturnsEmptyCatalog(t *testing.T) {
	// arrange
	es, err := memengine.NewEventStore()
	require.NoError(t, err)

	// act
	result, err := catalog.NewQueryHandler(es).Handle(t.Context(), catalog.BuildQuery())

	// assert
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Books)
}
