package eventstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/AntonStoeckl/library-lending/eventstore" //nolint:revive
)

func Test_FilterBuilder_MatchingAnyEvent_ReturnsEmptyFilter(t *testing.T) {
	// act
	filter := BuildEventFilter().MatchingAnyEvent()

	// assert
	assert.Empty(t, filter.Items())
	assert.Empty(t, filter.LockKeys())
}

func Test_FilterBuilder_SanitizesEventTypes(t *testing.T) {
	// act
	filter := BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookReturned", "", "BookBorrowed", "BookReturned").
		Finalize()

	// assert
	assert.Len(t, filter.Items(), 1)
	assert.Equal(t, []string{"BookBorrowed", "BookReturned"}, filter.Items()[0].EventTypes())
	assert.Empty(t, filter.Items()[0].Predicates())
}

func Test_FilterBuilder_SanitizesPredicates(t *testing.T) {
	// act
	filter := BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookBorrowed").
		AndAnyPredicateOf(
			P("UserID", "u-1"),
			P("BookID", "b-2"),
			P("", "x"),
			P("BookID", ""),
			P("BookID", "b-1"),
			P("UserID", "u-1"),
		).
		Finalize()

	// assert
	item := filter.Items()[0]
	assert.Equal(t, []FilterPredicate{P("BookID", "b-1"), P("BookID", "b-2"), P("UserID", "u-1")}, item.Predicates())
	assert.False(t, item.AllPredicatesMustMatch())
}

func Test_FilterBuilder_AllPredicatesOf_SetsAllMustMatch(t *testing.T) {
	// act
	filter := BuildEventFilter().
		Matching().
		AllPredicatesOf(P("BookID", "b-1"), P("UserID", "u-1")).
		AndAnyEventTypeOf("LoanRated").
		Finalize()

	// assert
	item := filter.Items()[0]
	assert.True(t, item.AllPredicatesMustMatch())
	assert.Equal(t, []string{"LoanRated"}, item.EventTypes())
	assert.Len(t, item.Predicates(), 2)
}

func Test_FilterBuilder_OrMatching_CreatesMultipleItems(t *testing.T) {
	// act
	filter := BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookAddedToCatalog").
		AndAnyPredicateOf(P("BookID", "b-1")).
		OrMatching().
		AnyEventTypeOf("BookBorrowed").
		AndAnyPredicateOf(P("UserID", "u-1")).
		Finalize()

	// assert
	assert.Len(t, filter.Items(), 2)
	assert.Equal(t, []string{"BookAddedToCatalog"}, filter.Items()[0].EventTypes())
	assert.Equal(t, []string{"BookBorrowed"}, filter.Items()[1].EventTypes())
}

func Test_FilterBuilder_IsImmutableAcrossBranches(t *testing.T) {
	// arrange
	base := BuildEventFilter().Matching().AnyEventTypeOf("BookBorrowed")

	// act
	withBook := base.AndAnyPredicateOf(P("BookID", "b-1")).Finalize()
	withUser := base.AndAnyPredicateOf(P("UserID", "u-1")).Finalize()

	// assert
	assert.Equal(t, []FilterPredicate{P("BookID", "b-1")}, withBook.Items()[0].Predicates())
	assert.Equal(t, []FilterPredicate{P("UserID", "u-1")}, withUser.Items()[0].Predicates())
}

func Test_Filter_LockKeys_AreSortedAndDeduplicated(t *testing.T) {
	// arrange
	filter := BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookBorrowed").
		AndAnyPredicateOf(P("UserID", "u-1"), P("BookID", "b-1")).
		OrMatching().
		AnyEventTypeOf("BookReturned").
		AndAnyPredicateOf(P("BookID", "b-1")).
		Finalize()

	// act
	keys := filter.LockKeys()

	// assert
	assert.Equal(t, []string{"BookID:b-1", "UserID:u-1"}, keys)
}
