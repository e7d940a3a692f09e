package memengine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/eventstore/memengine"
)

func Test_Query_ReturnsOnlyMatchingEvents_InSequenceOrder(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEmptyStore(t)
	all := eventstore.BuildEventFilter().MatchingAnyEvent()

	givenAppended(t, es, all, 0, givenEvent(t, "BookBorrowed", `{"BookID":"b-1","UserID":"u-1"}`))
	givenAppended(t, es, all, 1, givenEvent(t, "BookBorrowed", `{"BookID":"b-2","UserID":"u-2"}`))
	givenAppended(t, es, all, 2, givenEvent(t, "BookReturned", `{"BookID":"b-1","UserID":"u-1"}`))

	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookBorrowed", "BookReturned").
		AndAnyPredicateOf(eventstore.P("BookID", "b-1")).
		Finalize()

	// act
	events, maxSeq, err := es.Query(ctx, filter)

	// assert
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "BookBorrowed", events[0].EventType)
	assert.Equal(t, "BookReturned", events[1].EventType)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(3), maxSeq)
}

func Test_Query_AllPredicatesMustMatch(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEmptyStore(t)
	all := eventstore.BuildEventFilter().MatchingAnyEvent()

	givenAppended(t, es, all, 0, givenEvent(t, "BookBorrowed", `{"BookID":"b-1","UserID":"u-1"}`))
	givenAppended(t, es, all, 1, givenEvent(t, "BookBorrowed", `{"BookID":"b-1","UserID":"u-2"}`))

	filter := eventstore.BuildEventFilter().
		Matching().
		AllPredicatesOf(eventstore.P("BookID", "b-1"), eventstore.P("UserID", "u-2")).
		Finalize()

	// act
	events, maxSeq, err := es.Query(ctx, filter)

	// assert
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(2), maxSeq)
}

func Test_Append_ReturnsConcurrencyConflict_WhenStreamChanged(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEmptyStore(t)
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", "b-1")).
		Finalize()

	_, maxSeq, err := es.Query(ctx, filter)
	require.NoError(t, err)
	givenAppended(t, es, filter, maxSeq, givenEvent(t, "BookBorrowed", `{"BookID":"b-1"}`))

	// act
	err = es.Append(ctx, filter, maxSeq, givenEvent(t, "BookBorrowed", `{"BookID":"b-1"}`))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 1, es.Len())
}

func Test_Append_Succeeds_WhenOnlyUnrelatedStreamChanged(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEmptyStore(t)
	filterB1 := eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("BookID", "b-1")).Finalize()
	filterB2 := eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("BookID", "b-2")).Finalize()

	_, maxSeq, err := es.Query(ctx, filterB1)
	require.NoError(t, err)
	givenAppended(t, es, filterB2, 0, givenEvent(t, "BookBorrowed", `{"BookID":"b-2"}`))

	// act
	err = es.Append(ctx, filterB1, maxSeq, givenEvent(t, "BookBorrowed", `{"BookID":"b-1"}`))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 2, es.Len())
}

func Test_Append_OnlyOneOfManyConcurrentWritersWins(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEmptyStore(t)
	filter := eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("BookID", "b-1")).Finalize()
	writers := 25

	var wg sync.WaitGroup
	results := make(chan error, writers)

	// act
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- es.Append(ctx, filter, 0, givenEvent(t, "BookBorrowed", `{"BookID":"b-1"}`))
		}()
	}

	wg.Wait()
	close(results)

	// assert
	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, es.Len())
}

func Test_Query_ReturnsContextError_WhenCanceled(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	es := givenEmptyStore(t)

	// act
	_, _, err := es.Query(ctx, eventstore.BuildEventFilter().MatchingAnyEvent())

	// assert
	assert.ErrorIs(t, err, context.Canceled)
}

func givenEmptyStore(t *testing.T) *memengine.EventStore {
	t.Helper()

	es, err := memengine.NewEventStore()
	require.NoError(t, err)

	return es
}

func givenEvent(t *testing.T, eventType string, payload string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(eventType, time.Unix(0, 0).UTC(), []byte(payload))
	require.NoError(t, err)

	return event
}

func givenAppended(
	t *testing.T,
	es *memengine.EventStore,
	filter eventstore.Filter,
	expected eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
) {
	t.Helper()

	require.NoError(t, es.Append(context.Background(), filter, expected, event))
}
