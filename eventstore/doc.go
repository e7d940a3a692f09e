// Package eventstore provides the engine-agnostic building blocks of the loan ledger:
// filters over "dynamic event streams", storable events and the errors and observability
// interfaces shared by all engines.
//
// A "dynamic event stream" is not a fixed aggregate stream. It is whatever subset of the log a
// Filter selects, e.g. all loan events of one book OR of one user. Consistency is enforced per
// stream: Append takes the Filter and the MaxSequenceNumberUint observed by the preceding Query
// and fails with ErrConcurrencyConflict if any matching event was appended in between.
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(core.BookBorrowedEventType, core.BookReturnedEventType).
//		AndAnyPredicateOf(eventstore.P("BookID", bookID), eventstore.P("UserID", userID)).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	// decide ...
//	err = store.Append(ctx, filter, maxSeq, newEvent)
//
// Engines live in the sub-packages postgresengine (production) and memengine (tests and local runs).
package eventstore
