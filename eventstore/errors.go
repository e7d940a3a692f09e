package eventstore

import (
	"errors"
)

var (
	// ErrConcurrencyConflict is returned by Append when an event matching the filter
	// was appended after the Query that produced the expected MaxSequenceNumberUint.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	// ErrEmptyEventsTableName is returned when an empty table name is configured.
	ErrEmptyEventsTableName = errors.New("events table name must not be empty")

	// ErrNilDatabaseConnection is returned when a nil database connection is supplied to an engine factory.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrScanningDBRowFailed         = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")
	ErrBuildingQueryFailed         = errors.New("building query failed")
	ErrAppendingEventFailed        = errors.New("appending the event failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
	ErrBeginningTransactionFailed  = errors.New("beginning transaction failed")
	ErrAcquiringLockFailed         = errors.New("acquiring advisory lock failed")
	ErrCommittingTransactionFailed = errors.New("committing transaction failed")
	ErrCreatingSchemaFailed        = errors.New("creating events schema failed")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint
