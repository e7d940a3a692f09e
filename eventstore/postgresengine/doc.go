// Package postgresengine is the PostgreSQL engine of the loan ledger.
//
// It runs on pgxpool.Pool (optionally with a read replica), sql.DB (lib/pq) or sqlx.DB and
// builds all SQL with goqu. Payload predicates become jsonb containment checks.
//
// Append is atomic per "dynamic event stream": inside one transaction it takes
// pg_advisory_xact_lock for each predicate of the filter, then inserts the events only if the
// highest sequence number matching the filter is still the one the caller observed.
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithTableName("events"),
//		postgresengine.WithLogger(logger),
//	)
//	_ = store.CreateSchema(ctx)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
