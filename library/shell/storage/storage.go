// Package storage opens the event store the loan service runs on.
//
// The adapter comes from config.Config: "memory" for a process local store, or one of the
// Postgres adapters (pgx, sql, sqlx). Postgres stores get their schema created on open.
package storage

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-lending/library/shell"
	"github.com/AntonStoeckl/library-lending/library/shell/config"
	"github.com/AntonStoeckl/library-lending/library/shell/logging"
)

// Collectors holds the optional instrumentation for the Postgres engine. Nil fields are skipped.
// With a ContextualLogger set, logger becomes the engine's plain logger and the contextual
// entries go to ContextualLogger instead, e.g. the OpenTelemetry log bridge.
type Collectors struct {
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
	ContextualLogger eventstore.ContextualLogger
}

// Open creates the event store for cfg.DBAdapter. The returned func closes the underlying connections.
func Open(
	ctx context.Context,
	cfg config.Config,
	logger *logging.Logger,
	collectors Collectors,
) (shell.EventStore, func(), error) {

	if cfg.DBAdapter == config.AdapterMemory {
		store, err := memengine.NewEventStore(memengine.WithLogger(logger))
		return store, func() {}, err
	}

	options := []postgresengine.Option{postgresengine.WithTableName(cfg.EventsTable)}

	if collectors.ContextualLogger != nil {
		options = append(options,
			postgresengine.WithLogger(logger),
			postgresengine.WithContextualLogger(collectors.ContextualLogger),
		)
	} else {
		options = append(options, postgresengine.WithContextualLogger(logger))
	}

	if collectors.Metrics != nil {
		options = append(options, postgresengine.WithMetrics(collectors.Metrics))
	}

	if collectors.Tracing != nil {
		options = append(options, postgresengine.WithTracing(collectors.Tracing))
	}

	var (
		store    *postgresengine.EventStore
		closeAll func()
		err      error
	)

	switch cfg.DBAdapter {
	case config.AdapterPGX:
		store, closeAll, err = openPGX(ctx, cfg, options)
	case config.AdapterSQL:
		db, openErr := config.OpenSQLDB(ctx, cfg.DatabaseURL)
		if openErr != nil {
			return nil, nil, openErr
		}
		closeAll = func() { _ = db.Close() }
		store, err = postgresengine.NewEventStoreFromSQLDB(db, options...)
	case config.AdapterSQLX:
		db, openErr := config.OpenSQLX(ctx, cfg.DatabaseURL)
		if openErr != nil {
			return nil, nil, openErr
		}
		closeAll = func() { _ = db.Close() }
		store, err = postgresengine.NewEventStoreFromSQLX(db, options...)
	default:
		return nil, nil, fmt.Errorf("%w: unknown db adapter %q", config.ErrInvalidConfig, cfg.DBAdapter)
	}

	if err != nil {
		if closeAll != nil {
			closeAll()
		}
		return nil, nil, err
	}

	if err = store.CreateSchema(ctx); err != nil {
		closeAll()
		return nil, nil, err
	}

	return store, closeAll, nil
}

func openPGX(
	ctx context.Context,
	cfg config.Config,
	options []postgresengine.Option,
) (*postgresengine.EventStore, func(), error) {

	primary, err := config.NewPGXPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	if cfg.ReplicaDatabaseURL == "" {
		store, err := postgresengine.NewEventStoreFromPGXPool(primary, options...)
		return store, primary.Close, err
	}

	replica, err := config.NewPGXPool(ctx, cfg.ReplicaDatabaseURL)
	if err != nil {
		primary.Close()
		return nil, nil, err
	}

	closeAll := func() {
		replica.Close()
		primary.Close()
	}

	store, err := postgresengine.NewEventStoreFromPGXPoolAndReplica(primary, replica, options...)

	return store, closeAll, err
}
