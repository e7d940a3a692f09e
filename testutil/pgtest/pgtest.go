// Package pgtest provides Postgres backed event stores for integration tests.
//
// Tests using it are skipped unless LIBRARY_TEST_DATABASE_URL points to a Postgres database.
// LIBRARY_TEST_DB_ADAPTER selects the driver (pgx, sql or sqlx, default pgx). Every store
// gets its own events table, which is dropped when the test ends.
package pgtest

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-lending/library/shell/config"
)

const (
	EnvDatabaseURL = "LIBRARY_TEST_DATABASE_URL"
	EnvDBAdapter   = "LIBRARY_TEST_DB_ADAPTER"
)

type execFunc func(ctx context.Context, sql string) error

// NewEventStore returns an event store on a fresh table, or skips the test.
func NewEventStore(t *testing.T, options ...postgresengine.Option) *postgresengine.EventStore {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDatabaseURL)
	}

	tableName := "events_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	options = append([]postgresengine.Option{postgresengine.WithTableName(tableName)}, options...)

	ctx := context.Background()

	var (
		es   *postgresengine.EventStore
		exec execFunc
		err  error
	)

	switch adapter := strings.ToLower(os.Getenv(EnvDBAdapter)); adapter {
	case "", config.AdapterPGX:
		pool, openErr := config.NewPGXPool(ctx, dsn)
		require.NoError(t, openErr)
		t.Cleanup(pool.Close)

		exec = func(ctx context.Context, sql string) error {
			_, err := pool.Exec(ctx, sql)
			return err
		}
		es, err = postgresengine.NewEventStoreFromPGXPool(pool, options...)

	case config.AdapterSQL:
		db, openErr := config.OpenSQLDB(ctx, dsn)
		require.NoError(t, openErr)
		t.Cleanup(func() { _ = db.Close() })

		exec = func(ctx context.Context, sql string) error {
			_, err := db.ExecContext(ctx, sql)
			return err
		}
		es, err = postgresengine.NewEventStoreFromSQLDB(db, options...)

	case config.AdapterSQLX:
		db, openErr := config.OpenSQLX(ctx, dsn)
		require.NoError(t, openErr)
		t.Cleanup(func() { _ = db.Close() })

		exec = func(ctx context.Context, sql string) error {
			_, err := db.ExecContext(ctx, sql)
			return err
		}
		es, err = postgresengine.NewEventStoreFromSQLX(db, options...)

	default:
		t.Fatalf("unsupported %s %q", EnvDBAdapter, adapter)
	}

	require.NoError(t, err)
	require.NoError(t, es.CreateSchema(ctx))

	// Cleanups run last in first out, so the table is dropped before the connection closes.
	t.Cleanup(func() {
		_ = exec(context.Background(), "DROP TABLE IF EXISTS "+tableName)
	})

	return es
}
