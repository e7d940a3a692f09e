package adapters

import (
	"context"
	"database/sql"
)

// SQLAdapter runs the event store on a database/sql pool, driver lib/pq.
type SQLAdapter struct {
	db *sql.DB
}

func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

func (s *SQLAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	return wrapRows(s.db.QueryContext(ctx, query))
}

func (s *SQLAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return wrapResult(s.db.ExecContext(ctx, query))
}

func (s *SQLAdapter) BeginTx(ctx context.Context) (DBTx, error) {
	return wrapTx(s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}))
}
