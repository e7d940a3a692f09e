package adapters

import (
	"context"
	"database/sql"
)

func wrapRows(rows *sql.Rows, err error) (DBRows, error) {
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows}, nil
}

func wrapResult(result sql.Result, err error) (DBResult, error) {
	if err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}

func wrapTx(tx *sql.Tx, err error) (DBTx, error) {
	if err != nil {
		return nil, err
	}

	return &stdTx{tx: tx}, nil
}

// stdRows wraps *sql.Rows for the sql.DB and sqlx.DB adapters.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

// stdResult wraps sql.Result.
type stdResult struct {
	result sql.Result
}

func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

// stdTx wraps *sql.Tx; sqlx.Tx embeds it, so both adapters share this type.
type stdTx struct {
	tx *sql.Tx
}

func (s *stdTx) Exec(ctx context.Context, query string) (DBResult, error) {
	return wrapResult(s.tx.ExecContext(ctx, query))
}

func (s *stdTx) Commit(_ context.Context) error {
	return s.tx.Commit()
}

func (s *stdTx) Rollback(_ context.Context) error {
	return s.tx.Rollback()
}
