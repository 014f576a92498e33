// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"database/sql"
)

// NoopDB satisfies DB while executing nothing. Apply swaps it in for dry
// runs, so the pending/applied decisions run against the real database
// while every write becomes a no-op; the transaction callback is never
// invoked.
type NoopDB struct{}

func (db *NoopDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (db *NoopDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (db *NoopDB) WithRetryableTransaction(ctx context.Context, f func(context.Context, *sql.Tx) error) error {
	return nil
}

func (db *NoopDB) Close() error {
	return nil
}
