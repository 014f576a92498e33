// SPDX-License-Identifier: Apache-2.0

// Package db dials Postgres servers and shields the rest of the tool from
// transient lock contention: migration DDL collides with other sessions
// holding table locks, and those collisions surface as lock_not_available
// errors worth waiting out rather than failing the whole run.
package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cloudflare/backoff"
	"github.com/lib/pq"
)

// DB is the querying surface the rest of the tool consumes, satisfied by
// real connections and by the no-op stand-in used for dry runs.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	WithRetryableTransaction(ctx context.Context, f func(context.Context, *sql.Tx) error) error
	Close() error
}

const lockNotAvailable pq.ErrorCode = "55P03"

// Waits between attempts start at retryBase and grow to at most
// retryCeiling. There is no cap on the number of attempts: retrying stops
// only when the statement stops failing with a lock timeout or the context
// is done.
const (
	retryCeiling = 30 * time.Second
	retryBase    = 500 * time.Millisecond
)

// Conn wraps a *sql.DB, waiting out lock contention with jittered
// exponential backoff instead of surfacing it.
type Conn struct {
	conn *sql.DB
}

// Wrap adapts an already-open *sql.DB.
func Wrap(conn *sql.DB) *Conn {
	return &Conn{conn: conn}
}

func (c *Conn) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	var res sql.Result
	err := c.withLockRetry(ctx, func() error {
		var err error
		res, err = c.conn.ExecContext(ctx, query, args...)
		return err
	})
	return res, err
}

func (c *Conn) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	var rows *sql.Rows
	err := c.withLockRetry(ctx, func() error {
		var err error
		rows, err = c.conn.QueryContext(ctx, query, args...)
		return err
	})
	return rows, err
}

// WithRetryableTransaction runs f inside a transaction, committing on
// success and rolling back otherwise. A transaction that lost a lock race
// is rolled back and reattempted from the top.
func (c *Conn) WithRetryableTransaction(ctx context.Context, f func(context.Context, *sql.Tx) error) error {
	return c.withLockRetry(ctx, func() error {
		tx, err := c.conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		if err := f(ctx, tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return rbErr
			}
			return err
		}

		return tx.Commit()
	})
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

// withLockRetry runs attempt until it succeeds or fails with anything other
// than a lock acquisition timeout.
func (c *Conn) withLockRetry(ctx context.Context, attempt func() error) error {
	b := backoff.New(retryCeiling, retryBase)

	for {
		err := attempt()
		if !isLockTimeout(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.Duration()):
		}
	}
}

func isLockTimeout(err error) bool {
	pqErr := &pq.Error{}
	return errors.As(err, &pqErr) && pqErr.Code == lockNotAvailable
}

// ScanOne reads the single value produced by a one-row, one-column query
// and closes the rows.
func ScanOne[T any](rows *sql.Rows, dest *T) error {
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(dest); err != nil {
			return err
		}
	}
	return rows.Err()
}
