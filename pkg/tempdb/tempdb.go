// SPDX-License-Identifier: Apache-2.0

// Package tempdb creates, tags, and tears down the transient databases the
// tool uses to materialize migration histories and declared schemas.
package tempdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/blainehansen/postgres-migrator/pkg/db"
	"github.com/blainehansen/postgres-migrator/pkg/pgurl"
)

// Comment is the database comment identifying databases created by this
// tool, so a later clean sweep can find them even after a crash.
const Comment = "TEMP DB CREATED BY postgres_migrator"

// adminDB is the always-present database used for CREATE/DROP DATABASE
// statements, which cannot run against the database they target.
const adminDB = "template1"

// CleanupError reports a transient database that could not be dropped.
// Release logs it and swallows it; Clean returns it.
type CleanupError struct {
	Name string
	Err  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("failed to drop temporary database %q: %s", e.Name, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }

// TempDB is the exclusive in-process handle to one transient database. The
// owner must call Release when done with it.
type TempDB struct {
	// Name is the derived database name, <base_dbname>_<unix_seconds>_<suffix>.
	Name string
	// URL is the connection URI targeting the transient database.
	URL string

	adminURL string
}

// Acquire connects to template1 on the server behind pgURL, creates a fresh
// database named after pgURL's database plus a timestamp and a tagged
// suffix, and comments it so clean sweeps can identify it.
func Acquire(ctx context.Context, pgURL, tag string) (*TempDB, error) {
	base, err := pgurl.DBName(pgURL)
	if err != nil {
		return nil, err
	}
	if base == "" {
		return nil, fmt.Errorf("tempdb: connection URL %q has no database name", pgURL)
	}

	adminURL, err := pgurl.WithDBName(pgURL, adminDB)
	if err != nil {
		return nil, err
	}

	// The uuid fragment keeps concurrently-acquired databases from
	// colliding within the same second.
	suffix := tag + "_" + strings.Split(uuid.NewString(), "-")[0]
	name := fmt.Sprintf("%s_%d_%s", base, time.Now().Unix(), suffix)

	conn, err := db.Open(ctx, adminURL)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(name))); err != nil {
		return nil, fmt.Errorf("tempdb: unable to create %q: %w", name, err)
	}

	comment := fmt.Sprintf("COMMENT ON DATABASE %s IS %s", pq.QuoteIdentifier(name), pq.QuoteLiteral(Comment))
	if _, err := conn.ExecContext(ctx, comment); err != nil {
		// The database exists but is untagged; drop it rather than leak an
		// unsweepable database.
		_, _ = conn.ExecContext(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", pq.QuoteIdentifier(name)))
		return nil, fmt.Errorf("tempdb: unable to comment %q: %w", name, err)
	}

	url, err := pgurl.WithDBName(pgURL, name)
	if err != nil {
		return nil, err
	}

	return &TempDB{Name: name, URL: url, adminURL: adminURL}, nil
}

// Release drops the transient database via a fresh connection to template1.
// Failures are reported to stderr and swallowed, so teardown during error
// unwinding never masks the primary error.
func (t *TempDB) Release() {
	ctx := context.Background()

	conn, err := db.Open(ctx, t.adminURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, &CleanupError{Name: t.Name, Err: err})
		return
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", pq.QuoteIdentifier(t.Name))); err != nil {
		fmt.Fprintln(os.Stderr, &CleanupError{Name: t.Name, Err: err})
	}
}

// Clean drops every database on the server whose comment equals Comment,
// sweeping up transient databases leaked by crashed runs. Returns the names
// of the dropped databases; succeeds when there are none.
func Clean(ctx context.Context, pgURL string) ([]string, error) {
	adminURL, err := pgurl.WithDBName(pgURL, adminDB)
	if err != nil {
		return nil, err
	}

	conn, err := db.Open(ctx, adminURL)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
		SELECT d.datname FROM pg_database d
		JOIN pg_shdescription s ON s.objoid = d.oid
		WHERE s.description = $1`, Comment)
	if err != nil {
		return nil, fmt.Errorf("tempdb: unable to list tagged databases: %w", err)
	}

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("tempdb: unable to list tagged databases: %w", err)
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tempdb: unable to list tagged databases: %w", err)
	}

	for _, name := range names {
		if _, err := conn.ExecContext(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", pq.QuoteIdentifier(name))); err != nil {
			return nil, &CleanupError{Name: name, Err: err}
		}
	}

	return names, nil
}
