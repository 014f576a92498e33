// SPDX-License-Identifier: Apache-2.0

// Package state maintains the _schema_versions bookkeeping table in the live
// database: one row per applied migration, forming the same linked chain the
// migration files on disk do.
package state

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blainehansen/postgres-migrator/pkg/db"
)

// VersionTableName is the name of the bookkeeping table.
const VersionTableName = "_schema_versions"

const sqlCreateVersionTable = `
CREATE TABLE IF NOT EXISTS _schema_versions (
	current_version CHAR(14) NOT NULL UNIQUE,
	previous_version CHAR(14),
	CHECK (current_version > previous_version)
);

-- Only the first applied migration can have no predecessor
CREATE UNIQUE INDEX IF NOT EXISTS only_one_root_version ON _schema_versions ((previous_version IS NULL)) WHERE previous_version IS NULL;
`

// VersionTableExists probes pg_class for the bookkeeping table, so callers
// can ask about the current version of a brand-new database without erroring
// on a missing table.
func VersionTableExists(ctx context.Context, conn db.DB) (bool, error) {
	rows, err := conn.QueryContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_class WHERE relname = $1 AND relkind = 'r')",
		VersionTableName)
	if err != nil {
		return false, fmt.Errorf("unable to probe for %s: %w", VersionTableName, err)
	}

	var exists bool
	if err := db.ScanOne(rows, &exists); err != nil {
		return false, fmt.Errorf("unable to probe for %s: %w", VersionTableName, err)
	}
	return exists, nil
}

// LatestVersion returns the highest applied version token, or nil when the
// bookkeeping table does not exist or is empty.
func LatestVersion(ctx context.Context, conn db.DB) (*string, error) {
	exists, err := VersionTableExists(ctx, conn)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	rows, err := conn.QueryContext(ctx, "SELECT MAX(current_version) FROM _schema_versions")
	if err != nil {
		return nil, fmt.Errorf("unable to read latest version: %w", err)
	}

	var version *string
	if err := db.ScanOne(rows, &version); err != nil {
		return nil, fmt.Errorf("unable to read latest version: %w", err)
	}
	return version, nil
}

// EnsureVersionTable creates the bookkeeping table and its root-uniqueness
// index. Idempotent.
func EnsureVersionTable(ctx context.Context, conn db.DB) error {
	if _, err := conn.ExecContext(ctx, sqlCreateVersionTable); err != nil {
		return fmt.Errorf("unable to create %s: %w", VersionTableName, err)
	}
	return nil
}

// RecordVersion inserts one bookkeeping row inside the caller's transaction,
// so a migration's SQL and its record are observed atomically.
func RecordVersion(ctx context.Context, tx *sql.Tx, currentVersion string, previousVersion *string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO _schema_versions (current_version, previous_version) VALUES ($1, $2)",
		currentVersion, previousVersion)
	if err != nil {
		return fmt.Errorf("unable to record version %s: %w", currentVersion, err)
	}
	return nil
}

// Reseed atomically replaces the entire applied set with a single root row
// for baselineVersion. Used after compacting the migration history.
func Reseed(ctx context.Context, conn db.DB, baselineVersion string) error {
	return conn.WithRetryableTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "TRUNCATE _schema_versions"); err != nil {
			return fmt.Errorf("unable to truncate %s: %w", VersionTableName, err)
		}
		return RecordVersion(ctx, tx, baselineVersion, nil)
	})
}
