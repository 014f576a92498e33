// SPDX-License-Identifier: Apache-2.0

package migrator_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blainehansen/postgres-migrator/pkg/chain"
	"github.com/blainehansen/postgres-migrator/pkg/fsutil"
	"github.com/blainehansen/postgres-migrator/pkg/testutils"
)

func TestCompactCollapsesHistoryToOneBaseline(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, connStr string) {
		ctx := context.Background()
		m := newTestMigrator(t, connStr, nil)

		// an accumulated two-file history, already applied
		writeMigration(t, m, v, chain.NullSentinel, "first", "CREATE TABLE users (id INT PRIMARY KEY);")
		writeMigration(t, m, w, v, "second", "ALTER TABLE users ADD COLUMN name TEXT;")
		require.NoError(t, m.Apply(ctx, false, false))

		writeSchemaFile(t, m, "users.sql", "CREATE TABLE users (id INT PRIMARY KEY, name TEXT);")
		// the live database already matches the declared schema, and the
		// purged history rematerializes to nothing, so both generates see
		// the same creating diff or none; the stub stands in for migra.
		testutils.StubDiffTool(t, `echo 'CREATE TABLE IF NOT EXISTS users (id INT PRIMARY KEY, name TEXT);'`)

		require.NoError(t, m.Compact(ctx))

		// exactly one migration file remains and it is a chain root
		paths, err := fsutil.ListSQLFiles(m.MigrationsDir())
		require.NoError(t, err)
		require.Len(t, paths, 1)

		base := filepath.Base(paths[0])
		parts := strings.Split(base, ".")
		require.Len(t, parts, 4)
		assert.Equal(t, chain.NullSentinel, parts[1])
		assert.Equal(t, "compacted_initial", parts[2])

		// the bookkeeping table holds exactly that baseline as its one root row
		assert.Equal(t, [][2]string{{parts[0], ""}}, appliedVersions(t, conn))

		// the live schema survived compacting
		assert.True(t, tableExists(t, conn, "users"))
	})
}
