// SPDX-License-Identifier: Apache-2.0

package migrator_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blainehansen/postgres-migrator/pkg/chain"
	"github.com/blainehansen/postgres-migrator/pkg/migrator"
	"github.com/blainehansen/postgres-migrator/pkg/testutils"
)

func TestGenerateWritesFirstMigration(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, connStr string) {
		ctx := context.Background()
		m := newTestMigrator(t, connStr, nil)

		writeSchemaFile(t, m, "users.sql", "CREATE TABLE users (id INT PRIMARY KEY);")
		testutils.StubDiffTool(t, `echo 'CREATE TABLE users (id INT PRIMARY KEY);'`)

		version, err := m.Generate(ctx, "add Users!", false)
		require.NoError(t, err)
		require.Len(t, version, 14)

		path := filepath.Join(m.MigrationsDir(), chain.Filename(version, chain.NullSentinel, "add_users_"))
		contents, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "CREATE TABLE users (id INT PRIMARY KEY);", string(contents))
	})
}

func TestGenerateLinksToPreviousVersion(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, connStr string) {
		ctx := context.Background()
		m := newTestMigrator(t, connStr, nil)

		writeMigration(t, m, v, chain.NullSentinel, "first", "CREATE TABLE users (id INT PRIMARY KEY);")
		testutils.StubDiffTool(t, `echo 'ALTER TABLE users ADD COLUMN name TEXT;'`)

		version, err := m.Generate(ctx, "add name", false)
		require.NoError(t, err)

		c, err := m.LoadChain()
		require.NoError(t, err)
		require.Len(t, c, 2)
		require.NotNil(t, c[1].PreviousVersion)
		assert.Equal(t, v, *c[1].PreviousVersion)
		assert.Equal(t, version, c[1].CurrentVersion)
	})
}

func TestGenerateOnboard(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, connStr string) {
		ctx := context.Background()
		m := newTestMigrator(t, connStr, nil)

		writeSchemaFile(t, m, "users.sql", "CREATE TABLE users (id INT PRIMARY KEY);")
		testutils.StubDiffTool(t, `echo 'CREATE TABLE users (id INT PRIMARY KEY);'`)

		version, err := m.Generate(ctx, "existing schema", true)
		require.NoError(t, err)

		c, err := m.LoadChain()
		require.NoError(t, err)
		require.Len(t, c, 1)
		assert.True(t, c[0].IsOnboard)
		assert.Equal(t, version, c[0].CurrentVersion)
	})
}

func TestGenerateOnboardRequiresEmptyChain(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, connStr string) {
		ctx := context.Background()
		m := newTestMigrator(t, connStr, nil)

		writeMigration(t, m, v, chain.NullSentinel, "first", "")

		_, err := m.Generate(ctx, "too late", true)
		require.Error(t, err)

		var confErr *migrator.ConfigurationError
		require.ErrorAs(t, err, &confErr)
	})
}

func TestGenerateRejectsUnparseableDiff(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, connStr string) {
		ctx := context.Background()
		m := newTestMigrator(t, connStr, nil)

		testutils.StubDiffTool(t, `echo 'THIS IS NOT SQL AT ALL ;;;'`)

		_, err := m.Generate(ctx, "broken", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unparseable")
	})
}

func writeSchemaFile(t *testing.T, m *migrator.Migrator, name, sql string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(m.SchemaDir(), name), []byte(sql), 0o644))
}
