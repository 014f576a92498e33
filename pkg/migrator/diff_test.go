// SPDX-License-Identifier: Apache-2.0

package migrator_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blainehansen/postgres-migrator/pkg/migrator"
	"github.com/blainehansen/postgres-migrator/pkg/testutils"
)

func TestDiffRejectsSameBackends(t *testing.T) {
	t.Parallel()

	testutils.WithConnectionToContainer(t, func(conn *sql.DB, connStr string) {
		m := newTestMigrator(t, connStr, nil)

		_, err := m.Diff(context.Background(), migrator.BackendSchema, migrator.BackendSchema)
		require.ErrorIs(t, err, migrator.ErrSameBackends)
	})
}

func TestCheckSucceedsOnEmptyDiff(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, connStr string) {
		m := newTestMigrator(t, connStr, nil)

		writeSchemaFile(t, m, "users.sql", "CREATE TABLE users (id INT PRIMARY KEY);")
		testutils.StubDiffTool(t, `exit 0`)

		require.NoError(t, m.Check(context.Background(), migrator.BackendDatabase, migrator.BackendSchema))
	})
}

func TestCheckFailsOnNonEmptyDiff(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, connStr string) {
		m := newTestMigrator(t, connStr, nil)

		testutils.StubDiffTool(t, `echo 'DROP TABLE leftover;'`)

		err := m.Check(context.Background(), migrator.BackendMigrations, migrator.BackendSchema)
		require.Error(t, err)

		var diffErr *migrator.DiffNotEmptyError
		require.ErrorAs(t, err, &diffErr)
		assert.Equal(t, "DROP TABLE leftover;", diffErr.Diff)
	})
}
