// SPDX-License-Identifier: Apache-2.0

package migrator

import (
	"context"
	"fmt"

	"github.com/blainehansen/postgres-migrator/pkg/db"
	"github.com/blainehansen/postgres-migrator/pkg/fsutil"
	"github.com/blainehansen/postgres-migrator/pkg/state"
	"github.com/blainehansen/postgres-migrator/pkg/tempdb"
)

// Backend is one of the three logical reference points a diff can compare:
// the migration history, the declared schema tree, or the live database.
type Backend int

const (
	BackendMigrations Backend = iota
	BackendSchema
	BackendDatabase
)

func (b Backend) String() string {
	switch b {
	case BackendMigrations:
		return "migrations"
	case BackendSchema:
		return "schema"
	case BackendDatabase:
		return "database"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend parses the CLI spelling of a backend.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "migrations":
		return BackendMigrations, nil
	case "schema":
		return BackendSchema, nil
	case "database":
		return BackendDatabase, nil
	default:
		return 0, fmt.Errorf("unknown backend %q, must be one of migrations, schema, database", s)
	}
}

// materialize produces a connection URI representing the backend. For the
// live database this is the operator-supplied URL; for the other two a
// transient database is created and populated. The returned release func
// must be called once the URI is no longer needed, on every exit path.
func (m *Migrator) materialize(ctx context.Context, b Backend, needVersionTable bool) (string, func(), error) {
	var tag string
	var paths []string

	switch b {
	case BackendDatabase:
		return m.pgURL, func() {}, nil

	case BackendMigrations:
		c, err := m.LoadChain()
		if err != nil {
			return "", nil, err
		}
		tag = "migrations"
		paths = make([]string, len(c))
		for i, f := range c {
			paths[i] = f.FilePath
		}

	case BackendSchema:
		var err error
		paths, err = fsutil.ListSQLFiles(m.schemaDir)
		if err != nil {
			return "", nil, err
		}
		tag = "schema"
	}

	temp, err := tempdb.Acquire(ctx, m.pgURL, tag)
	if err != nil {
		return "", nil, err
	}

	if needVersionTable {
		if err := m.createVersionTableOn(ctx, temp.URL); err != nil {
			temp.Release()
			return "", nil, err
		}
	}

	if err := applySQLFiles(ctx, temp.URL, paths); err != nil {
		temp.Release()
		return "", nil, err
	}

	return temp.URL, temp.Release, nil
}

// createVersionTableOn mirrors the live database's bookkeeping table into a
// transient database, so diffing against the live database does not report
// the table itself as a difference.
func (m *Migrator) createVersionTableOn(ctx context.Context, url string) error {
	conn, err := db.Open(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close()

	return state.EnsureVersionTable(ctx, conn)
}
