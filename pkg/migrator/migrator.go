// SPDX-License-Identifier: Apache-2.0

// Package migrator wires the filesystem scanner, chain validator, transient
// databases, structural differ, and bookkeeping engine into the tool's
// operations: generate, apply, compact, diff, check, and clean.
package migrator

import (
	"context"
	"io"
	"os"

	"github.com/blainehansen/postgres-migrator/pkg/chain"
	"github.com/blainehansen/postgres-migrator/pkg/differ"
	"github.com/blainehansen/postgres-migrator/pkg/fsutil"
	"github.com/blainehansen/postgres-migrator/pkg/pgurl"
	"github.com/blainehansen/postgres-migrator/pkg/tempdb"
)

const (
	DefaultMigrationsDir = "migrations"
	DefaultSchemaDir     = "schema"
)

type Migrator struct {
	pgURL  string
	dbName string

	migrationsDir string
	schemaDir     string

	diffOpts differ.Options
	stdout   io.Writer
}

// New creates a Migrator targeting the live database behind pgURL. No
// connection is opened until an operation needs one.
func New(pgURL string, opts ...Option) (*Migrator, error) {
	options := &options{
		migrationsDir: DefaultMigrationsDir,
		schemaDir:     DefaultSchemaDir,
		stdout:        os.Stdout,
	}
	for _, o := range opts {
		o(options)
	}

	dbName, err := pgurl.DBName(pgURL)
	if err != nil {
		return nil, err
	}

	return &Migrator{
		pgURL:         pgURL,
		dbName:        dbName,
		migrationsDir: options.migrationsDir,
		schemaDir:     options.schemaDir,
		diffOpts:      options.diffOpts,
		stdout:        options.stdout,
	}, nil
}

// MigrationsDir returns the directory holding the migration chain.
func (m *Migrator) MigrationsDir() string {
	return m.migrationsDir
}

// SchemaDir returns the directory holding the declared schema tree.
func (m *Migrator) SchemaDir() string {
	return m.schemaDir
}

// LoadChain scans the migrations directory and validates the result into a
// chain.
func (m *Migrator) LoadChain() (chain.Chain, error) {
	paths, err := fsutil.ListSQLFiles(m.migrationsDir)
	if err != nil {
		return nil, err
	}
	return chain.Build(paths)
}

// Clean drops every transient database left behind on the server, returning
// the names of the databases it dropped.
func (m *Migrator) Clean(ctx context.Context) ([]string, error) {
	return tempdb.Clean(ctx, m.pgURL)
}
