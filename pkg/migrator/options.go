// SPDX-License-Identifier: Apache-2.0

package migrator

import (
	"io"

	"github.com/blainehansen/postgres-migrator/pkg/differ"
)

type options struct {
	migrationsDir string
	schemaDir     string
	diffOpts      differ.Options
	stdout        io.Writer
}

type Option func(*options)

// WithMigrationsDir sets the directory holding the migration chain.
func WithMigrationsDir(dir string) Option {
	return func(o *options) {
		o.migrationsDir = dir
	}
}

// WithSchemaDir sets the directory holding the declared schema tree.
func WithSchemaDir(dir string) Option {
	return func(o *options) {
		o.schemaDir = dir
	}
}

// WithDiffOptions narrows every structural diff the Migrator computes.
func WithDiffOptions(opts differ.Options) Option {
	return func(o *options) {
		o.diffOpts = opts
	}
}

// WithStdout redirects the Migrator's progress output.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}
