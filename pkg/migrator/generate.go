// SPDX-License-Identifier: Apache-2.0

package migrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pgq "github.com/pganalyze/pg_query_go/v6"

	"github.com/blainehansen/postgres-migrator/pkg/chain"
	"github.com/blainehansen/postgres-migrator/pkg/differ"
	"github.com/blainehansen/postgres-migrator/pkg/slug"
)

// createTimestamp produces the 14-character UTC version token for a new
// migration.
func createTimestamp() string {
	return time.Now().UTC().Format("20060102150405")
}

// Generate materializes the migration history and the declared schema into
// two transient databases, diffs them, and persists the diff as the next
// file in the chain. Returns the new file's version token.
//
// With isOnboard set the chain must be empty: the generated file records a
// schema that already exists in production and will not be executed by
// Apply unless explicitly replayed.
func (m *Migrator) Generate(ctx context.Context, description string, isOnboard bool) (string, error) {
	if m.dbName == "" {
		return "", &ConfigurationError{Message: "connection URL must include a database name to generate migrations"}
	}

	if err := os.MkdirAll(m.migrationsDir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create %q: %w", m.migrationsDir, err)
	}

	c, err := m.LoadChain()
	if err != nil {
		return "", err
	}
	if isOnboard && len(c) > 0 {
		return "", &ConfigurationError{Message: "onboard migrations can only be generated when the migration chain is empty"}
	}

	previous := chain.NullSentinel
	if last := c.Last(); last != nil {
		previous = *last
	} else if isOnboard {
		previous = chain.OnboardSentinel
	}
	current := createTimestamp()

	sourceURI, releaseSource, err := m.materialize(ctx, BackendMigrations, false)
	if err != nil {
		return "", err
	}
	defer releaseSource()

	targetURI, releaseTarget, err := m.materialize(ctx, BackendSchema, false)
	if err != nil {
		return "", err
	}
	defer releaseTarget()

	diff, err := differ.Compute(ctx, sourceURI, targetURI, m.diffOpts)
	if err != nil {
		return "", err
	}

	// Catch a malformed diff before it is persisted into the chain.
	if diff != "" {
		if _, err := pgq.Parse(diff); err != nil {
			return "", fmt.Errorf("diff tool produced unparseable SQL: %w", err)
		}
	}

	filename := chain.Filename(current, previous, slug.Make(description))
	path := filepath.Join(m.migrationsDir, filename)
	if err := os.WriteFile(path, []byte(diff), 0o644); err != nil {
		return "", fmt.Errorf("unable to write %q: %w", path, err)
	}

	fmt.Fprintf(m.stdout, "generated %s\n", filename)
	return current, nil
}
