// SPDX-License-Identifier: Apache-2.0

package migrator

import (
	"context"
	"fmt"
	"os"

	"github.com/blainehansen/postgres-migrator/pkg/db"
	"github.com/blainehansen/postgres-migrator/pkg/fsutil"
	"github.com/blainehansen/postgres-migrator/pkg/state"
)

// Compact collapses the accumulated migration history into a single
// baseline. It first generates and applies a migration bringing the live
// database fully up to the declared schema, then purges the migrations
// directory, regenerates one baseline file from scratch, and reseeds the
// bookkeeping table with that baseline as its only row.
func (m *Migrator) Compact(ctx context.Context) error {
	if _, err := m.Generate(ctx, "ensuring_current", false); err != nil {
		return err
	}
	if err := m.Apply(ctx, false, false); err != nil {
		return err
	}

	paths, err := fsutil.ListSQLFiles(m.migrationsDir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("unable to purge %q: %w", path, err)
		}
	}

	if _, err := m.Generate(ctx, "compacted_initial", false); err != nil {
		return err
	}

	// Read the baseline version back off the freshly-purged directory
	// rather than trusting the version Generate returned.
	c, err := m.LoadChain()
	if err != nil {
		return err
	}
	baseline := c.Last()
	if baseline == nil {
		return fmt.Errorf("migrations directory is empty after compacting")
	}

	conn, err := db.Open(ctx, m.pgURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	return state.Reseed(ctx, conn, *baseline)
}
