// SPDX-License-Identifier: Apache-2.0

package migrator

import (
	"context"

	"github.com/blainehansen/postgres-migrator/pkg/db"
	"github.com/blainehansen/postgres-migrator/pkg/differ"
	"github.com/blainehansen/postgres-migrator/pkg/state"
)

// Diff materializes both backends and returns the SQL that would transform
// the source's structure into the target's, or the empty string when the
// two already match.
func (m *Migrator) Diff(ctx context.Context, source, target Backend) (string, error) {
	if source == target {
		return "", ErrSameBackends
	}

	// When one side of the diff is the live database, the transient side
	// must mirror its bookkeeping table, or every diff would try to drop it.
	needVersionTable := false
	if source == BackendDatabase || target == BackendDatabase {
		var err error
		needVersionTable, err = m.liveVersionTableExists(ctx)
		if err != nil {
			return "", err
		}
	}

	sourceURI, releaseSource, err := m.materialize(ctx, source, needVersionTable)
	if err != nil {
		return "", err
	}
	defer releaseSource()

	targetURI, releaseTarget, err := m.materialize(ctx, target, needVersionTable)
	if err != nil {
		return "", err
	}
	defer releaseTarget()

	return differ.Compute(ctx, sourceURI, targetURI, m.diffOpts)
}

// Check fails with a DiffNotEmptyError iff the two backends differ.
func (m *Migrator) Check(ctx context.Context, source, target Backend) error {
	diff, err := m.Diff(ctx, source, target)
	if err != nil {
		return err
	}
	if diff != "" {
		return &DiffNotEmptyError{Source: source, Target: target, Diff: diff}
	}
	return nil
}

func (m *Migrator) liveVersionTableExists(ctx context.Context) (bool, error) {
	conn, err := db.Open(ctx, m.pgURL)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	return state.VersionTableExists(ctx, conn)
}
