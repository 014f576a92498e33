// SPDX-License-Identifier: Apache-2.0

package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blainehansen/postgres-migrator/pkg/chain"
	"github.com/blainehansen/postgres-migrator/pkg/db"
	"github.com/blainehansen/postgres-migrator/pkg/state"
)

// Apply brings the live database up to the end of the migration chain. Each
// pending migration's SQL and its bookkeeping row are committed in one
// transaction, so concurrent observers only ever see the two together.
//
// Onboard migrations are recorded without executing their SQL unless
// performOnboard is set, which replays them into a fresh development
// database. With dryRun set, the pending/applied decisions are made against
// the real database but nothing is executed or recorded.
func (m *Migrator) Apply(ctx context.Context, performOnboard, dryRun bool) error {
	c, err := m.LoadChain()
	if err != nil {
		return err
	}

	conn, err := db.Open(ctx, m.pgURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	actualVersion, err := state.LatestVersion(ctx, conn)
	if err != nil {
		return err
	}

	var execConn db.DB = conn
	if dryRun {
		execConn = &db.NoopDB{}
	}

	for i, f := range c {
		if i > 0 && f.IsOnboard {
			return &chain.ValidationError{Path: f.FilePath, Message: "onboard migrations are only valid as the first migration in the chain"}
		}

		name := filepath.Base(f.FilePath)

		pending := actualVersion == nil || f.CurrentVersion > *actualVersion
		if !pending {
			fmt.Fprintf(m.stdout, "not performing %s\n", name)
			continue
		}

		if dryRun {
			fmt.Fprintf(m.stdout, "would perform %s\n", name)
		} else {
			fmt.Fprintf(m.stdout, "performing %s\n", name)
		}

		if i == 0 {
			if err := state.EnsureVersionTable(ctx, execConn); err != nil {
				return err
			}
		}

		var contents []byte
		if !f.IsOnboard || performOnboard {
			contents, err = os.ReadFile(f.FilePath)
			if err != nil {
				return fmt.Errorf("unable to read %q: %w", f.FilePath, err)
			}
		}

		err = execConn.WithRetryableTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
			if len(contents) > 0 {
				if _, err := tx.ExecContext(ctx, string(contents)); err != nil {
					return fmt.Errorf("unable to apply %q: %w", f.FilePath, err)
				}
			}
			return state.RecordVersion(ctx, tx, f.CurrentVersion, f.PreviousVersion)
		})
		if err != nil {
			return err
		}
	}

	return nil
}
