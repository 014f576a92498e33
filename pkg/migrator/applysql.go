// SPDX-License-Identifier: Apache-2.0

package migrator

import (
	"context"
	"fmt"
	"os"

	"github.com/blainehansen/postgres-migrator/pkg/db"
)

// applySQLFiles opens one connection to url and executes each file's
// contents in order as a single batch, allowing multiple semicolon-separated
// statements per file. The first SQL error aborts the sequence.
func applySQLFiles(ctx context.Context, url string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	conn, err := db.Open(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, path := range paths {
		contents, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read %q: %w", path, err)
		}
		if len(contents) == 0 {
			continue
		}
		if _, err := conn.ExecContext(ctx, string(contents)); err != nil {
			return fmt.Errorf("unable to apply %q: %w", path, err)
		}
	}

	return nil
}
