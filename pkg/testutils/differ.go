// SPDX-License-Identifier: Apache-2.0

package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blainehansen/postgres-migrator/pkg/differ"
)

// StubDiffTool replaces the external diff executable with a shell script for
// the duration of the test, so the subprocess contract can be exercised
// without migra installed. Tests using it must not run in parallel.
func StubDiffTool(t *testing.T, script string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "migra")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	previous := differ.Command
	differ.Command = path
	t.Cleanup(func() {
		differ.Command = previous
	})
}
