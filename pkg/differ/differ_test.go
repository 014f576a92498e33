// SPDX-License-Identifier: Apache-2.0

package differ_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blainehansen/postgres-migrator/pkg/differ"
	"github.com/blainehansen/postgres-migrator/pkg/testutils"
)

const (
	sourceURI = "postgres://localhost/source"
	targetURI = "postgres://localhost/target"
)

func TestComputeTrimsStdout(t *testing.T) {
	testutils.StubDiffTool(t, `printf '\n  ALTER TABLE users ADD COLUMN age INT;  \n\n'`)

	out, err := differ.Compute(context.Background(), sourceURI, targetURI, differ.Options{})
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE users ADD COLUMN age INT;", out)
}

func TestComputeArgs(t *testing.T) {
	testutils.StubDiffTool(t, `echo "$@"`)

	out, err := differ.Compute(context.Background(), sourceURI, targetURI, differ.Options{})
	require.NoError(t, err)
	assert.Equal(t, "--unsafe --with-privileges "+sourceURI+" "+targetURI, out)

	out, err = differ.Compute(context.Background(), sourceURI, targetURI, differ.Options{ExcludePrivileges: true})
	require.NoError(t, err)
	assert.Equal(t, "--unsafe "+sourceURI+" "+targetURI, out)

	out, err = differ.Compute(context.Background(), sourceURI, targetURI, differ.Options{OnlySchema: "app"})
	require.NoError(t, err)
	assert.Contains(t, out, "--schema=app")
	assert.NotContains(t, out, "--exclude_schema")

	out, err = differ.Compute(context.Background(), sourceURI, targetURI, differ.Options{ExcludeSchema: "audit"})
	require.NoError(t, err)
	assert.Contains(t, out, "--exclude_schema=audit")
}

func TestComputeRejectsBothSchemaOptions(t *testing.T) {
	t.Parallel()

	_, err := differ.Compute(context.Background(), sourceURI, targetURI, differ.Options{
		OnlySchema:    "app",
		ExcludeSchema: "audit",
	})
	require.Error(t, err)
}

func TestComputeFailsOnStderr(t *testing.T) {
	testutils.StubDiffTool(t, `echo 'some diff' ; echo 'connection refused' >&2 ; exit 3`)

	_, err := differ.Compute(context.Background(), sourceURI, targetURI, differ.Options{})
	require.Error(t, err)

	var subErr *differ.SubprocessError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, 3, subErr.ExitCode)
	assert.Contains(t, string(subErr.Stderr), "connection refused")
}

func TestComputeNonzeroExitWithCleanStderrSucceeds(t *testing.T) {
	// migra exits 2 when it finds differences; that is not a failure.
	testutils.StubDiffTool(t, `echo 'DROP TABLE old;' ; exit 2`)

	out, err := differ.Compute(context.Background(), sourceURI, targetURI, differ.Options{})
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE old;", out)
}

func TestComputeSpawnFailure(t *testing.T) {
	previous := differ.Command
	differ.Command = "/does/not/exist/migra"
	t.Cleanup(func() { differ.Command = previous })

	_, err := differ.Compute(context.Background(), sourceURI, targetURI, differ.Options{})
	require.Error(t, err)

	var subErr *differ.SubprocessError
	require.ErrorAs(t, err, &subErr)
	assert.Error(t, subErr.Err)
}
