// SPDX-License-Identifier: Apache-2.0

package migrator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blainehansen/postgres-migrator/pkg/migrator"
)

func TestParseBackend(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want migrator.Backend
	}{
		{in: "migrations", want: migrator.BackendMigrations},
		{in: "schema", want: migrator.BackendSchema},
		{in: "database", want: migrator.BackendDatabase},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			b, err := migrator.ParseBackend(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, b)
			assert.Equal(t, tc.in, b.String())
		})
	}
}

func TestParseBackendRejectsUnknown(t *testing.T) {
	t.Parallel()

	_, err := migrator.ParseBackend("production")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "production")
}
