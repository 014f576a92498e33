// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blainehansen/postgres-migrator/pkg/migrator"
)

var diffCmd = &cobra.Command{
	Use:       "diff <source> <target>",
	Short:     "Print the SQL that would make the source backend structurally equal to the target",
	Example:   "diff database schema",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"migrations", "schema", "database"},
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := migrator.ParseBackend(args[0])
		if err != nil {
			return err
		}
		target, err := migrator.ParseBackend(args[1])
		if err != nil {
			return err
		}

		m, err := NewMigrator()
		if err != nil {
			return err
		}

		diff, err := m.Diff(cmd.Context(), source, target)
		if err != nil {
			return err
		}

		fmt.Println(diff)
		return nil
	},
}
