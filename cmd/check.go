// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/blainehansen/postgres-migrator/pkg/migrator"
)

var checkCmd = &cobra.Command{
	Use:       "check <source> <target>",
	Short:     "Fail unless the two backends are structurally identical",
	Example:   "check migrations schema",
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

		if err := m.Check(cmd.Context(), source, target); err != nil {
			pterm.Error.Println(fmt.Sprintf("Check failed: %s", err))
			return err
		}

		pterm.Success.Println(fmt.Sprintf("%s and %s are identical", source, target))
		return nil
	},
}
