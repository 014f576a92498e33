// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Collapse the migration history into a single baseline migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := NewMigrator()
		if err != nil {
			return err
		}

		if err := m.Compact(cmd.Context()); err != nil {
			pterm.Error.Println(fmt.Sprintf("Failed to compact migrations: %s", err))
			return err
		}

		pterm.Success.Println("Migrations compacted")
		return nil
	},
}
