// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var performOnboard bool
	var dryRun bool

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply all pending migrations to the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := NewMigrator()
			if err != nil {
				return err
			}

			if err := m.Apply(cmd.Context(), performOnboard, dryRun); err != nil {
				pterm.Error.Println(fmt.Sprintf("Failed to apply migrations: %s", err))
				return err
			}

			if dryRun {
				pterm.Success.Println("Dry run complete")
			} else {
				pterm.Success.Println("Database is up to date")
			}
			return nil
		},
	}

	migrateCmd.Flags().BoolVar(&performOnboard, "actually-perform-onboard-migrations", false, "Execute onboard migrations instead of only recording them")
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be applied without touching the database")

	return migrateCmd
}
