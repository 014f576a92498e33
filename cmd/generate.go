// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	var isOnboard bool

	generateCmd := &cobra.Command{
		Use:     "generate <description>",
		Short:   "Generate the next migration by diffing the migration history against the declared schema",
		Example: "generate 'add users table'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := NewMigrator()
			if err != nil {
				return err
			}

			sp, _ := pterm.DefaultSpinner.WithText("Generating migration...").Start()
			version, err := m.Generate(cmd.Context(), args[0], isOnboard)
			if err != nil {
				sp.Fail(fmt.Sprintf("Failed to generate migration: %s", err))
				return err
			}

			sp.Success(fmt.Sprintf("New migration version is %s", version))
			return nil
		},
	}

	generateCmd.Flags().BoolVar(&isOnboard, "is-onboard", false, "Record an already-existing schema instead of one to be executed")

	return generateCmd
}
