// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop all temporary databases left behind by crashed runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := NewMigrator()
		if err != nil {
			return err
		}

		dropped, err := m.Clean(cmd.Context())
		if err != nil {
			pterm.Error.Println(fmt.Sprintf("Failed to clean temporary databases: %s", err))
			return err
		}

		for _, name := range dropped {
			fmt.Printf("dropped %s\n", name)
		}
		pterm.Success.Println(fmt.Sprintf("Dropped %d temporary database(s)", len(dropped)))
		return nil
	},
}
