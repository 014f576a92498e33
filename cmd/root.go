// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blainehansen/postgres-migrator/cmd/flags"
	"github.com/blainehansen/postgres-migrator/pkg/differ"
	"github.com/blainehansen/postgres-migrator/pkg/migrator"
)

// Version is the postgres-migrator version
var Version = "development"

func init() {
	viper.SetEnvPrefix("PGMIGRATOR")
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("pg-url", "", "Postgres URL of the live database")
	rootCmd.PersistentFlags().Bool("exclude-privileges", false, "Exclude privilege changes from generated diffs")
	rootCmd.PersistentFlags().String("schema", "", "Only consider this Postgres schema when diffing")
	rootCmd.PersistentFlags().String("exclude-schema", "", "Ignore this Postgres schema when diffing")
	rootCmd.PersistentFlags().String("schema-directory", migrator.DefaultSchemaDir, "Directory holding the declared schema tree")
	rootCmd.PersistentFlags().String("migrations-directory", migrator.DefaultMigrationsDir, "Directory holding the migration chain")

	viper.BindPFlag("PG_URL", rootCmd.PersistentFlags().Lookup("pg-url"))
	viper.BindPFlag("EXCLUDE_PRIVILEGES", rootCmd.PersistentFlags().Lookup("exclude-privileges"))
	viper.BindPFlag("SCHEMA", rootCmd.PersistentFlags().Lookup("schema"))
	viper.BindPFlag("EXCLUDE_SCHEMA", rootCmd.PersistentFlags().Lookup("exclude-schema"))
	viper.BindPFlag("SCHEMA_DIRECTORY", rootCmd.PersistentFlags().Lookup("schema-directory"))
	viper.BindPFlag("MIGRATIONS_DIRECTORY", rootCmd.PersistentFlags().Lookup("migrations-directory"))

	// PG_URL is also honored without the PGMIGRATOR_ prefix.
	viper.BindEnv("PG_URL", "PGMIGRATOR_PG_URL", "PG_URL")
}

var rootCmd = &cobra.Command{
	Use:          "postgres-migrator",
	SilenceUsage: true,
	Version:      Version,
}

// NewMigrator builds a Migrator from the global flags.
func NewMigrator() (*migrator.Migrator, error) {
	if flags.Schema() != "" && flags.ExcludeSchema() != "" {
		return nil, errSchemaFlagsExclusive
	}

	return migrator.New(flags.PostgresURL(),
		migrator.WithMigrationsDir(flags.MigrationsDirectory()),
		migrator.WithSchemaDir(flags.SchemaDirectory()),
		migrator.WithDiffOptions(differ.Options{
			ExcludePrivileges: flags.ExcludePrivileges(),
			OnlySchema:        flags.Schema(),
			ExcludeSchema:     flags.ExcludeSchema(),
		}),
	)
}

// Execute executes the root command.
func Execute() error {
	// register subcommands
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(compactCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(cleanCmd)

	return rootCmd.Execute()
}
