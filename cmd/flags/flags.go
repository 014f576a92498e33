// SPDX-License-Identifier: Apache-2.0

package flags

import (
	"github.com/spf13/viper"
)

func PostgresURL() string {
	return viper.GetString("PG_URL")
}

func ExcludePrivileges() bool {
	return viper.GetBool("EXCLUDE_PRIVILEGES")
}

func Schema() string {
	return viper.GetString("SCHEMA")
}

func ExcludeSchema() string {
	return viper.GetString("EXCLUDE_SCHEMA")
}

func SchemaDirectory() string {
	return viper.GetString("SCHEMA_DIRECTORY")
}

func MigrationsDirectory() string {
	return viper.GetString("MIGRATIONS_DIRECTORY")
}
