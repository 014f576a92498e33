// SPDX-License-Identifier: Apache-2.0

package cmd

import "errors"

var errSchemaFlagsExclusive = errors.New("--schema and --exclude-schema are mutually exclusive")
