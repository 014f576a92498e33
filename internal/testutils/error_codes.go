// SPDX-License-Identifier: Apache-2.0

package testutils

// Postgres condition names the bookkeeping-table constraints fail with.
const (
	CheckViolationErrorCode  string = "check_violation"
	UniqueViolationErrorCode string = "unique_violation"
)
