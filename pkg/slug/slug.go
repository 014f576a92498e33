// SPDX-License-Identifier: Apache-2.0

// Package slug turns free-form migration descriptions into the filesystem-safe
// identifiers used in migration filenames.
package slug

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`\W+`)

// Make replaces every maximal run of non-word characters in text with a
// single underscore and lowercases the result.
func Make(text string) string {
	return strings.ToLower(nonWord.ReplaceAllString(text, "_"))
}
