// SPDX-License-Identifier: Apache-2.0

// Package chain parses and validates the doubly-linked chain of versioned
// migration files that make up a migration history.
package chain

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// NullSentinel is the filename token for "no predecessor".
	NullSentinel = "null"
	// OnboardSentinel is the filename token for "predecessor exists but is
	// not to be executed against this database".
	OnboardSentinel = "onboard"

	// versionLength is the fixed width of a version token.
	versionLength = 14
)

// ValidationError reports a chain invariant violation, naming the
// offending path.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// File represents one forward diff in the migration chain.
type File struct {
	// FilePath is the location of the migration file on disk.
	FilePath string
	// CurrentVersion is the version token this diff produces.
	CurrentVersion string
	// PreviousVersion is the version token this diff starts from, or nil if
	// this file has no predecessor (the null sentinel).
	PreviousVersion *string
	// IsOnboard is true when the filename's previous slot was literally
	// "onboard": this file must be recorded but not executed unless the
	// caller explicitly asks to replay onboard migrations.
	IsOnboard bool
	// DescriptionSlug is the free-form, non-semantic identifier from the
	// filename.
	DescriptionSlug string
}

// Chain is the ordered, validated sequence of migration files.
type Chain []File

// parseFilename splits a migration file's basename into its three fields
// per the "<current>.<previous>.<slug>.sql" grammar.
func parseFilename(path string) (current, previous, slug string, err error) {
	base := filepath.Base(path)
	parts := strings.Split(base, ".")
	if len(parts) < 4 || parts[len(parts)-1] != "sql" {
		return "", "", "", &ValidationError{Path: path, Message: "filename does not match <current>.<previous>.<slug>.sql"}
	}
	current = parts[0]
	previous = parts[1]
	slug = strings.Join(parts[2:len(parts)-1], ".")
	return current, previous, slug, nil
}

// Build parses an ordered sequence of migration file paths (as returned by
// fsutil.ListSQLFiles) into a validated Chain: version tokens are exactly
// 14 characters, each file's previous version links to its predecessor, and
// versions strictly ascend.
func Build(paths []string) (Chain, error) {
	files := make(Chain, 0, len(paths))

	// lastCurrent tracks the version token the previous file in the chain
	// produced; nil represents the null sentinel (no migration processed yet).
	var lastCurrent *string

	for i, path := range paths {
		current, previous, slug, err := parseFilename(path)
		if err != nil {
			return nil, err
		}

		f := File{
			FilePath:        path,
			CurrentVersion:  current,
			DescriptionSlug: slug,
		}

		switch previous {
		case OnboardSentinel:
			if i != 0 || lastCurrent != nil {
				return nil, &ValidationError{Path: path, Message: "onboard migrations are only valid as the first migration in the chain"}
			}
			f.IsOnboard = true

		case NullSentinel:
			if i != 0 || lastCurrent != nil {
				return nil, &ValidationError{Path: path, Message: "previous version is null, but this is not the first migration in the chain"}
			}

		default:
			expected := NullSentinel
			if lastCurrent != nil {
				expected = *lastCurrent
			}
			if lastCurrent == nil || previous != *lastCurrent {
				return nil, &ValidationError{Path: path, Message: fmt.Sprintf("expected previous version %q, got %q", expected, previous)}
			}
			prev := previous
			f.PreviousVersion = &prev
		}

		if len(f.CurrentVersion) != versionLength {
			return nil, &ValidationError{Path: path, Message: fmt.Sprintf("current version %q must be exactly %d characters", f.CurrentVersion, versionLength)}
		}

		if f.PreviousVersion != nil && !(f.CurrentVersion > *f.PreviousVersion) {
			return nil, &ValidationError{Path: path, Message: fmt.Sprintf("current version %q must be lexicographically greater than previous version %q", f.CurrentVersion, *f.PreviousVersion)}
		}

		cur := f.CurrentVersion
		lastCurrent = &cur
		files = append(files, f)
	}

	return files, nil
}

// Last returns the current version of the final file in the chain, or the
// null sentinel if the chain is empty.
func (c Chain) Last() *string {
	if len(c) == 0 {
		return nil
	}
	v := c[len(c)-1].CurrentVersion
	return &v
}

// Filename builds the filename for a migration file given its fields, per
// the "<current>.<previous>.<slug>.sql" grammar. previous is NullSentinel or
// OnboardSentinel or a version token.
func Filename(current, previous, descriptionSlug string) string {
	return fmt.Sprintf("%s.%s.%s.sql", current, previous, descriptionSlug)
}
