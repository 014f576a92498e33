// SPDX-License-Identifier: Apache-2.0

// Package pgurl manipulates Postgres connection URIs: swapping the target
// database name and overriding individual query parameters (such as
// sslmode), the way the tool needs to when materializing transient databases
// and retrying connections under different TLS postures.
package pgurl

import (
	"fmt"
	"net/url"
	"strings"
)

// DBName returns the database name encoded in the URI's path.
func DBName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("pgurl: parsing %q: %w", rawURL, err)
	}
	return strings.TrimPrefix(u.Path, "/"), nil
}

// WithDBName returns a copy of rawURL with its database name replaced.
func WithDBName(rawURL, dbName string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("pgurl: parsing %q: %w", rawURL, err)
	}
	u.Path = "/" + dbName
	return u.String(), nil
}

// WithParam returns a copy of rawURL with the given query parameter set,
// overriding any existing value.
func WithParam(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("pgurl: parsing %q: %w", rawURL, err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
