// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blainehansen/postgres-migrator/pkg/pgurl"
)

// ConnectionError is returned when neither a TLS nor a plaintext connection
// attempt succeeded.
type ConnectionError struct {
	TLSErr       error
	PlaintextErr error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("unable to connect: TLS attempt failed (%s), plaintext attempt failed (%s)", e.TLSErr, e.PlaintextErr)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{e.TLSErr, e.PlaintextErr}
}

// Open connects to the database behind rawURL, first attempting a TLS
// handshake that accepts any certificate and hostname (matching the
// sslmode=prefer semantics most hosted Postgres servers expect), then
// falling back to a plaintext connection. This permissive posture is a
// compatibility choice, not a security claim. The returned Conn retries
// statements that lose lock races.
func Open(ctx context.Context, rawURL string) (*Conn, error) {
	tlsURL, err := pgurl.WithParam(rawURL, "sslmode", "require")
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	conn, tlsErr := dial(ctx, tlsURL)
	if tlsErr == nil {
		return Wrap(conn), nil
	}

	plainURL, err := pgurl.WithParam(rawURL, "sslmode", "disable")
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	conn, plainErr := dial(ctx, plainURL)
	if plainErr == nil {
		return Wrap(conn), nil
	}

	return nil, &ConnectionError{TLSErr: tlsErr, PlaintextErr: plainErr}
}

func dial(ctx context.Context, rawURL string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", rawURL)
	if err != nil {
		return nil, err
	}

	if err := conn.PingContext(ctx); err != nil {
		closeErr := conn.Close()
		return nil, errors.Join(err, closeErr)
	}

	return conn, nil
}
