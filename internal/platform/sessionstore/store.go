// Package sessionstore remembers revoked session ids until the session would
// have expired anyway.
package sessionstore

import (
	"context"
	"time"
)

type Store interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
	Close() error
}
