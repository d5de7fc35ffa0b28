package auth

import (
	"time"

	"github.com/google/uuid"
)

// Principal is the authenticated caller. It is passed explicitly into every
// service entry point.
type Principal struct {
	UserID    uuid.UUID
	Email     string
	SessionID string
	ExpiresAt time.Time
}

func (p Principal) IsZero() bool { return p.UserID == uuid.Nil }
