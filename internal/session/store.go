package session

import (
	"context"
	"time"
)

// User is a snapshot of the identity backend's view of an account.
// It is a cache, not a source of truth: fields are only ever copied
// from backend responses, never computed locally.
type User struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	EmailValidated bool   `json:"emailValidated"`
}

// Record is the per-browser-session state held by the proxy.
// A nil User means the session is anonymous and authorizes nothing.
type Record struct {
	SessionID string    `json:"sessionId"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Authenticated reports whether the record carries a user snapshot.
func (r *Record) Authenticated() bool {
	return r != nil && r.User != nil
}

// Store defines how session records are stored and retrieved.
// Get returns (nil, nil) when no record exists for the ID, so callers
// can distinguish a missing session from a store failure.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Record, error)
	Put(ctx context.Context, sessionID string, rec *Record, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}
