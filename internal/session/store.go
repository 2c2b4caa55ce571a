// Package session stores client profiles for the lifetime of a chat
// session. Profiles expire: a session that goes quiet for longer than the
// store TTL is forgotten.
package session

import (
	"context"
	"errors"

	"github.com/lumenfield/clientintel/internal/intel"
)

// ErrNotFound is returned when a session is unknown or has expired.
var ErrNotFound = errors.New("session: profile not found")

// Store is the session profile store. Put refreshes the entry's TTL.
type Store interface {
	Get(ctx context.Context, sessionID string) (*intel.ClientProfile, error)
	Put(ctx context.Context, profile *intel.ClientProfile) error
	Delete(ctx context.Context, sessionID string) error
}
