// Package sessions persists registration workflow instances between requests.
package sessions

import (
	"context"
	"errors"
	"time"

	"esports-registration/registration"
)

var (
	ErrNotFound = errors.New("registration session not found")
	// ErrLocked is returned by Lock while another request holds the session.
	ErrLocked = errors.New("registration session is busy, please try again")
)

// Store keeps one workflow per session id. Policy is not persisted; callers
// reattach it after Load.
type Store interface {
	Load(ctx context.Context, id string) (registration.Workflow, error)
	Save(ctx context.Context, id string, w registration.Workflow) error
	Delete(ctx context.Context, id string) error
	// Lock takes an exclusive lease on id that expires after ttl unless
	// released earlier by calling unlock.
	Lock(ctx context.Context, id string, ttl time.Duration) (unlock func(), err error)
}
