package lock

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when a lease could not be acquired within the
// caller's timeout. Callers surface it as a retry-later error and must never
// proceed without the lease.
var ErrTimeout = errors.New("lock: acquire timed out")

// DefaultAcquireTimeout bounds how long Acquire blocks when the caller passes
// a non-positive timeout.
const DefaultAcquireTimeout = 5 * time.Second

// Handle identifies one held lease. Release accepts only the handle returned
// by the matching Acquire, so a lease that expired and was re-granted to
// another holder cannot be released by the original owner.
type Handle struct {
	Key   string
	Token string
}

// Service provides named, time-bounded mutual exclusion. Keys are composed by
// callers as "<operation>:<userID>" so contention is per-user-per-operation.
type Service interface {
	// Acquire blocks up to timeout waiting for the lease on key. It returns
	// ErrTimeout when the lease was not granted in time.
	Acquire(ctx context.Context, key string, timeout time.Duration) (*Handle, error)
	// Release frees the lease. It must be called exactly once on every exit
	// path of the holder; releasing an expired or foreign lease is a no-op.
	Release(ctx context.Context, h *Handle) error
}
