package lock

import (
	"context"
	"sync"
	"time"
)

// localService implements Service with in-process semaphores. It backs tests
// and single-instance deployments; multi-instance deployments use the redis
// implementation.
type localService struct {
	mu   sync.Mutex
	sems map[string]chan struct{}
}

func NewLocalService() Service {
	return &localService{sems: make(map[string]chan struct{})}
}

func (s *localService) sem(key string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	sem, ok := s.sems[key]
	if !ok {
		sem = make(chan struct{}, 1)
		s.sems[key] = sem
	}
	return sem
}

func (s *localService) Acquire(ctx context.Context, key string, timeout time.Duration) (*Handle, error) {
	if timeout <= 0 {
		timeout = DefaultAcquireTimeout
	}
	sem := s.sem(key)
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case sem <- struct{}{}:
		return &Handle{Key: key}, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *localService) Release(_ context.Context, h *Handle) error {
	if h == nil {
		return nil
	}
	sem := s.sem(h.Key)
	select {
	case <-sem:
	default:
		// Releasing an unheld lease is a no-op, matching the redis
		// implementation's behavior for expired leases.
	}
	return nil
}
