package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLocalAcquireRelease(t *testing.T) {
	svc := NewLocalService()
	ctx := context.Background()

	h, err := svc.Acquire(ctx, "op:user-1", time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if h.Key != "op:user-1" {
		t.Fatalf("unexpected handle key %q", h.Key)
	}
	if err := svc.Release(ctx, h); err != nil {
		t.Fatalf("release: %v", err)
	}

	// The key must be free again.
	h2, err := svc.Acquire(ctx, "op:user-1", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	_ = svc.Release(ctx, h2)
}

func TestLocalAcquireTimesOutWhileHeld(t *testing.T) {
	svc := NewLocalService()
	ctx := context.Background()

	h, err := svc.Acquire(ctx, "op:user-1", time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer svc.Release(ctx, h)

	if _, err := svc.Acquire(ctx, "op:user-1", 50*time.Millisecond); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestLocalKeysAreIndependent(t *testing.T) {
	svc := NewLocalService()
	ctx := context.Background()

	h1, err := svc.Acquire(ctx, "op:user-1", time.Second)
	if err != nil {
		t.Fatalf("acquire user-1: %v", err)
	}
	defer svc.Release(ctx, h1)

	h2, err := svc.Acquire(ctx, "op:user-2", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("different key should not contend: %v", err)
	}
	_ = svc.Release(ctx, h2)
}

func TestLocalContextCancellation(t *testing.T) {
	svc := NewLocalService()
	ctx := context.Background()

	h, err := svc.Acquire(ctx, "op:user-1", time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer svc.Release(ctx, h)

	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := svc.Acquire(cancelCtx, "op:user-1", time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLocalReleaseUnheldIsNoop(t *testing.T) {
	svc := NewLocalService()
	ctx := context.Background()

	if err := svc.Release(ctx, &Handle{Key: "op:user-1"}); err != nil {
		t.Fatalf("release unheld: %v", err)
	}
	if err := svc.Release(ctx, nil); err != nil {
		t.Fatalf("release nil handle: %v", err)
	}
}

func TestLocalMutualExclusion(t *testing.T) {
	svc := NewLocalService()
	ctx := context.Background()

	const workers = 16
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := svc.Acquire(ctx, "op:shared", 5*time.Second)
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			counter++
			_ = svc.Release(ctx, h)
		}()
	}
	wg.Wait()
	if counter != workers {
		t.Fatalf("expected %d increments, got %d", workers, counter)
	}
}
