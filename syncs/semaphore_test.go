package syncs

import (
	"context"
	"errors"
	"testing"
)

func TestSemaphore(t *testing.T) {
	sem := NewSemaphore(2)
	ctx := context.Background()
	if err := sem.Acquire(ctx); err != nil {
		t.Fatal(err)
	}
	if !sem.TryAcquire() {
		t.Fatal()
	}
	if sem.TryAcquire() {
		t.Fatal()
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := sem.Acquire(canceled); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}

	sem.Release()
	if !sem.TryAcquire() {
		t.Fatal()
	}
}
