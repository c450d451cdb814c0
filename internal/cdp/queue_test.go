package cdp

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBoundedQueue_PutGetFIFO(t *testing.T) {
	q := NewBoundedQueue(4)
	for i := 0; i < 3; i++ {
		if err := q.Put(i); err != nil {
			t.Fatalf("Put(%d): %v", i, err)
		}
	}
	for i := 0; i < 3; i++ {
		item, ok, err := q.Get(context.Background())
		if err != nil || !ok {
			t.Fatalf("Get: item=%v ok=%v err=%v", item, ok, err)
		}
		if item != i {
			t.Errorf("expected %d, got %v", i, item)
		}
	}
}

func TestBoundedQueue_Overflow(t *testing.T) {
	q := NewBoundedQueue(2)
	if err := q.Put(1); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := q.Put(2); err != nil {
		t.Fatalf("Put: %v", err)
	}
	err := q.Put(3)
	var overflow *QueueOverflow
	if !errors.As(err, &overflow) {
		t.Fatalf("expected *QueueOverflow, got %v", err)
	}
}

func TestBoundedQueue_DirectHandoffToWaiter(t *testing.T) {
	q := NewBoundedQueue(1)
	results := make(chan int, 1)
	go func() {
		item, ok, err := q.Get(context.Background())
		if err != nil || !ok {
			t.Errorf("Get: item=%v ok=%v err=%v", item, ok, err)
			return
		}
		results <- item.(int)
	}()

	// Give the goroutine time to suspend in Get before Put runs, so this
	// exercises the direct hand-off path rather than the buffered path.
	time.Sleep(10 * time.Millisecond)
	if err := q.Put(42); err != nil {
		t.Fatalf("Put: %v", err)
	}

	select {
	case got := <-results:
		if got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for handed-off item")
	}
}

func TestBoundedQueue_GetCancelled(t *testing.T) {
	q := NewBoundedQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := q.Get(ctx)
	if ok {
		t.Fatal("expected ok=false")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBoundedQueue_CloseWakesWaiters(t *testing.T) {
	q := NewBoundedQueue(1)
	done := make(chan error, 1)
	go func() {
		_, ok, err := q.Get(context.Background())
		if ok {
			done <- errors.New("expected ok=false after close")
			return
		}
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Get after close: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for closed wakeup")
	}
}
