package cdp

import (
	"context"
	"testing"
	"time"
)

func TestListener_PutAfterClose(t *testing.T) {
	l := NewListener(4)
	l.Close()
	err := l.Put("event")
	if _, ok := err.(*ListenerClosed); !ok {
		t.Fatalf("expected *ListenerClosed, got %v", err)
	}
}

func TestListener_DeliverBeforeTerminate(t *testing.T) {
	// A consumer already suspended in Next still receives an event that
	// arrives via direct hand-off even if Close races in shortly after.
	l := NewListener(4)
	consumer := l.Consumer()

	results := make(chan any, 1)
	go func() {
		payload, ok, err := consumer.Next(context.Background())
		if err != nil {
			t.Errorf("Next: %v", err)
			return
		}
		if !ok {
			t.Error("expected ok=true for the delivered event")
			return
		}
		results <- payload
	}()

	time.Sleep(10 * time.Millisecond)
	if err := l.Put("hello"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	l.Close()

	select {
	case got := <-results:
		if got != "hello" {
			t.Errorf("expected %q, got %v", "hello", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivered event")
	}
}

func TestListener_CreateConsumerAfterClose(t *testing.T) {
	// A buffered-but-undelivered item put before Close is still drained
	// by a consumer view created after Close was observed (spec.md §3:
	// "drains pre-close contents and observing the close signal").
	l := NewListener(4)
	if err := l.Put("buffered"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	l.Close()

	consumer := l.Consumer()
	payload, ok, err := consumer.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !ok || payload != "buffered" {
		t.Fatalf("expected (%q, true), got (%v, %v)", "buffered", payload, ok)
	}

	_, ok, err = consumer.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false once the buffered item and the CLOSE sentinel are drained")
	}
}

func TestListener_CloseDrainsFullQueueEvenIfSentinelOverflows(t *testing.T) {
	// A full queue drops the CLOSE sentinel on overflow; the queue's own
	// Close backstop still guarantees termination once every buffered
	// item is drained, instead of Next blocking forever.
	l := NewListener(2)
	if err := l.Put("first"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := l.Put("second"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	l.Close()

	consumer := l.Consumer()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for _, want := range []string{"first", "second"} {
		payload, ok, err := consumer.Next(ctx)
		if err != nil || !ok || payload != want {
			t.Fatalf("Next: payload=%v ok=%v err=%v, want %q", payload, ok, err, want)
		}
	}

	_, ok, err := consumer.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false after draining both buffered items")
	}
}

func TestListener_NextAfterEndOfSequenceStaysFalse(t *testing.T) {
	l := NewListener(4)
	l.Close()
	consumer := l.Consumer()
	for i := 0; i < 2; i++ {
		_, ok, err := consumer.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if ok {
			t.Fatalf("call %d: expected ok=false", i)
		}
	}
}
