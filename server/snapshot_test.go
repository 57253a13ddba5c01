package server

import (
	"testing"
	"time"
)

func TestWaitersNotifyWakesAll(t *testing.T) {
	w := newSnapshotWaiters()

	a := w.wait("user-1")
	b := w.wait("user-1")
	other := w.wait("user-2")

	w.notify("user-1")

	for _, ch := range []chan struct{}{a, b} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("waiter not woken")
		}
	}

	select {
	case <-other:
		t.Fatalf("unrelated user's waiter was woken")
	default:
	}
}

func TestWaitersNotifyWithoutWaiters(t *testing.T) {
	w := newSnapshotWaiters()
	w.notify("nobody") // must not panic
}

func TestWaitersDropDeregisters(t *testing.T) {
	w := newSnapshotWaiters()

	kept := w.wait("user-1")
	gone := w.wait("user-1")
	w.drop("user-1", gone)

	w.notify("user-1")

	select {
	case <-kept:
	case <-time.After(time.Second):
		t.Fatalf("remaining waiter not woken")
	}
	select {
	case <-gone:
		t.Fatalf("dropped waiter must not be closed")
	default:
	}
}

func TestWaitersTimedOutPollsDoNotAccumulate(t *testing.T) {
	w := newSnapshotWaiters()

	// A subscriber that never sees a PUT registers and gives up over and
	// over; each round must leave nothing behind.
	for i := 0; i < 1000; i++ {
		ch := w.wait("idle-user")
		w.drop("idle-user", ch)
	}

	w.mu.Lock()
	_, ok := w.chans["idle-user"]
	w.mu.Unlock()
	if ok {
		t.Fatalf("timed-out waiters were retained")
	}
}

func TestWaitersResetAfterNotify(t *testing.T) {
	w := newSnapshotWaiters()

	first := w.wait("user-1")
	w.notify("user-1")
	<-first

	// A new waiter registered after the broadcast stays open until the
	// next notify.
	second := w.wait("user-1")
	select {
	case <-second:
		t.Fatalf("fresh waiter must not be closed")
	default:
	}
	w.notify("user-1")
	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatalf("waiter not woken")
	}
}
