package service

import (
	"testing"
	"time"
)

func TestNotifierFanOut(t *testing.T) {
	n := NewNotifier()
	a, cancelA := n.Subscribe()
	b, cancelB := n.Subscribe()
	defer cancelA()
	defer cancelB()

	n.Publish(Event{Type: EventDataChanged})

	for _, ch := range []<-chan Event{a, b} {
		select {
		case ev := <-ch:
			if ev.Type != EventDataChanged {
				t.Errorf("event type = %q, want %q", ev.Type, EventDataChanged)
			}
			if ev.At.IsZero() {
				t.Error("publish did not stamp the event time")
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber never received the event")
		}
	}
}

func TestNotifierCancelStopsDelivery(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe()
	cancel()

	// Publishing after cancel must not panic on the closed channel.
	n.Publish(Event{Type: EventDataChanged})

	if _, ok := <-ch; ok {
		t.Error("cancelled subscriber still received an event")
	}

	// Cancel is safe to call twice.
	cancel()
}

func TestNotifierDropsWhenSubscriberIsFull(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe()
	defer cancel()

	// Overflow the subscriber buffer without draining it. Publish must
	// never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			n.Publish(Event{Type: EventSyncStatus, Status: SyncStatusSyncing})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	if len(ch) != cap(ch) {
		t.Errorf("subscriber buffer holds %d events, want full (%d)", len(ch), cap(ch))
	}
}
