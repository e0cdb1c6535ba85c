package service

import (
	"sync"
	"time"
)

// Event types published by the sync layer.
const (
	EventDataChanged = "data"
	EventSyncStatus  = "status"
	EventSyncError   = "error"
)

// Event is one notification for UI consumers: the document changed from
// an external source, the sync status flipped, or a sync error needs
// surfacing.
type Event struct {
	Type      string    `json:"type"`
	Status    string    `json:"status,omitempty"`
	LatencyMS int64     `json:"latency_ms,omitempty"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}

// Notifier fans events out to subscribers. Slow subscribers drop events
// rather than blocking the publisher; every event is advisory and the
// current state is always re-readable from the store.
type Notifier struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[chan Event]struct{})}
}

// Subscribe returns a buffered event channel and a cancel function that
// must be called when the consumer goes away.
func (n *Notifier) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if _, ok := n.subs[ch]; ok {
			delete(n.subs, ch)
			close(ch)
		}
		n.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to all current subscribers, dropping it
// for any whose buffer is full.
func (n *Notifier) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
