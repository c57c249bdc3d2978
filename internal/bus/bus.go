package bus

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Bus fans messenger events out to buffered subscriber channels. A nil *Bus
// discards everything, so components can run without one.
type Bus struct {
	mu      sync.RWMutex
	subs    []*subscription
	dropped atomic.Uint64
}

type subscription struct {
	prefixes []string
	ch       chan Event
}

// wants reports whether kind falls under one of the subscribed prefixes.
// A subscription without prefixes takes every event.
func (s *subscription) wants(kind string) bool {
	if len(s.prefixes) == 0 {
		return true
	}
	for _, p := range s.prefixes {
		if strings.HasPrefix(kind, p) {
			return true
		}
	}
	return false
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{}
}

// Publish delivers evt to every interested subscriber. A subscriber whose
// buffer is full misses the event; the publisher never blocks.
func (b *Bus) Publish(evt Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if !sub.wants(evt.Kind) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			b.dropped.Add(1)
		}
	}
}

// Emit publishes an event of the given kind stamped with the current time.
func (b *Bus) Emit(kind string, payload any) {
	b.Publish(Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}

// Subscribe registers a channel with room for bufSize events that receives
// every event whose kind starts with one of prefixes, or all events when none
// are given. The returned func removes the subscription; the channel is left
// open.
func (b *Bus) Subscribe(bufSize int, prefixes ...string) (<-chan Event, func()) {
	sub := &subscription{prefixes: prefixes, ch: make(chan Event, bufSize)}
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s == sub {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Dropped returns how many deliveries were skipped because a subscriber was
// behind.
func (b *Bus) Dropped() uint64 {
	if b == nil {
		return 0
	}
	return b.dropped.Load()
}
