package event

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

const subscriberBuffer = 100

type subscription struct {
	ch     chan Event
	topics []string
}

func (s subscription) wants(e Event) bool {
	return len(s.topics) == 0 || slices.Contains(s.topics, e.Type.Topic())
}

// InMemoryBus fans events out to subscribers, each optionally limited to a
// set of topics.
type InMemoryBus struct {
	mu          sync.RWMutex
	subscribers map[string]subscription
}

func NewBus() *InMemoryBus {
	return &InMemoryBus{
		subscribers: make(map[string]subscription),
	}
}

// Publish never blocks: a subscriber whose buffer is full misses the event.
func (b *InMemoryBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, sub := range b.subscribers {
		if !sub.wants(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			slog.Warn("event dropped for slow subscriber", "subscriber", id, "event_type", e.Type)
		}
	}
}

// Subscribe registers a listener for the given topics, or for every event
// when none are named. The returned func closes the channel and may be
// called more than once.
func (b *InMemoryBus) Subscribe(topics ...string) (<-chan Event, func()) {
	id := uuid.NewString()
	sub := subscription{ch: make(chan Event, subscriberBuffer), topics: topics}

	b.mu.Lock()
	b.subscribers[id] = sub
	b.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subscribers, id)
			close(sub.ch)
		})
	}
}

// Subscribers reports how many listeners are registered.
func (b *InMemoryBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
