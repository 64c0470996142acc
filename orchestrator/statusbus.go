package orchestrator

import (
	"sync"
	"time"

	"github.com/ctrevinoi1/agent/types"
)

// subscriberBuffer bounds each subscriber channel. A subscriber that falls
// further behind than this starts losing events rather than stalling the
// pipeline.
const subscriberBuffer = 64

// StatusBus fans progress events out to any number of subscribers. Publish
// never blocks; within one subscriber events arrive in publish order.
type StatusBus struct {
	mu      sync.Mutex
	subs    map[int]chan types.StatusEvent
	nextID  int
	history []types.StatusEvent
}

// NewStatusBus creates an empty bus.
func NewStatusBus() *StatusBus {
	return &StatusBus{subs: make(map[int]chan types.StatusEvent)}
}

// Subscribe returns a channel of future events and a cancel func. Cancel is
// idempotent and closes the channel.
func (b *StatusBus) Subscribe() (<-chan types.StatusEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan types.StatusEvent, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Publish records the event and delivers it to every subscriber with buffer
// room. Slow subscribers drop events instead of blocking the publisher.
func (b *StatusBus) Publish(message string) {
	event := types.StatusEvent{Timestamp: time.Now(), Message: message}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = append(b.history, event)
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// History returns a copy of every event published so far.
func (b *StatusBus) History() []types.StatusEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.StatusEvent, len(b.history))
	copy(out, b.history)
	return out
}
