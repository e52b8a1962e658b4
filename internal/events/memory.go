package events

import (
	"context"
	"sync"
)

// MemoryPublisher collects events in memory. Used by tests and as the
// fallback when no broker is configured.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

// Events returns a snapshot of everything published so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// ByTopic filters the published events to one topic.
func (p *MemoryPublisher) ByTopic(topic string) []Event {
	var out []Event
	for _, e := range p.Events() {
		if e.Topic() == topic {
			out = append(out, e)
		}
	}
	return out
}
