package publisher

import (
	"context"
	"fleet-route-optimizer/internal/domain"
	"sync"
)

// Broker fans records out to in-process subscribers keyed by run id.
// Slow subscribers drop records rather than block the run.
type Broker struct {
	mu     sync.Mutex
	subs   map[string]map[chan domain.GenerationRecord]struct{}
	buffer int
}

func NewBroker() *Broker {
	return &Broker{subs: map[string]map[chan domain.GenerationRecord]struct{}{}, buffer: 64}
}

func (b *Broker) Subscribe(runID string) (<-chan domain.GenerationRecord, func()) {
	ch := make(chan domain.GenerationRecord, b.buffer)
	b.mu.Lock()
	if b.subs[runID] == nil {
		b.subs[runID] = map[chan domain.GenerationRecord]struct{}{}
	}
	b.subs[runID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() { once.Do(func() { b.unsubscribe(runID, ch) }) }
}

func (b *Broker) unsubscribe(runID string, ch chan domain.GenerationRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.subs[runID]
	if _, ok := m[ch]; !ok {
		// already closed by Complete
		return
	}
	delete(m, ch)
	if len(m) == 0 {
		delete(b.subs, runID)
	}
	close(ch)
}

func (b *Broker) Publish(_ context.Context, runID string, rec domain.GenerationRecord) error {
	rec.Best = append([]int(nil), rec.Best...)
	b.mu.Lock()
	for ch := range b.subs[runID] {
		select {
		case ch <- rec:
		default:
		}
	}
	b.mu.Unlock()
	return nil
}

// Complete closes every subscriber channel of runID.
func (b *Broker) Complete(_ context.Context, runID string) error {
	b.mu.Lock()
	for ch := range b.subs[runID] {
		close(ch)
	}
	delete(b.subs, runID)
	b.mu.Unlock()
	return nil
}
