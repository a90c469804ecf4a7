package notify

import (
	"context"
	"sync"
)

// Broker is an in-process Bus. It is used when no Redis URL is configured and
// in tests.
type Broker struct {
	mu   sync.RWMutex
	next int
	subs map[string]map[int]Handler
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[int]Handler)}
}

func (b *Broker) Publish(_ context.Context, ev Event) error {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[ev.Table]))
	for _, h := range b.subs[ev.Table] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
	return nil
}

func (b *Broker) Subscribe(_ context.Context, table string, h Handler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	if b.subs[table] == nil {
		b.subs[table] = make(map[int]Handler)
	}
	b.subs[table][id] = h
	return &brokerSub{broker: b, table: table, id: id}, nil
}

// Subscribers returns the number of live subscriptions on table.
func (b *Broker) Subscribers(table string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[table])
}

type brokerSub struct {
	broker *Broker
	table  string
	id     int
	once   sync.Once
}

func (s *brokerSub) Close() error {
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs[s.table], s.id)
		s.broker.mu.Unlock()
	})
	return nil
}
