package service

import (
	"sync"

	"noteflow/internal/core/domain"
)

// SessionBroker pushes session-identity changes to subscribers over
// channels. Login publishes the signed-in identity, logout publishes
// the zero Identity. Core services never read session state; they take
// the owner explicitly.
type SessionBroker struct {
	mu   sync.Mutex
	next int
	subs map[int]chan domain.Identity
}

func NewSessionBroker() *SessionBroker {
	return &SessionBroker{subs: make(map[int]chan domain.Identity)}
}

// Subscribe registers an observer. The returned cancel func must be
// called to release the channel.
func (b *SessionBroker) Subscribe() (<-chan domain.Identity, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++

	ch := make(chan domain.Identity, 8)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if ch, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}

	return ch, cancel
}

// Publish fans the identity out to every subscriber. A subscriber that
// has fallen behind its buffer misses the event rather than blocking
// the publisher.
func (b *SessionBroker) Publish(identity domain.Identity) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- identity:
		default:
		}
	}
}
