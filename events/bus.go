// Package events carries runtime events two ways: a process-wide named bus
// with synchronous fan-out, and typed donburi events for systems that prefer
// ECS-scoped subscription.
package events

import "sync"

// Handler receives a published payload. Delivery is synchronous: Publish
// invokes every current subscriber before returning.
type Handler func(name string, payload any)

// Token identifies a subscription for later removal.
type Token struct {
	name string
	id   uint64
}

type subscriber struct {
	id uint64
	fn Handler
}

// Bus is a named publish/subscribe bus. The subscriber list is snapshotted
// before delivery, so a handler may subscribe or unsubscribe during Publish
// without affecting the in-flight fan-out.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string][]subscriber
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscriber)}
}

// Subscribe registers fn for events published under name and returns a token
// that removes exactly this subscription.
func (b *Bus) Subscribe(name string, fn Handler) Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs[name] = append(b.subs[name], subscriber{id: b.nextID, fn: fn})
	return Token{name: name, id: b.nextID}
}

// Unsubscribe removes the subscription identified by tok. Unknown tokens are
// ignored.
func (b *Bus) Unsubscribe(tok Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[tok.name]
	for i, s := range list {
		if s.id == tok.id {
			b.subs[tok.name] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Publish synchronously delivers payload to every subscriber of name.
func (b *Bus) Publish(name string, payload any) {
	b.mu.Lock()
	list := b.subs[name]
	snapshot := make([]subscriber, len(list))
	copy(snapshot, list)
	b.mu.Unlock()

	for _, s := range snapshot {
		s.fn(name, payload)
	}
}

var defaultBus = NewBus()

// Default returns the process-wide bus.
func Default() *Bus { return defaultBus }
