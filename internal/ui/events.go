package ui

import (
	"sync"
	"time"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
)

type EventType string

const (
	EventAddToCartSucceeded EventType = "add_to_cart_succeeded"
	EventAddToCartCleared   EventType = "add_to_cart_cleared"
	EventModalClosed        EventType = "modal_closed"
	EventSelectionBlocked   EventType = "selection_blocked"
	EventSelectionCleared   EventType = "selection_cleared"
	EventMergeAdjusted      EventType = "merge_adjusted"
)

type Event struct {
	Type        EventType             `json:"type"`
	ProductID   string                `json:"product_id,omitempty"`
	Reason      string                `json:"reason,omitempty"`
	Adjustments []models.AdjustedItem `json:"adjustments,omitempty"`
	At          time.Time             `json:"at"`
}

// Bus delivers events synchronously to every subscriber.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]func(Event)
	nextID int
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns a function removing it.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	subs := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}

// Close detaches all subscribers; later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.subs)
	b.closed = true
}
