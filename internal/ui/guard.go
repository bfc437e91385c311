package ui

import "sync"

// Guard tracks in-flight gestures by key so a repeated tap is dropped until
// the first one is released.
type Guard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{inFlight: make(map[string]struct{})}
}

func (g *Guard) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[key]; busy {
		return false
	}
	g.inFlight[key] = struct{}{}

	return true
}

func (g *Guard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inFlight, key)
}

func (g *Guard) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, busy := g.inFlight[key]
	return busy
}

func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	clear(g.inFlight)
}
