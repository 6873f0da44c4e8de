// Package session is the caller layer around the analysis runner: it keeps at most one
// run in flight per target and owns the step list and document of each run.
package session

import "sync"

// Guard tracks which targets have a run in flight
type Guard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewGuard creates an empty guard
func NewGuard() *Guard {
	return &Guard{inFlight: make(map[string]struct{})}
}

// Acquire marks key as in flight, or returns ErrRunInProgress if it already is
func (g *Guard) Acquire(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.inFlight[key]; ok {
		return ErrRunInProgress
	}
	g.inFlight[key] = struct{}{}
	return nil
}

// Release frees key. Releasing a key that is not held is a no-op.
func (g *Guard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, key)
}

// InFlight reports whether key has a run in flight
func (g *Guard) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inFlight[key]
	return ok
}

// Len returns the number of runs in flight
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inFlight)
}
