package agent

import (
	"context"
	"sync"
)

// Watch is a single-slot latest-value broadcast primitive: any number of
// readers can block on Changed() and will observe the most recently
// published value. Intermediate values are dropped if nobody reads them in
// time, which is correct here because global agent state is a level, not
// an edge. Built on a mutex-guarded value plus a condition variable so any
// number of readers can block on a change, since Go has no direct
// equivalent of tokio::watch.
type Watch struct {
	mu      sync.Mutex
	cond    *sync.Cond
	value   State
	version uint64
}

// NewWatch creates a Watch seeded with the given initial value.
func NewWatch(initial State) *Watch {
	w := &Watch{value: initial}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Get returns the current value.
func (w *Watch) Get() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

// Set publishes a new value and wakes any blocked readers, but only if the
// value actually changed.
func (w *Watch) Set(v State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if v == w.value {
		return
	}
	w.value = v
	w.version++
	w.cond.Broadcast()
}

// Changed blocks until the value differs from lastSeenVersion, then returns
// the new value and its version. Pass the version returned by a prior call
// (or 0 initially) to wait for the next change.
func (w *Watch) Changed(lastSeenVersion uint64) (State, uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.version == lastSeenVersion {
		w.cond.Wait()
	}
	return w.value, w.version
}

// ChangedCtx is Changed, but also returns early with ok=false if ctx is
// cancelled while waiting; cancellation is observed at once. The underlying
// Changed call runs in a helper goroutine that stays parked on the
// condition variable until the next Set, even after ChangedCtx returned.
func (w *Watch) ChangedCtx(ctx context.Context, lastSeenVersion uint64) (State, uint64, bool) {
	done := make(chan struct{})
	var state State
	var version uint64
	go func() {
		state, version = w.Changed(lastSeenVersion)
		close(done)
	}()
	select {
	case <-done:
		return state, version, true
	case <-ctx.Done():
		return state, version, false
	}
}
