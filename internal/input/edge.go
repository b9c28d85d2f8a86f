// Package input turns button presses into the two kinds of controller input:
// edge counters fed asynchronously and level buttons polled by the loop.
package input

import (
	"math"
	"sync/atomic"
	"time"
)

const noPress = math.MinInt64

// Edge counts debounced presses of an edge-triggered input. Trigger may be
// called from any goroutine; Take and Pending are meant for the control loop.
type Edge struct {
	count    atomic.Int64
	last     atomic.Int64 // nanos since base of the last accepted press
	debounce time.Duration
	base     time.Time
	now      func() time.Time
}

// NewEdge returns an Edge that ignores presses closer together than debounce.
func NewEdge(debounce time.Duration) *Edge {
	e := &Edge{debounce: debounce, base: time.Now(), now: time.Now}
	e.last.Store(noPress)
	return e
}

// Trigger records one press unless it falls inside the debounce window of
// the previous accepted press. It reports whether the press was counted.
// Times are measured from base so the monotonic reading is used; a clock
// that still runs backwards restarts the window instead of blocking presses.
func (e *Edge) Trigger() bool {
	now := int64(e.now().Sub(e.base))
	for {
		last := e.last.Load()
		if last != noPress && now >= last && now-last < int64(e.debounce) {
			return false
		}
		if e.last.CompareAndSwap(last, now) {
			e.count.Add(1)
			return true
		}
	}
}

// Pending reports whether at least one press is waiting.
func (e *Edge) Pending() bool {
	return e.count.Load() > 0
}

// Take returns the number of presses since the last Take and clears it.
func (e *Edge) Take() int {
	return int(e.count.Swap(0))
}
