package logging

import (
	"sync"
	"time"
)

// LogEntry is one record held in the ring buffer. Seq increases by one per
// record written, so clients can resume or dedupe across replays.
type LogEntry struct {
	Seq        uint64         `json:"seq"`
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Filter selects entries in Query. Zero values match everything.
type Filter struct {
	Module   string
	MinLevel string // debug, info, warn or error
	Limit    int    // newest N after filtering
}

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

func (f Filter) match(e LogEntry) bool {
	if f.Module != "" && e.Module != f.Module {
		return false
	}
	return f.MinLevel == "" || levelRank[e.Level] >= levelRank[f.MinLevel]
}

// RingBuffer keeps the last size entries. Entry seq lives at slot
// (seq-1) % size.
type RingBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	last    uint64
}

// NewRingBuffer creates a buffer holding at most size entries.
func NewRingBuffer(size int) *RingBuffer {
	if size < 1 {
		size = 1
	}
	return &RingBuffer{entries: make([]LogEntry, size)}
}

// Write stamps entry with the next sequence number, stores it over the
// oldest entry when full and returns the stamped copy.
func (rb *RingBuffer) Write(entry LogEntry) LogEntry {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.last++
	entry.Seq = rb.last
	rb.entries[(rb.last-1)%uint64(len(rb.entries))] = entry
	return entry
}

// ReadAll returns every held entry, oldest first.
func (rb *RingBuffer) ReadAll() []LogEntry {
	return rb.Since(0)
}

// Since returns held entries with Seq greater than seq, oldest first.
func (rb *RingBuffer) Since(seq uint64) []LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	first := rb.first()
	if seq+1 > first {
		first = seq + 1
	}
	if first > rb.last {
		return nil
	}

	out := make([]LogEntry, 0, rb.last-first+1)
	for s := first; s <= rb.last; s++ {
		out = append(out, rb.entries[(s-1)%uint64(len(rb.entries))])
	}
	return out
}

// Query returns held entries matching f, oldest first.
func (rb *RingBuffer) Query(f Filter) []LogEntry {
	var out []LogEntry
	for _, e := range rb.ReadAll() {
		if f.match(e) {
			out = append(out, e)
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}

// Count returns the number of held entries.
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return int(rb.last - rb.first() + 1)
}

// LastSeq returns the sequence number of the newest entry, 0 when empty.
func (rb *RingBuffer) LastSeq() uint64 {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.last
}

// first is the oldest held seq; equals last+1 when empty.
func (rb *RingBuffer) first() uint64 {
	size := uint64(len(rb.entries))
	if rb.last < size {
		return 1
	}
	return rb.last - size + 1
}
