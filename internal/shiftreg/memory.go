package shiftreg

import (
	"sync"

	"github.com/smazurov/trafficnode/internal/frame"
)

// Memory is a Chain that records every frame it is sent. It backs the
// simulator backend and tests.
type Memory struct {
	mu     sync.Mutex
	frames []frame.Frame
	limit  int
	err    error
}

// NewMemory returns a recorder keeping at most limit frames (oldest dropped
// first). A limit of zero keeps everything.
func NewMemory(limit int) *Memory {
	return &Memory{limit: limit}
}

// Send implements Chain.
func (m *Memory) Send(f frame.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.frames = append(m.frames, f)
	if m.limit > 0 && len(m.frames) > m.limit {
		m.frames = m.frames[len(m.frames)-m.limit:]
	}
	return nil
}

// FailWith makes every subsequent Send return err. Pass nil to recover.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Frames returns a copy of the recorded frames.
func (m *Memory) Frames() []frame.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]frame.Frame(nil), m.frames...)
}

// Last returns the most recent frame and whether any was sent.
func (m *Memory) Last() (frame.Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.frames) == 0 {
		return frame.Frame{}, false
	}
	return m.frames[len(m.frames)-1], true
}

// Reset drops the recorded frames.
func (m *Memory) Reset() {
	m.mu.Lock()
	m.frames = nil
	m.mu.Unlock()
}
