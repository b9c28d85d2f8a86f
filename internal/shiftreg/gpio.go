package shiftreg

import (
	"errors"
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"github.com/smazurov/trafficnode/internal/frame"
)

// Pins names the three GPIO offsets driving a chain.
type Pins struct {
	Data  int `toml:"data"`
	Clock int `toml:"clock"`
	Latch int `toml:"latch"`
}

type outputLine interface {
	SetValue(v int) error
	Close() error
}

// GPIO bit-bangs frames over three character-device GPIO lines.
type GPIO struct {
	mu     sync.Mutex
	data   outputLine
	clock  outputLine
	latch  outputLine
	closed bool
}

// NewGPIO requests the data, clock and latch lines on chip as outputs
// driven low.
func NewGPIO(chip string, pins Pins) (*GPIO, error) {
	offsets := []int{pins.Data, pins.Clock, pins.Latch}
	lines := make([]*gpiocdev.Line, 0, len(offsets))
	for _, offset := range offsets {
		line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
		if err != nil {
			for _, l := range lines {
				_ = l.Close()
			}
			return nil, fmt.Errorf("failed to request chain line %s:%d: %w", chip, offset, err)
		}
		lines = append(lines, line)
	}
	return &GPIO{data: lines[0], clock: lines[1], latch: lines[2]}, nil
}

// Send holds the latch low, shifts High then Low least significant bit
// first, and raises the latch to transfer the word to the outputs.
func (g *GPIO) Send(f frame.Frame) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrClosed
	}
	if err := g.latch.SetValue(0); err != nil {
		return fmt.Errorf("failed to lower latch: %w", err)
	}
	for _, b := range [2]byte{f.High, f.Low} {
		if err := g.shiftOut(b); err != nil {
			return err
		}
	}
	if err := g.latch.SetValue(1); err != nil {
		return fmt.Errorf("failed to raise latch: %w", err)
	}
	return nil
}

func (g *GPIO) shiftOut(b byte) error {
	for i := 0; i < 8; i++ {
		if err := g.data.SetValue(int(b>>i) & 1); err != nil {
			return fmt.Errorf("failed to set data: %w", err)
		}
		if err := g.clock.SetValue(1); err != nil {
			return fmt.Errorf("failed to pulse clock: %w", err)
		}
		if err := g.clock.SetValue(0); err != nil {
			return fmt.Errorf("failed to pulse clock: %w", err)
		}
	}
	return nil
}

// Close releases all three lines.
func (g *GPIO) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}
	g.closed = true
	return errors.Join(g.data.Close(), g.clock.Close(), g.latch.Close())
}
