package input

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// releasePoll is how often a held GPIO button is sampled while waiting for
// release.
const releasePoll = time.Millisecond

type lineReader interface {
	Value() (int, error)
	Close() error
}

// GPIOButton reads an active-low push button wired to a GPIO line with the
// internal pull-up enabled.
type GPIOButton struct {
	line lineReader
}

// NewGPIOButton requests offset on chip as a pulled-up input.
func NewGPIOButton(chip string, offset int) (*GPIOButton, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		return nil, fmt.Errorf("failed to request button line %s:%d: %w", chip, offset, err)
	}
	return &GPIOButton{line: line}, nil
}

// Poll implements Button. A low level is a press; Poll then waits for the
// line to go high again before returning true.
func (b *GPIOButton) Poll(ctx context.Context) (bool, error) {
	v, err := b.line.Value()
	if err != nil {
		return false, fmt.Errorf("failed to read button: %w", err)
	}
	if v != 0 {
		return false, nil
	}

	ticker := time.NewTicker(releasePoll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
		}
		v, err := b.line.Value()
		if err != nil {
			return false, fmt.Errorf("failed to read button: %w", err)
		}
		if v != 0 {
			return true, nil
		}
	}
}

// Close releases the line.
func (b *GPIOButton) Close() error {
	return b.line.Close()
}

// WatchEdge requests offset on chip as a pulled-up input and triggers e on
// every falling edge. The kernel applies debounce before events are
// delivered; e applies its own window on top. Close the returned line to stop.
func WatchEdge(chip string, offset int, debounce time.Duration, e *Edge) (io.Closer, error) {
	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
			e.Trigger()
		}),
	}
	if debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(debounce))
	}

	line, err := gpiocdev.RequestLine(chip, offset, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to watch edge line %s:%d: %w", chip, offset, err)
	}
	return line, nil
}
