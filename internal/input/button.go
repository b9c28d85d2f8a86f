package input

import (
	"context"
	"sync/atomic"
)

// Button is a level-sensed momentary button.
type Button interface {
	// Poll reports whether the button is pressed. A press is only reported
	// once the button has been released again.
	Poll(ctx context.Context) (bool, error)
}

// VirtualButton is a Button pressed programmatically, e.g. from the HTTP API.
// Queued presses are reported one per Poll.
type VirtualButton struct {
	queued atomic.Int64
}

// NewVirtualButton returns a button with no queued presses.
func NewVirtualButton() *VirtualButton {
	return &VirtualButton{}
}

// Press queues one press-and-release.
func (b *VirtualButton) Press() {
	b.queued.Add(1)
}

// Poll implements Button. It never blocks.
func (b *VirtualButton) Poll(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	for {
		n := b.queued.Load()
		if n <= 0 {
			return false, nil
		}
		if b.queued.CompareAndSwap(n, n-1) {
			return true, nil
		}
	}
}

// Buttons combines several buttons into one that reports a press when any
// of them is pressed. Used to merge a physical button with its API twin.
type Buttons []Button

// Poll implements Button. Every member is polled; the first error wins.
func (bs Buttons) Poll(ctx context.Context) (bool, error) {
	pressed := false
	var firstErr error
	for _, b := range bs {
		ok, err := b.Poll(ctx)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		pressed = pressed || ok
	}
	return pressed, firstErr
}
