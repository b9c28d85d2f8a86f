// Package shiftreg pushes packed frames onto a chain of two cascaded 8-bit
// serial-in/parallel-out shift registers.
package shiftreg

import (
	"errors"

	"github.com/smazurov/trafficnode/internal/frame"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("chain closed")

// Chain accepts one frame at a time and latches it onto the outputs.
type Chain interface {
	Send(f frame.Frame) error
}
