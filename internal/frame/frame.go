// Package frame packs the 16 logical output channels of a two-chip
// shift-register chain into the two bytes pushed onto the wire.
//
// The chain is clocked least-significant bit first while channel numbers
// run opposite to transmission order, so each byte is bit-reversed relative
// to its channel range: bit i of High is channel 15-i and bit i of Low is
// channel 7-i.
package frame

import (
	"fmt"
	"strings"
)

// Width is the number of channels in a chain of two 8-bit registers.
const Width = 16

// Channels is the electrical state of every channel; true drives the line high.
type Channels [Width]bool

// Frame is one latched 16-bit word.
type Frame struct {
	High byte // channels 15..8
	Low  byte // channels 7..0
}

// Pack converts channel states into wire order.
func Pack(ch Channels) Frame {
	var f Frame
	for i := 0; i < 8; i++ {
		if ch[15-i] {
			f.High |= 1 << i
		}
		if ch[7-i] {
			f.Low |= 1 << i
		}
	}
	return f
}

// Unpack is the inverse of Pack.
func Unpack(f Frame) Channels {
	var ch Channels
	for i := 0; i < 8; i++ {
		ch[15-i] = f.High&(1<<i) != 0
		ch[7-i] = f.Low&(1<<i) != 0
	}
	return ch
}

// Word returns the frame as High<<8 | Low.
func (f Frame) Word() uint16 {
	return uint16(f.High)<<8 | uint16(f.Low)
}

// String formats the frame as four hex digits.
func (f Frame) String() string {
	return fmt.Sprintf("%02x%02x", f.High, f.Low)
}

// String renders channel 0 first as a run of 0/1 characters.
func (ch Channels) String() string {
	var b strings.Builder
	b.Grow(Width)
	for _, high := range ch {
		if high {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
