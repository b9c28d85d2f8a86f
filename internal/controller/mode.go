package controller

import (
	"fmt"
	"strings"
)

// Mode is the top-level operating mode. Modes advance cyclically, one step
// per accepted press of the mode input.
type Mode int

// Modes in press order.
const (
	Standard Mode = iota
	BlinkYellow
	Auto
	SetAutoSchedule
	SetupRed
	SetupGreen
)

// NumModes is the length of the mode cycle.
const NumModes = 6

var modeNames = [NumModes]string{
	"standard",
	"blink_yellow",
	"auto",
	"set_auto_schedule",
	"setup_red",
	"setup_green",
}

// Step returns the mode n presses after m.
func (m Mode) Step(n int) Mode {
	return Mode(((int(m)+n)%NumModes + NumModes) % NumModes)
}

// Next returns the mode one press after m.
func (m Mode) Next() Mode { return m.Step(1) }

func (m Mode) String() string {
	if m < 0 || int(m) >= NumModes {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Interactive reports whether m waits on operator input instead of running
// a timed behavior.
func (m Mode) Interactive() bool {
	return m == SetAutoSchedule || m == SetupRed || m == SetupGreen
}

// ParseMode accepts the names returned by String, case-insensitive, with
// dashes allowed in place of underscores.
func ParseMode(s string) (Mode, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return Standard, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Modes returns every mode name in cycle order.
func Modes() []string {
	return append([]string(nil), modeNames[:]...)
}
