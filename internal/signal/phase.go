package signal

import (
	"fmt"
	"strings"
)

// Phase is the color currently shown by an arm.
type Phase int

// Phases in cycle order. The values double as indexes into ChannelMap.Lights.
const (
	Red Phase = iota
	Green
	Yellow
)

// NumPhases is the number of signal colors.
const NumPhases = 3

// Next returns the phase that follows p in the Red, Green, Yellow cycle.
func (p Phase) Next() Phase {
	switch p {
	case Red:
		return Green
	case Green:
		return Yellow
	default:
		return Red
	}
}

func (p Phase) String() string {
	switch p {
	case Red:
		return "red"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ParsePhase accepts "red", "green" or "yellow" in any case.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return Red, nil
	case "green":
		return Green, nil
	case "yellow":
		return Yellow, nil
	default:
		return Red, fmt.Errorf("%w: %q", ErrUnknownPhase, s)
	}
}
