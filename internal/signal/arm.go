// Package signal models one traffic-light arm: its phase cycle, countdown and
// the channel layout used to render both onto a shift-register chain.
package signal

import (
	"github.com/smazurov/trafficnode/internal/frame"
	"github.com/smazurov/trafficnode/internal/segment"
)

// MaxDuration is the longest editable phase duration. Anything up to 199
// survives the two-digit display truncation.
const MaxDuration = 199

// Digit positions on the two-digit display.
const (
	TensDigit = 0
	OnesDigit = 1
	NumDigits = 2
)

// ChannelMap assigns each logical line of an arm to a chain position 0..15.
// Callers must not assign the same position twice.
type ChannelMap struct {
	Segments [segment.Count]int // segment a..g
	Digits   [NumDigits]int     // tens enable, ones enable
	Lights   [NumPhases]int     // indexed by Phase
}

// Config holds everything needed to construct an Arm.
type Config struct {
	Name     string
	Channels ChannelMap
	Initial  Phase
	Red      int
	Green    int
	Yellow   int
}

// Arm is one intersection arm. It is not safe for concurrent use; a single
// control loop owns it.
type Arm struct {
	name      string
	channels  ChannelMap
	phase     Phase
	red       Bounded
	green     Bounded
	yellow    int
	remaining int
}

// ArmSnapshot captures the live countdown state of an arm.
type ArmSnapshot struct {
	Phase     Phase
	Remaining int
}

// ArmState is a read-only copy of an arm for reporting.
type ArmState struct {
	Name      string
	Phase     Phase
	Remaining int
	Red       int
	Green     int
	Yellow    int
}

// NewArm builds an arm starting at cfg.Initial with the countdown set to
// that phase's duration.
func NewArm(cfg Config) *Arm {
	a := &Arm{
		name:     cfg.Name,
		channels: cfg.Channels,
		phase:    cfg.Initial,
		red:      NewBounded(cfg.Red, 0, MaxDuration, false),
		green:    NewBounded(cfg.Green, 0, MaxDuration, false),
		yellow:   cfg.Yellow,
	}
	a.remaining = a.Duration(a.phase)
	return a
}

// Name returns the configured arm name.
func (a *Arm) Name() string { return a.name }

// Channels returns the arm's channel map.
func (a *Arm) Channels() ChannelMap { return a.channels }

// Phase returns the active phase.
func (a *Arm) Phase() Phase { return a.phase }

// SetPhase changes the phase without touching the countdown.
func (a *Arm) SetPhase(p Phase) { a.phase = p }

// Remaining returns the countdown value.
func (a *Arm) Remaining() int { return a.remaining }

// SetRemaining overwrites the countdown.
func (a *Arm) SetRemaining(v int) { a.remaining = v }

// Duration returns the configured length of phase p in ticks.
func (a *Arm) Duration(p Phase) int {
	switch p {
	case Red:
		return a.red.Get()
	case Green:
		return a.green.Get()
	default:
		return a.yellow
	}
}

// Editable returns the duration field for p, or nil for Yellow which is
// fixed at construction.
func (a *Arm) Editable(p Phase) *Bounded {
	switch p {
	case Red:
		return &a.red
	case Green:
		return &a.green
	default:
		return nil
	}
}

// Tick decrements the countdown by one.
func (a *Arm) Tick() { a.remaining-- }

// Expired reports whether the countdown has run below zero. A phase of
// duration d therefore lasts d+1 ticks.
func (a *Arm) Expired() bool { return a.remaining < 0 }

// Advance moves to the next phase and reloads the countdown. Callers check
// Expired first.
func (a *Arm) Advance() {
	a.phase = a.phase.Next()
	a.remaining = a.Duration(a.phase)
}

// Snapshot captures phase and countdown.
func (a *Arm) Snapshot() ArmSnapshot {
	return ArmSnapshot{Phase: a.phase, Remaining: a.remaining}
}

// Restore puts back a snapshot taken with Snapshot.
func (a *Arm) Restore(s ArmSnapshot) {
	a.phase = s.Phase
	a.remaining = s.Remaining
}

// State returns a copy suitable for reporting.
func (a *Arm) State() ArmState {
	return ArmState{
		Name:      a.name,
		Phase:     a.phase,
		Remaining: a.remaining,
		Red:       a.red.Get(),
		Green:     a.green.Get(),
		Yellow:    a.yellow,
	}
}

// Frames renders the two multiplexed frames for the current phase and
// countdown. During Yellow both digits are disabled and the frames are equal.
func (a *Arm) Frames() (tens, ones frame.Frame) {
	var ch frame.Channels
	a.setLights(&ch, a.phase)

	if a.phase == Yellow {
		f := frame.Pack(ch)
		return f, f
	}

	return renderDigits(a.channels, ch, a.remaining)
}

// Overlay renders a frame that ignores the countdown. With on set only the
// yellow light is lit; otherwise every light is dark.
func (a *Arm) Overlay(on bool) frame.Frame {
	var ch frame.Channels
	for _, pos := range a.channels.Lights {
		ch[pos] = true
	}
	if on {
		ch[a.channels.Lights[Yellow]] = false
	}
	return frame.Pack(ch)
}

// TurnOff renders the blackout frame.
func (a *Arm) TurnOff() frame.Frame {
	return a.Overlay(false)
}

// setLights drives the light for p low and the other two high.
func (a *Arm) setLights(ch *frame.Channels, p Phase) {
	for phase, pos := range a.channels.Lights {
		ch[pos] = Phase(phase) != p
	}
}

// renderDigits splits value into two digits and returns one frame per digit
// position on top of base. Only the two low decimal digits of values up to
// 199 are shown.
func renderDigits(cm ChannelMap, base frame.Channels, value int) (tens, ones frame.Frame) {
	if value < 0 {
		value = 0
	}
	if value > 99 {
		value -= 100
	}
	value %= 100
	digits := [NumDigits]int{value / 10, value % 10}

	var out [NumDigits]frame.Frame
	for pos := range digits {
		ch := base
		for d, enable := range cm.Digits {
			ch[enable] = d == pos
		}
		p := segment.Encode(digits[pos])
		for i := 0; i < segment.Count; i++ {
			ch[cm.Segments[segment.Count-i-1]] = segment.Off(p, i)
		}
		out[pos] = frame.Pack(ch)
	}
	return out[TensDigit], out[OnesDigit]
}
