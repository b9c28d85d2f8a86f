package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/trafficnode/internal/segment"
	"github.com/smazurov/trafficnode/internal/shiftreg"
	"github.com/smazurov/trafficnode/internal/signal"
)

// NumChannels is the width of one two-register chain.
const NumChannels = 16

// ArmConfig describes one arm in the intersection file.
type ArmConfig struct {
	Name            string        `toml:"name" json:"name"`
	InitialPhase    string        `toml:"initial_phase" json:"initial_phase"`
	Red             int           `toml:"red" json:"red"`
	Green           int           `toml:"green" json:"green"`
	Yellow          int           `toml:"yellow" json:"yellow"`
	SegmentChannels []int         `toml:"segment_channels" json:"segment_channels"`
	DigitChannels   []int         `toml:"digit_channels" json:"digit_channels"`
	LightChannels   []int         `toml:"light_channels" json:"light_channels"`
	Chain           shiftreg.Pins `toml:"chain" json:"chain"`
}

// Intersection is the full set of arms driven by one controller.
type Intersection struct {
	Arms []ArmConfig `toml:"arms" json:"arms"`
}

// DefaultIntersection returns the two-arm layout the board ships with.
func DefaultIntersection() Intersection {
	segments := []int{0, 1, 2, 3, 4, 5, 6}
	digits := []int{8, 9}
	lights := []int{13, 14, 15}

	return Intersection{Arms: []ArmConfig{
		{
			Name:            "arm1",
			InitialPhase:    "red",
			Red:             68,
			Green:           46,
			Yellow:          3,
			SegmentChannels: segments,
			DigitChannels:   digits,
			LightChannels:   lights,
			Chain:           shiftreg.Pins{Data: 5, Clock: 7, Latch: 6},
		},
		{
			Name:            "arm2",
			InitialPhase:    "green",
			Red:             28,
			Green:           20,
			Yellow:          5,
			SegmentChannels: append([]int(nil), segments...),
			DigitChannels:   append([]int(nil), digits...),
			LightChannels:   append([]int(nil), lights...),
			Chain:           shiftreg.Pins{Data: 8, Clock: 10, Latch: 9},
		},
	}}
}

// LoadIntersection reads an intersection file. A missing file (or empty
// path) yields DefaultIntersection. The result is validated.
func LoadIntersection(path string) (Intersection, error) {
	if path == "" {
		return DefaultIntersection(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultIntersection(), nil
	}
	if err != nil {
		return Intersection{}, fmt.Errorf("failed to read intersection file: %w", err)
	}

	var in Intersection
	if err := toml.Unmarshal(data, &in); err != nil {
		return Intersection{}, fmt.Errorf("failed to parse intersection file: %w", err)
	}
	if err := in.Validate(); err != nil {
		return Intersection{}, err
	}
	return in, nil
}

// Validate checks every arm. Channel positions must be unique within an arm
// and chain GPIO offsets unique across the whole intersection.
func (in Intersection) Validate() error {
	if len(in.Arms) == 0 {
		return fmt.Errorf("%w: no arms", ErrInvalidIntersection)
	}

	pins := make(map[int]string)
	for i, arm := range in.Arms {
		label := arm.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		if err := arm.validate(); err != nil {
			return fmt.Errorf("%w: arm %s: %w", ErrInvalidIntersection, label, err)
		}
		for _, p := range []int{arm.Chain.Data, arm.Chain.Clock, arm.Chain.Latch} {
			if owner, ok := pins[p]; ok {
				return fmt.Errorf("%w: arm %s: gpio %d already used by arm %s", ErrInvalidIntersection, label, p, owner)
			}
			pins[p] = label
		}
	}
	return nil
}

func (a ArmConfig) validate() error {
	if _, err := signal.ParsePhase(a.InitialPhase); err != nil {
		return err
	}
	for _, d := range []struct {
		name  string
		value int
	}{{"red", a.Red}, {"green", a.Green}, {"yellow", a.Yellow}} {
		if d.value < 0 || d.value > signal.MaxDuration {
			return fmt.Errorf("%s duration %d outside 0..%d", d.name, d.value, signal.MaxDuration)
		}
	}

	groups := []struct {
		name  string
		ch    []int
		count int
	}{
		{"segment_channels", a.SegmentChannels, segment.Count},
		{"digit_channels", a.DigitChannels, signal.NumDigits},
		{"light_channels", a.LightChannels, signal.NumPhases},
	}
	used := make(map[int]string)
	for _, g := range groups {
		if len(g.ch) != g.count {
			return fmt.Errorf("%s has %d entries, want %d", g.name, len(g.ch), g.count)
		}
		for _, c := range g.ch {
			if c < 0 || c >= NumChannels {
				return fmt.Errorf("%s: channel %d outside 0..%d", g.name, c, NumChannels-1)
			}
			if prev, ok := used[c]; ok {
				return fmt.Errorf("%s: channel %d already used by %s", g.name, c, prev)
			}
			used[c] = g.name
		}
	}

	if a.Chain.Data < 0 || a.Chain.Clock < 0 || a.Chain.Latch < 0 {
		return fmt.Errorf("chain offsets must be non-negative: %+v", a.Chain)
	}
	if a.Chain.Data == a.Chain.Clock || a.Chain.Data == a.Chain.Latch || a.Chain.Clock == a.Chain.Latch {
		return fmt.Errorf("chain offsets must be distinct: %+v", a.Chain)
	}
	return nil
}

// ChannelMap converts the channel lists. Call only after Validate.
func (a ArmConfig) ChannelMap() signal.ChannelMap {
	var cm signal.ChannelMap
	copy(cm.Segments[:], a.SegmentChannels)
	copy(cm.Digits[:], a.DigitChannels)
	copy(cm.Lights[:], a.LightChannels)
	return cm
}

// BuildArms validates the intersection and constructs one arm per entry.
func (in Intersection) BuildArms() ([]*signal.Arm, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	arms := make([]*signal.Arm, len(in.Arms))
	for i, a := range in.Arms {
		phase, _ := signal.ParsePhase(a.InitialPhase)
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("arm%d", i+1)
		}
		arms[i] = signal.NewArm(signal.Config{
			Name:     name,
			Channels: a.ChannelMap(),
			Initial:  phase,
			Red:      a.Red,
			Green:    a.Green,
			Yellow:   a.Yellow,
		})
	}
	return arms, nil
}
