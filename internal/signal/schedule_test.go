package signal

import (
	"errors"
	"testing"

	"github.com/smazurov/trafficnode/internal/frame"
)

func TestScheduleOutside(t *testing.T) {
	w := NewScheduleWindow(6, 22)

	tests := []struct {
		hour int
		want bool
	}{
		{0, true},
		{5, true},
		{6, false},
		{12, false},
		{22, false}, // end is inclusive
		{23, true},
	}

	for _, tt := range tests {
		if got := w.Outside(tt.hour); got != tt.want {
			t.Errorf("Outside(%d) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

func TestScheduleOutsideInvertedWindow(t *testing.T) {
	// start > end does not wrap past midnight; every hour is outside.
	w := NewScheduleWindow(22, 6)
	for hour := 0; hour < 24; hour++ {
		if !w.Outside(hour) {
			t.Errorf("Outside(%d) = false for inverted window", hour)
		}
	}
}

func TestScheduleFieldWraps(t *testing.T) {
	w := NewScheduleWindow(23, 0)

	w.Field(ScheduleStart).Inc()
	if w.Start() != 0 {
		t.Errorf("Start() = %d after Inc at 23, want 0", w.Start())
	}
	w.Field(ScheduleEnd).Dec()
	if w.End() != 23 {
		t.Errorf("End() = %d after Dec at 0, want 23", w.End())
	}
}

func TestScheduleFieldToggle(t *testing.T) {
	f := ScheduleStart
	if f = f.Next(); f != ScheduleEnd {
		t.Errorf("Next() = %v, want end", f)
	}
	if f = f.Next(); f != ScheduleStart {
		t.Errorf("Next() = %v, want start", f)
	}
}

func TestScheduleFrames(t *testing.T) {
	w := NewScheduleWindow(7, 21)

	tests := []struct {
		field ScheduleField
		tens  int
		ones  int
	}{
		{ScheduleStart, 0, 7},
		{ScheduleEnd, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			tens, ones := w.Frames(testChannels, tt.field)
			for _, f := range []frame.Frame{tens, ones} {
				ch := frame.Unpack(f)
				for _, pos := range testChannels.Lights {
					if !ch[pos] {
						t.Errorf("light channel %d is on while showing schedule", pos)
					}
				}
			}
			if got := decodeDigit(testChannels, frame.Unpack(tens)); got != tt.tens {
				t.Errorf("tens digit = %d, want %d", got, tt.tens)
			}
			if got := decodeDigit(testChannels, frame.Unpack(ones)); got != tt.ones {
				t.Errorf("ones digit = %d, want %d", got, tt.ones)
			}
		})
	}
}

func TestBounded(t *testing.T) {
	tests := []struct {
		name string
		b    Bounded
		op   func(*Bounded)
		want int
	}{
		{"clamp on construct high", NewBounded(250, 0, 199, false), func(*Bounded) {}, 199},
		{"clamp on construct low", NewBounded(-3, 0, 199, false), func(*Bounded) {}, 0},
		{"inc clamps at max", NewBounded(199, 0, 199, false), (*Bounded).Inc, 199},
		{"dec clamps at min", NewBounded(0, 0, 199, false), (*Bounded).Dec, 0},
		{"inc wraps at max", NewBounded(23, 0, 23, true), (*Bounded).Inc, 0},
		{"dec wraps at min", NewBounded(0, 0, 23, true), (*Bounded).Dec, 23},
		{"inc in range", NewBounded(10, 0, 23, true), (*Bounded).Inc, 11},
		{"set clamps", NewBounded(10, 0, 23, true), func(b *Bounded) { b.Set(40) }, 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.b
			tt.op(&b)
			if b.Get() != tt.want {
				t.Errorf("Get() = %d, want %d", b.Get(), tt.want)
			}
		})
	}
}

func TestParsePhase(t *testing.T) {
	tests := []struct {
		in      string
		want    Phase
		wantErr bool
	}{
		{"red", Red, false},
		{"GREEN", Green, false},
		{" Yellow ", Yellow, false},
		{"amber", Red, true},
		{"", Red, true},
	}

	for _, tt := range tests {
		got, err := ParsePhase(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownPhase) {
				t.Errorf("ParsePhase(%q) error = %v, want ErrUnknownPhase", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePhase(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParsePhase(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPhaseNext(t *testing.T) {
	p := Red
	for _, want := range []Phase{Green, Yellow, Red} {
		p = p.Next()
		if p != want {
			t.Errorf("Next() = %v, want %v", p, want)
		}
	}
}
