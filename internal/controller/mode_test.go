package controller

import (
	"errors"
	"testing"
)

func TestModeCycle(t *testing.T) {
	m := Standard
	want := []Mode{BlinkYellow, Auto, SetAutoSchedule, SetupRed, SetupGreen, Standard}
	for _, w := range want {
		m = m.Next()
		if m != w {
			t.Fatalf("Next() = %v, want %v", m, w)
		}
	}
	if got := SetupGreen.Step(13); got != BlinkYellow {
		t.Errorf("Step(13) = %v, want blink_yellow", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"standard", Standard, false},
		{"blink-yellow", BlinkYellow, false},
		{"AUTO", Auto, false},
		{"set_auto_schedule", SetAutoSchedule, false},
		{"setup_red", SetupRed, false},
		{" setup_green ", SetupGreen, false},
		{"night", Standard, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownMode) {
				t.Errorf("ParseMode(%q) error = %v, want ErrUnknownMode", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestModeStringRoundTrip(t *testing.T) {
	for i, name := range Modes() {
		m := Mode(i)
		if m.String() != name {
			t.Errorf("Mode(%d).String() = %q, want %q", i, m.String(), name)
		}
		if m.Interactive() != (m == SetAutoSchedule || m == SetupRed || m == SetupGreen) {
			t.Errorf("%v.Interactive() wrong", m)
		}
	}
	if Mode(9).String() != "mode(9)" {
		t.Errorf("out of range String() = %q", Mode(9).String())
	}
}
