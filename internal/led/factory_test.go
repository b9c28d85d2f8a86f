package led

import (
	"testing"
)

func TestNew(t *testing.T) {
	ctrl := New(testLogger())
	if ctrl == nil {
		t.Fatal("New() returned nil")
	}
	if ctrl.Available() == nil {
		t.Error("Available() returned nil")
	}
	if ctrl.Patterns() == nil {
		t.Error("Patterns() returned nil")
	}

	// must not panic whatever the host is
	_ = ctrl.Set(RoleStatus, true, PatternSolid)
}

func TestDetectBoard(t *testing.T) {
	if model := detectBoard(); model == "" {
		t.Error("detectBoard() returned empty string")
	}
}

func TestBoardsExposeStatusRole(t *testing.T) {
	for _, b := range boards {
		if _, ok := b.leds[RoleStatus]; !ok {
			t.Errorf("board %q has no %s LED", b.model, RoleStatus)
		}
	}
}
