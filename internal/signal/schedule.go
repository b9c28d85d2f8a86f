package signal

import (
	"github.com/smazurov/trafficnode/internal/frame"
)

// ScheduleField selects which bound of a ScheduleWindow is being edited.
type ScheduleField int

// Schedule fields in toggle order.
const (
	ScheduleStart ScheduleField = iota
	ScheduleEnd
)

// Next toggles between Start and End.
func (f ScheduleField) Next() ScheduleField {
	if f == ScheduleStart {
		return ScheduleEnd
	}
	return ScheduleStart
}

func (f ScheduleField) String() string {
	if f == ScheduleStart {
		return "start"
	}
	return "end"
}

// ScheduleWindow holds the daily hours during which the arms run their
// normal cycle. Hours wrap 23 -> 0 when stepped.
type ScheduleWindow struct {
	start Bounded
	end   Bounded
}

// NewScheduleWindow returns a window from start to end, both in 0..23.
func NewScheduleWindow(start, end int) *ScheduleWindow {
	return &ScheduleWindow{
		start: NewBounded(start, 0, 23, true),
		end:   NewBounded(end, 0, 23, true),
	}
}

// Start returns the first hour of the window.
func (w *ScheduleWindow) Start() int { return w.start.Get() }

// End returns the last hour of the window.
func (w *ScheduleWindow) End() int { return w.end.Get() }

// Field returns the editable value for f.
func (w *ScheduleWindow) Field(f ScheduleField) *Bounded {
	if f == ScheduleStart {
		return &w.start
	}
	return &w.end
}

// Outside reports whether hour falls outside the window. Both bounds are
// inclusive, so hour == end is still inside. The comparison does not wrap
// past midnight: a window with start > end covers no hour.
func (w *ScheduleWindow) Outside(hour int) bool {
	return hour < w.start.Get() || hour > w.end.Get()
}

// Frames renders field f on a display laid out by cm with every light dark.
func (w *ScheduleWindow) Frames(cm ChannelMap, f ScheduleField) (tens, ones frame.Frame) {
	var ch frame.Channels
	for _, pos := range cm.Lights {
		ch[pos] = true
	}
	return renderDigits(cm, ch, w.Field(f).Get())
}
