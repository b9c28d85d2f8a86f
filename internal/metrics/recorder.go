package metrics

import (
	"github.com/smazurov/trafficnode/internal/events"
)

// Recorder turns controller events into counters.
type Recorder struct {
	bus    *events.Bus
	unsubs []func()
}

// NewRecorder returns a recorder for bus. Call Start to subscribe.
func NewRecorder(bus *events.Bus) *Recorder {
	return &Recorder{bus: bus}
}

// Start subscribes to the controller events.
func (r *Recorder) Start() {
	r.unsubs = append(r.unsubs,
		r.bus.Subscribe(func(e events.ModeChangedEvent) {
			RecordModeChange(e.Mode)
		}),
		r.bus.Subscribe(func(e events.PhaseChangedEvent) {
			RecordPhaseTransition(e.Name, e.Phase)
		}),
		r.bus.Subscribe(func(e events.DurationChangedEvent) {
			RecordDurationEdit(e.Name, e.Phase)
		}),
		r.bus.Subscribe(func(e events.ScheduleChangedEvent) {
			SetSchedule(e.Start, e.End)
		}),
	)
}

// Stop unsubscribes from the bus.
func (r *Recorder) Stop() {
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
}
