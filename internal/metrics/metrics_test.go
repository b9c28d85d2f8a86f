package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smazurov/trafficnode/internal/events"
	"github.com/smazurov/trafficnode/internal/frame"
	"github.com/smazurov/trafficnode/internal/shiftreg"
)

// gathered returns the value of the series name{labels} from the default
// registry, or -1 when absent.
func gathered(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue next
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return -1
}

func TestSetArm(t *testing.T) {
	SetArm("set-arm", 2, 17)
	defer DeleteArm("set-arm")

	if v := gathered(t, "trafficnode_arm_phase", map[string]string{"arm": "set-arm"}); v != 2 {
		t.Errorf("phase = %v, want 2", v)
	}
	if v := gathered(t, "trafficnode_arm_remaining", map[string]string{"arm": "set-arm"}); v != 17 {
		t.Errorf("remaining = %v, want 17", v)
	}

	DeleteArm("set-arm")
	if v := gathered(t, "trafficnode_arm_remaining", map[string]string{"arm": "set-arm"}); v != -1 {
		t.Errorf("series still present after DeleteArm: %v", v)
	}
}

func TestInstrumentChain(t *testing.T) {
	mem := shiftreg.NewMemory(0)
	c := InstrumentChain("chain-test", mem)
	defer DeleteArm("chain-test")

	for range 3 {
		if err := c.Send(frame.Frame{High: 1}); err != nil {
			t.Fatal(err)
		}
	}
	errDown := errors.New("down")
	mem.FailWith(errDown)
	if err := c.Send(frame.Frame{}); !errors.Is(err, errDown) {
		t.Errorf("Send() error = %v, want %v", err, errDown)
	}

	labels := map[string]string{"arm": "chain-test"}
	if v := gathered(t, "trafficnode_chain_frames_total", labels); v != 3 {
		t.Errorf("frames = %v, want 3", v)
	}
	if v := gathered(t, "trafficnode_chain_errors_total", labels); v != 1 {
		t.Errorf("errors = %v, want 1", v)
	}
	if len(mem.Frames()) != 3 {
		t.Errorf("wrapped chain recorded %d frames, want 3", len(mem.Frames()))
	}
}

func TestRecorder(t *testing.T) {
	bus := events.New()
	r := NewRecorder(bus)
	r.Start()
	defer r.Stop()
	defer DeleteArm("rec-arm")

	bus.Publish(events.PhaseChangedEvent{Name: "rec-arm", Phase: "green"})
	bus.Publish(events.DurationChangedEvent{Name: "rec-arm", Phase: "red", Duration: 21})
	bus.Publish(events.ScheduleChangedEvent{Start: 5, End: 23})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if gathered(t, "trafficnode_arm_phase_transitions_total", map[string]string{"arm": "rec-arm", "phase": "green"}) == 1 &&
			gathered(t, "trafficnode_arm_duration_edits_total", map[string]string{"arm": "rec-arm", "phase": "red"}) == 1 &&
			gathered(t, "trafficnode_schedule_hour", map[string]string{"bound": "end"}) == 23 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("recorder did not update counters")
}
