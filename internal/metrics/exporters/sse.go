package exporters

import (
	"context"
	"sync"
	"time"

	"github.com/smazurov/trafficnode/internal/controller"
	"github.com/smazurov/trafficnode/internal/events"
	"github.com/smazurov/trafficnode/internal/metrics"
)

// EventPublisher interface for publishing events.
type EventPublisher interface {
	Publish(ev events.Event)
}

// StatusSource supplies controller snapshots.
type StatusSource interface {
	Status() controller.Status
}

// StatusExporter samples the controller at a fixed interval, updates the
// state gauges and publishes a StatusEvent for SSE clients.
type StatusExporter struct {
	source   StatusSource
	eventBus EventPublisher
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewStatusExporter creates an exporter sampling every interval.
func NewStatusExporter(source StatusSource, eventBus EventPublisher, interval time.Duration) *StatusExporter {
	if interval <= 0 {
		interval = time.Second
	}
	return &StatusExporter{
		source:   source,
		eventBus: eventBus,
		interval: interval,
	}
}

// Start begins the export loop.
func (s *StatusExporter) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run()
}

// Stop stops the exporter and waits for the goroutine to finish.
func (s *StatusExporter) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *StatusExporter) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.Export()
		}
	}
}

// Export takes one sample immediately.
func (s *StatusExporter) Export() {
	st := s.source.Status()

	metrics.SetMode(int(st.Mode))
	metrics.SetSchedule(st.ScheduleStart, st.ScheduleEnd)

	arms := make([]events.ArmSample, len(st.Arms))
	for i, a := range st.Arms {
		metrics.SetArm(a.Name, int(a.Phase), a.Remaining)
		arms[i] = events.ArmSample{Name: a.Name, Phase: a.Phase.String(), Remaining: a.Remaining}
	}

	if s.eventBus != nil {
		s.eventBus.Publish(events.StatusEvent{
			Mode:        st.Mode.String(),
			SelectedArm: st.SelectedArm,
			Arms:        arms,
			Timestamp:   time.Now().Format(time.RFC3339),
		})
	}
}
