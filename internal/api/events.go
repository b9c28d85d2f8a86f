package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/trafficnode/internal/events"
)

// sseEventTypes maps SSE event names to payload types for /api/events.
var sseEventTypes = map[string]any{
	"mode-changed":      events.ModeChangedEvent{},
	"selection-changed": events.SelectionChangedEvent{},
	"phase-changed":     events.PhaseChangedEvent{},
	"duration-changed":  events.DurationChangedEvent{},
	"schedule-changed":  events.ScheduleChangedEvent{},
	"chain-error":       events.ChainErrorEvent{},
	"status":            events.StatusEvent{},
}

// registerSSERoutes registers the controller event stream.
func (s *Server) registerSSERoutes() {
	if s.eventBus == nil {
		s.logger.Debug("No event bus, skipping SSE routes")
		return
	}

	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of mode, selection, phase, duration and schedule changes, chain errors and periodic status",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, sseEventTypes, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 32)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.ModeChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.SelectionChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.PhaseChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.DurationChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ScheduleChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ChainErrorEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.StatusEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// greet with the current snapshot so clients render immediately
		if s.options.Status != nil {
			if err := send.Data(statusEvent(s.options.Status)); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}

func statusEvent(src StatusSource) events.StatusEvent {
	st := statusToAPI(src.Status())
	ev := events.StatusEvent{
		Mode:        st.Mode,
		SelectedArm: st.SelectedArm,
		Arms:        make([]events.ArmSample, len(st.Arms)),
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	for i, a := range st.Arms {
		ev.Arms[i] = events.ArmSample{Name: a.Name, Phase: a.Phase, Remaining: a.Remaining}
	}
	return ev
}
