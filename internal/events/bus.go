// Package events carries typed controller notifications between the control
// loop and its observers (status LED, metrics, SSE clients).
package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// A nil bus drops the event.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	// kelindar/event dispatches on the static type, so unwrap the interface
	switch e := ev.(type) {
	case ModeChangedEvent:
		event.Publish(b.dispatcher, e)
	case SelectionChangedEvent:
		event.Publish(b.dispatcher, e)
	case PhaseChangedEvent:
		event.Publish(b.dispatcher, e)
	case DurationChangedEvent:
		event.Publish(b.dispatcher, e)
	case ScheduleChangedEvent:
		event.Publish(b.dispatcher, e)
	case ChainErrorEvent:
		event.Publish(b.dispatcher, e)
	case StatusEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler for the event type named by its parameter and
// returns the unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e ModeChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(ModeChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SelectionChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PhaseChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(DurationChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ScheduleChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ChainErrorEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(StatusEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
