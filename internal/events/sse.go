package events

import "github.com/kelindar/event"

// SubscribeToChannel forwards every T published on bus into ch, so an SSE
// handler can select on bus events next to its request context. A full ch
// drops the event rather than stalling the control loop that published it.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
