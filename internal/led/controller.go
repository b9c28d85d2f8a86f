// Package led drives the board status LED from controller mode changes.
package led

// Patterns understood by every Controller.
const (
	PatternSolid     = "solid"
	PatternBlink     = "blink"
	PatternHeartbeat = "heartbeat"
)

// Controller abstracts LED hardware control across different SBC boards.
// Implementations handle board-specific LED naming and capabilities.
type Controller interface {
	// Set switches the LED named by role on or off. A non-empty pattern
	// also changes how it lights; empty leaves the pattern alone.
	Set(role string, enabled bool, pattern string) error

	// Available returns the LED roles this board exposes.
	Available() []string

	// Patterns returns the patterns Set accepts.
	Patterns() []string
}
