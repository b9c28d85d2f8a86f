package led

import "log/slog"

// noop implements Controller for boards without a known LED.
type noop struct {
	logger *slog.Logger
}

func newNoop(logger *slog.Logger) *noop {
	return &noop{logger: logger}
}

// Set logs the request and does nothing else.
func (n *noop) Set(role string, enabled bool, pattern string) error {
	n.logger.Debug("LED control not available (no-op)",
		"role", role,
		"enabled", enabled,
		"pattern", pattern)
	return nil
}

func (n *noop) Available() []string { return []string{} }

func (n *noop) Patterns() []string { return []string{} }
