package signal

import "errors"

// ErrUnknownPhase is returned when a phase name cannot be parsed.
var ErrUnknownPhase = errors.New("unknown phase")
