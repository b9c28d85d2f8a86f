package controller

import "errors"

var (
	// ErrUnknownMode is returned when a mode name cannot be parsed.
	ErrUnknownMode = errors.New("unknown mode")
	// ErrNoArms is returned when a controller is built without arms.
	ErrNoArms = errors.New("no arms configured")
	// ErrChainCount is returned when arms and chains differ in number.
	ErrChainCount = errors.New("one chain per arm required")
	// ErrDisplayArm is returned when the schedule display arm does not exist.
	ErrDisplayArm = errors.New("schedule display arm out of range")
)
