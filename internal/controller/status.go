package controller

import (
	"github.com/smazurov/trafficnode/internal/frame"
	"github.com/smazurov/trafficnode/internal/signal"
)

// ArmStatus is the reported state of one arm together with the frames
// that would currently be sent for it.
type ArmStatus struct {
	signal.ArmState
	Tens frame.Frame
	Ones frame.Frame
}

// Status is an immutable snapshot of the controller, published after every
// tick and every interactive edit.
type Status struct {
	Mode          Mode
	SelectedArm   int
	ScheduleField signal.ScheduleField
	ScheduleStart int
	ScheduleEnd   int
	Ticks         uint64
	Arms          []ArmStatus
}

// Status returns the latest published snapshot. It is safe to call from
// any goroutine.
func (c *Controller) Status() Status {
	if s := c.status.Load(); s != nil {
		return *s
	}
	return Status{}
}

// publishStatus must only be called from the loop goroutine.
func (c *Controller) publishStatus() {
	s := &Status{
		Mode:          c.mode,
		SelectedArm:   c.selectedArm,
		ScheduleField: c.field,
		ScheduleStart: c.schedule.Start(),
		ScheduleEnd:   c.schedule.End(),
		Ticks:         c.ticks,
		Arms:          make([]ArmStatus, len(c.arms)),
	}
	for i, a := range c.arms {
		tens, ones := a.Frames()
		s.Arms[i] = ArmStatus{ArmState: a.State(), Tens: tens, Ones: ones}
	}
	c.status.Store(s)
}
