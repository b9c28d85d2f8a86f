// Package controller runs the operating-mode state machine that drives every
// arm of an intersection: countdown display, flashing caution, the automatic
// day/night schedule and interactive duration setup.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/smazurov/trafficnode/internal/clock"
	"github.com/smazurov/trafficnode/internal/events"
	"github.com/smazurov/trafficnode/internal/frame"
	"github.com/smazurov/trafficnode/internal/input"
	"github.com/smazurov/trafficnode/internal/logging"
	"github.com/smazurov/trafficnode/internal/shiftreg"
	"github.com/smazurov/trafficnode/internal/signal"
)

// Defaults taken from the reference hardware.
const (
	DefaultRefreshCycles   = 80
	DefaultRefreshInterval = 5 * time.Millisecond
)

// Refresh sets the multiplexing cadence. One tick of the countdown lasts
// Cycles * 2 * Interval.
type Refresh struct {
	Cycles   int
	Interval time.Duration
}

// Inputs are the operator controls. Mode and Arm are edge counters fed from
// interrupt handlers or the API; Up and Down are polled by the loop.
type Inputs struct {
	Mode *input.Edge
	Arm  *input.Edge
	Up   input.Button
	Down input.Button
}

// Config holds everything needed to build a Controller.
type Config struct {
	Arms        []*signal.Arm
	Chains      []shiftreg.Chain // one per arm, same order
	Schedule    *signal.ScheduleWindow
	DisplayArm  int // arm that shows the schedule in SetAutoSchedule
	Inputs      Inputs
	Hours       clock.HourSource
	Sleeper     Sleeper
	Refresh     Refresh
	InitialMode Mode
	Bus         *events.Bus
	Logger      *slog.Logger
}

// Controller owns the arms and every piece of mode state. All methods except
// Status must be called from a single goroutine, normally via Run.
type Controller struct {
	arms     []*signal.Arm
	chains   []shiftreg.Chain
	schedule *signal.ScheduleWindow
	display  int
	in       Inputs
	hours    clock.HourSource
	sleeper  Sleeper
	refresh  Refresh
	bus      *events.Bus
	logger   *slog.Logger

	mode        Mode
	selectedArm int
	field       signal.ScheduleField
	ticks       uint64
	failing     []bool

	status atomic.Pointer[Status]
}

// New validates cfg and returns a controller in cfg.InitialMode with the
// first arm selected.
func New(cfg Config) (*Controller, error) {
	if len(cfg.Arms) == 0 {
		return nil, ErrNoArms
	}
	if len(cfg.Chains) != len(cfg.Arms) {
		return nil, fmt.Errorf("%w: %d arms, %d chains", ErrChainCount, len(cfg.Arms), len(cfg.Chains))
	}
	if cfg.DisplayArm < 0 || cfg.DisplayArm >= len(cfg.Arms) {
		return nil, fmt.Errorf("%w: %d", ErrDisplayArm, cfg.DisplayArm)
	}

	c := &Controller{
		arms:     cfg.Arms,
		chains:   cfg.Chains,
		schedule: cfg.Schedule,
		display:  cfg.DisplayArm,
		in:       cfg.Inputs,
		hours:    cfg.Hours,
		sleeper:  cfg.Sleeper,
		refresh:  cfg.Refresh,
		bus:      cfg.Bus,
		logger:   cfg.Logger,
		mode:     cfg.InitialMode.Step(0),
		failing:  make([]bool, len(cfg.Arms)),
	}

	if c.schedule == nil {
		c.schedule = signal.NewScheduleWindow(6, 22)
	}
	if c.in.Mode == nil {
		c.in.Mode = input.NewEdge(0)
	}
	if c.in.Arm == nil {
		c.in.Arm = input.NewEdge(0)
	}
	if c.in.Up == nil {
		c.in.Up = input.Buttons{}
	}
	if c.in.Down == nil {
		c.in.Down = input.Buttons{}
	}
	if c.hours == nil {
		sys, err := clock.NewSystem("")
		if err != nil {
			return nil, err
		}
		c.hours = sys
	}
	if c.sleeper == nil {
		c.sleeper = TimerSleeper
	}
	if c.refresh.Cycles <= 0 {
		c.refresh.Cycles = DefaultRefreshCycles
	}
	if c.refresh.Interval <= 0 {
		c.refresh.Interval = DefaultRefreshInterval
	}
	if c.logger == nil {
		c.logger = logging.GetLogger("controller")
	}

	c.publishStatus()
	return c, nil
}

// Mode returns the current mode. Loop goroutine only; use Status elsewhere.
func (c *Controller) Mode() Mode { return c.mode }

// Arms returns the controlled arms.
func (c *Controller) Arms() []*signal.Arm { return c.arms }

// Run ticks until ctx is canceled and returns ctx.Err().
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("Controller started",
		"mode", c.mode.String(),
		"arms", len(c.arms),
		"refresh_cycles", c.refresh.Cycles,
		"refresh_interval", c.refresh.Interval)

	for {
		if err := c.Tick(ctx); err != nil {
			c.logger.Info("Controller stopped", "reason", err)
			return err
		}
	}
}

// Tick consumes pending edges and runs one pass of the current mode's
// behavior. The only error returned is the context's.
func (c *Controller) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.applyEdges(c.in.Arm.Take(), c.in.Mode.Take())
	c.publishStatus()

	var err error
	switch c.mode {
	case Standard:
		err = c.standard(ctx)
	case BlinkYellow:
		err = c.blinkYellow(ctx)
	case Auto:
		err = c.auto(ctx)
	case SetAutoSchedule:
		err = c.setSchedule(ctx)
	case SetupRed:
		err = c.setup(ctx, signal.Red)
	case SetupGreen:
		err = c.setup(ctx, signal.Green)
	}

	c.ticks++
	c.publishStatus()
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (c *Controller) applyEdges(armEdges, modeEdges int) {
	if armEdges > 0 {
		if c.mode == SetAutoSchedule {
			if armEdges%2 == 1 {
				c.field = c.field.Next()
			}
		} else {
			c.selectedArm = (c.selectedArm + armEdges) % len(c.arms)
		}
		c.logger.Debug("Selection changed",
			"selected_arm", c.selectedArm,
			"schedule_field", c.field.String())
		c.bus.Publish(events.SelectionChangedEvent{
			SelectedArm:   c.selectedArm,
			ScheduleField: c.field.String(),
			Timestamp:     now(),
		})
	}

	if modeEdges > 0 {
		prev := c.mode
		c.mode = c.mode.Step(modeEdges)
		c.logger.Info("Mode changed", "from", prev.String(), "to", c.mode.String(), "presses", modeEdges)
		c.bus.Publish(events.ModeChangedEvent{
			Mode:      c.mode.String(),
			Previous:  prev.String(),
			Timestamp: now(),
		})
	}
}

// standard multiplexes the countdown of every arm for one tick, then steps
// every countdown. A pending mode press aborts the burst and skips the step.
func (c *Controller) standard(ctx context.Context) error {
	frames := make([][signal.NumDigits]frame.Frame, len(c.arms))
	for i, a := range c.arms {
		frames[i][signal.TensDigit], frames[i][signal.OnesDigit] = a.Frames()
	}

	for range c.refresh.Cycles {
		for pos := range signal.NumDigits {
			for i := range c.arms {
				c.send(i, frames[i][pos])
			}
			if err := c.sleeper.Sleep(ctx, c.refresh.Interval); err != nil {
				return err
			}
		}
		if c.in.Mode.Pending() {
			c.logger.Debug("Refresh burst aborted by mode press")
			return nil
		}
	}

	for i, a := range c.arms {
		a.Tick()
		if !a.Expired() {
			continue
		}
		a.Advance()
		c.logger.Debug("Phase advanced", "arm", a.Name(), "phase", a.Phase().String(), "remaining", a.Remaining())
		c.bus.Publish(events.PhaseChangedEvent{
			Arm:       i,
			Name:      a.Name(),
			Phase:     a.Phase().String(),
			Remaining: a.Remaining(),
			Timestamp: now(),
		})
	}
	return nil
}

// blinkYellow shows the yellow overlay for one Standard-length burst, then
// blacks out for another.
func (c *Controller) blinkYellow(ctx context.Context) error {
	hold := 2 * c.refresh.Interval
	for _, on := range [2]bool{true, false} {
		for i, a := range c.arms {
			c.send(i, a.Overlay(on))
		}
		for range c.refresh.Cycles {
			if err := c.sleeper.Sleep(ctx, hold); err != nil {
				return err
			}
			if c.in.Mode.Pending() {
				return nil
			}
		}
	}
	return nil
}

// auto blinks outside the schedule window and counts down inside it.
func (c *Controller) auto(ctx context.Context) error {
	if c.schedule.Outside(c.hours.Hour()) {
		return c.blinkYellow(ctx)
	}
	return c.standard(ctx)
}

// setSchedule shows the selected schedule bound on the display arm and edits
// it with Up and Down until a mode or arm press arrives.
func (c *Controller) setSchedule(ctx context.Context) error {
	c.blackout(c.display)

	cm := c.arms[c.display].Channels()
	tens, ones := c.schedule.Frames(cm, c.field)
	return c.interact(ctx, c.display, func() (frame.Frame, frame.Frame) { return tens, ones }, func(delta int) {
		f := c.schedule.Field(c.field)
		if delta > 0 {
			f.Inc()
		} else {
			f.Dec()
		}
		tens, ones = c.schedule.Frames(cm, c.field)
		c.logger.Info("Schedule changed", "start", c.schedule.Start(), "end", c.schedule.End())
		c.bus.Publish(events.ScheduleChangedEvent{
			Start:     c.schedule.Start(),
			End:       c.schedule.End(),
			Field:     c.field.String(),
			Timestamp: now(),
		})
	})
}

// setup forces the selected arm into phase p with its countdown showing the
// phase duration, and edits that duration live. The arm's phase and
// countdown are restored however the loop exits.
func (c *Controller) setup(ctx context.Context, p signal.Phase) error {
	idx := c.selectedArm
	arm := c.arms[idx]
	c.blackout(idx)

	snap := arm.Snapshot()
	defer arm.Restore(snap)

	arm.SetPhase(p)
	arm.SetRemaining(arm.Duration(p))
	field := arm.Editable(p)

	return c.interact(ctx, idx, arm.Frames, func(delta int) {
		if delta > 0 {
			field.Inc()
		} else {
			field.Dec()
		}
		arm.SetRemaining(arm.Duration(p))
		c.logger.Info("Duration changed", "arm", arm.Name(), "phase", p.String(), "duration", field.Get())
		c.bus.Publish(events.DurationChangedEvent{
			Arm:       idx,
			Name:      arm.Name(),
			Phase:     p.String(),
			Duration:  field.Get(),
			Timestamp: now(),
		})
	})
}

// interact multiplexes render() onto arm idx and applies Up/Down presses
// through edit until a mode or arm press is pending.
func (c *Controller) interact(ctx context.Context, idx int, render func() (frame.Frame, frame.Frame), edit func(delta int)) error {
	for !c.in.Mode.Pending() && !c.in.Arm.Pending() {
		tens, ones := render()
		for _, f := range [signal.NumDigits]frame.Frame{tens, ones} {
			c.send(idx, f)
			if err := c.sleeper.Sleep(ctx, c.refresh.Interval); err != nil {
				return err
			}
		}

		changed := false
		if c.poll(ctx, c.in.Up) {
			edit(+1)
			changed = true
		}
		if c.poll(ctx, c.in.Down) {
			edit(-1)
			changed = true
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if changed {
			c.publishStatus()
		}
	}
	return nil
}

// blackout sends the all-dark frame to every arm except keep.
func (c *Controller) blackout(keep int) {
	for i, a := range c.arms {
		if i != keep {
			c.send(i, a.TurnOff())
		}
	}
}

// send pushes f to arm i. Failures are logged once per failing streak and
// never interrupt the loop.
func (c *Controller) send(i int, f frame.Frame) {
	err := c.chains[i].Send(f)
	if err == nil {
		if c.failing[i] {
			c.failing[i] = false
			c.logger.Info("Chain recovered", "arm", c.arms[i].Name())
		}
		return
	}
	if c.failing[i] {
		return
	}
	c.failing[i] = true
	c.logger.Warn("Failed to send frame", "arm", c.arms[i].Name(), "error", err)
	c.bus.Publish(events.ChainErrorEvent{Arm: i, Error: err.Error(), Timestamp: now()})
}

func (c *Controller) poll(ctx context.Context, b input.Button) bool {
	pressed, err := b.Poll(ctx)
	if err != nil && ctx.Err() == nil {
		c.logger.Warn("Failed to read button", "error", err)
	}
	return pressed
}

func now() string {
	return time.Now().Format(time.RFC3339)
}
