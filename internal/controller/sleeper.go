package controller

import (
	"context"
	"time"
)

// Sleeper blocks for a duration. Implementations return early with the
// context's error when it is canceled.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep implements Sleeper.
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerSleeper sleeps on a real timer.
var TimerSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
})

// NoSleep returns immediately unless ctx is done. The simulator uses it to
// run ticks as fast as possible.
var NoSleep Sleeper = SleeperFunc(func(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
})
