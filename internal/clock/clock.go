// Package clock supplies the hour of day used by the automatic schedule.
package clock

import (
	"fmt"
	"sync/atomic"
	"time"
)

// HourSource reports the current hour, 0..23.
type HourSource interface {
	Hour() int
}

// System reads the wall clock in a fixed location.
type System struct {
	loc *time.Location
	now func() time.Time
}

// NewSystem returns a System for the IANA zone name. An empty name uses the
// host's local zone.
func NewSystem(zone string) (*System, error) {
	loc := time.Local
	if zone != "" {
		var err error
		loc, err = time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("failed to load time zone %q: %w", zone, err)
		}
	}
	return &System{loc: loc, now: time.Now}, nil
}

// Hour implements HourSource.
func (s *System) Hour() int {
	return s.now().In(s.loc).Hour()
}

// Location returns the zone hours are reported in.
func (s *System) Location() *time.Location { return s.loc }

// Fixed is an HourSource whose hour is set explicitly. It is safe for
// concurrent use.
type Fixed struct {
	hour atomic.Int32
}

// NewFixed returns a Fixed reporting hour.
func NewFixed(hour int) *Fixed {
	f := &Fixed{}
	f.Set(hour)
	return f
}

// Set changes the reported hour, reduced modulo 24.
func (f *Fixed) Set(hour int) {
	f.hour.Store(int32(((hour % 24) + 24) % 24))
}

// Hour implements HourSource.
func (f *Fixed) Hour() int {
	return int(f.hour.Load())
}
