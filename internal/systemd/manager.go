// Package systemd talks to the service manager: unit state and restarts over
// D-Bus, readiness and watchdog pings over the notify socket.
package systemd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"
)

// DefaultUnit is the unit installed by the package.
const DefaultUnit = "trafficnode.service"

// ErrRestartFailed is returned when systemd reports a job result other than "done".
var ErrRestartFailed = errors.New("unit restart failed")

// UnitManager reports and restarts one unit.
type UnitManager interface {
	Unit() string
	ActiveState(ctx context.Context) (string, error)
	Restart(ctx context.Context) error
}

type unitConn interface {
	GetUnitPropertyContext(ctx context.Context, unit, property string) (*dbus.Property, error)
	RestartUnitContext(ctx context.Context, name, mode string, ch chan<- string) (int, error)
	Close()
}

// Manager drives a single unit over D-Bus.
type Manager struct {
	conn unitConn
	unit string
}

// NewManager connects to the system bus, or the user bus when user is set.
func NewManager(ctx context.Context, unit string, user bool) (*Manager, error) {
	if unit == "" {
		unit = DefaultUnit
	}
	if !strings.Contains(unit, ".") {
		unit += ".service"
	}

	var (
		conn *dbus.Conn
		err  error
	)
	if user {
		conn, err = dbus.NewUserConnectionContext(ctx)
	} else {
		conn, err = dbus.NewSystemConnectionContext(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	return &Manager{conn: conn, unit: unit}, nil
}

// Unit returns the managed unit name.
func (m *Manager) Unit() string { return m.unit }

// ActiveState returns the unit's ActiveState property (active, failed, ...).
func (m *Manager) ActiveState(ctx context.Context) (string, error) {
	prop, err := m.conn.GetUnitPropertyContext(ctx, m.unit, "ActiveState")
	if err != nil {
		return "", fmt.Errorf("failed to read %s state: %w", m.unit, err)
	}
	s, ok := prop.Value.Value().(string)
	if !ok {
		return strings.Trim(prop.Value.String(), `"`), nil
	}
	return s, nil
}

// Restart queues a restart job in replace mode and waits for its result.
func (m *Manager) Restart(ctx context.Context) error {
	result := make(chan string, 1)
	if _, err := m.conn.RestartUnitContext(ctx, m.unit, "replace", result); err != nil {
		return fmt.Errorf("failed to restart %s: %w", m.unit, err)
	}
	select {
	case r := <-result:
		if r != "done" {
			return fmt.Errorf("%w: %s: %s", ErrRestartFailed, m.unit, r)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the D-Bus connection.
func (m *Manager) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}
