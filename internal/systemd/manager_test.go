package systemd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/coreos/go-systemd/v22/dbus"
	godbus "github.com/godbus/dbus/v5"
)

type fakeConn struct {
	state   string
	result  string
	err     error
	unit    string
	mode    string
	closed  bool
	restart int
}

func (c *fakeConn) GetUnitPropertyContext(_ context.Context, unit, property string) (*dbus.Property, error) {
	c.unit = unit
	if c.err != nil {
		return nil, c.err
	}
	return &dbus.Property{Name: property, Value: godbus.MakeVariant(c.state)}, nil
}

func (c *fakeConn) RestartUnitContext(_ context.Context, name, mode string, ch chan<- string) (int, error) {
	c.unit, c.mode = name, mode
	if c.err != nil {
		return 0, c.err
	}
	c.restart++
	if c.result != "" {
		ch <- c.result
	}
	return 1, nil
}

func (c *fakeConn) Close() { c.closed = true }

func TestActiveState(t *testing.T) {
	conn := &fakeConn{state: "active"}
	m := &Manager{conn: conn, unit: DefaultUnit}

	state, err := m.ActiveState(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if state != "active" || conn.unit != DefaultUnit {
		t.Errorf("state = %q for unit %q", state, conn.unit)
	}

	conn.err = errors.New("no bus")
	if _, err := m.ActiveState(context.Background()); !errors.Is(err, conn.err) {
		t.Errorf("error = %v, want wrapped bus error", err)
	}
}

func TestRestart(t *testing.T) {
	tests := []struct {
		name    string
		result  string
		wantErr error
	}{
		{"done", "done", nil},
		{"failed", "failed", ErrRestartFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConn{result: tt.result}
			m := &Manager{conn: conn, unit: "trafficnode.service"}

			err := m.Restart(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Restart() = %v, want %v", err, tt.wantErr)
			}
			if conn.mode != "replace" || conn.restart != 1 {
				t.Errorf("mode = %q, restarts = %d", conn.mode, conn.restart)
			}
		})
	}
}

func TestRestartHonorsContext(t *testing.T) {
	m := &Manager{conn: &fakeConn{}, unit: DefaultUnit}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := m.Restart(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Restart() = %v, want deadline exceeded", err)
	}
}

func TestClose(t *testing.T) {
	conn := &fakeConn{}
	(&Manager{conn: conn}).Close()
	if !conn.closed {
		t.Error("Close did not close the connection")
	}
	(&Manager{}).Close()
}

func stubNotify(t *testing.T) *[]string {
	t.Helper()
	var sent []string
	old := sdNotify
	sdNotify = func(_ bool, state string) (bool, error) {
		sent = append(sent, state)
		return true, nil
	}
	t.Cleanup(func() { sdNotify = old })
	return &sent
}

func TestNotifyReady(t *testing.T) {
	sent := stubNotify(t)
	NotifyReady(slog.New(slog.NewTextHandler(io.Discard, nil)))
	NotifyStopping()

	if len(*sent) != 2 || (*sent)[0] != daemon.SdNotifyReady || (*sent)[1] != daemon.SdNotifyStopping {
		t.Errorf("sent = %q", *sent)
	}
}

func TestWatchdogLoopSkipsWhenStalled(t *testing.T) {
	var pings atomic.Int32
	old := sdNotify
	sdNotify = func(_ bool, state string) (bool, error) {
		if state == daemon.SdNotifyWatchdog {
			pings.Add(1)
		}
		return true, nil
	}
	t.Cleanup(func() { sdNotify = old })

	var healthy atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watchdogLoop(ctx, 5*time.Millisecond, healthy.Load, slog.New(slog.NewTextHandler(io.Discard, nil)))
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	if got := pings.Load(); got != 0 {
		t.Errorf("pinged %d times while stalled", got)
	}

	healthy.Store(true)
	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	if pings.Load() == 0 {
		t.Error("expected pings once healthy")
	}
}
