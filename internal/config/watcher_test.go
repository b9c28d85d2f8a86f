package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/trafficnode/internal/logging"
)

type scheduleFile struct {
	Start int `toml:"start"`
	End   int `toml:"end"`
}

func loadScheduleFile(path string) (scheduleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scheduleFile{}, err
	}
	var cfg scheduleFile
	err = toml.Unmarshal(data, &cfg)
	return cfg, err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startWatcher[T any](t *testing.T, w *Watcher[T]) {
	t.Helper()
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := w.Stop(); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	})
	// let the inotify watch settle
	time.Sleep(50 * time.Millisecond)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "schedule.toml", "start = 6\nend = 22\n")

	received := make(chan scheduleFile, 1)
	w := NewWatcher(path, loadScheduleFile, quietLogger(), WithDebounce[scheduleFile](30*time.Millisecond))
	w.OnReload(func(cfg scheduleFile) { received <- cfg })
	startWatcher(t, w)

	if err := os.WriteFile(path, []byte("start = 7\nend = 21\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Start != 7 || cfg.End != 21 {
			t.Errorf("got %+v, want 7..21", cfg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload")
	}
}

func TestWatcherSeesAtomicReplace(t *testing.T) {
	path := writeFile(t, "schedule.toml", "start = 6\nend = 22\n")

	received := make(chan scheduleFile, 1)
	w := NewWatcher(path, loadScheduleFile, quietLogger(), WithDebounce[scheduleFile](30*time.Millisecond))
	w.OnReload(func(cfg scheduleFile) { received <- cfg })
	startWatcher(t, w)

	tmp := filepath.Join(filepath.Dir(path), ".schedule.toml.swp")
	if err := os.WriteFile(tmp, []byte("start = 5\nend = 23\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Start != 5 || cfg.End != 23 {
			t.Errorf("got %+v, want 5..23", cfg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload after rename")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	path := writeFile(t, "schedule.toml", "start = 6\n")

	var count atomic.Int32
	w := NewWatcher(path, loadScheduleFile, quietLogger(), WithDebounce[scheduleFile](20*time.Millisecond))
	w.OnReload(func(scheduleFile) { count.Add(1) })
	startWatcher(t, w)

	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "other.toml"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("handler called %d times for an unrelated file", got)
	}
}

func TestWatcherDebounce(t *testing.T) {
	path := writeFile(t, "schedule.toml", "start = 0\n")

	var count, last atomic.Int32
	w := NewWatcher(path, loadScheduleFile, quietLogger(), WithDebounce[scheduleFile](200*time.Millisecond))
	w.OnReload(func(cfg scheduleFile) {
		count.Add(1)
		last.Store(int32(cfg.Start))
	})
	startWatcher(t, w)

	for i := 1; i <= 5; i++ {
		if err := os.WriteFile(path, fmt.Appendf(nil, "start = %d\n", i), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(30 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 debounced reload, got %d", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("last start = %d, want 5", got)
	}
}

func TestWatcherErrorHandler(t *testing.T) {
	path := writeFile(t, "schedule.toml", "start = 6\n")

	errs := make(chan error, 1)
	configs := make(chan scheduleFile, 1)
	w := NewWatcher(path, loadScheduleFile, quietLogger(),
		WithDebounce[scheduleFile](30*time.Millisecond),
		WithErrorHandler[scheduleFile](func(err error) { errs <- err }),
	)
	w.OnReload(func(cfg scheduleFile) { configs <- cfg })
	startWatcher(t, w)

	if err := os.WriteFile(path, []byte("invalid toml [[["), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-errs:
	case <-configs:
		t.Fatal("handler should not run when the loader fails")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error handler")
	}
}

func TestWatcherUnsubscribe(t *testing.T) {
	path := writeFile(t, "schedule.toml", "start = 6\n")

	var kept, removed atomic.Int32
	w := NewWatcher(path, loadScheduleFile, quietLogger())
	w.OnReload(func(scheduleFile) { kept.Add(1) })
	unsub := w.OnReload(func(scheduleFile) { removed.Add(1) })

	w.Reload()
	unsub()
	unsub()
	w.Reload()

	if kept.Load() != 2 || removed.Load() != 1 {
		t.Errorf("kept = %d, removed = %d, want 2 and 1", kept.Load(), removed.Load())
	}
}

func TestWatcherStop(t *testing.T) {
	path := writeFile(t, "schedule.toml", "start = 6\n")

	var count atomic.Int32
	w := NewWatcher(path, loadScheduleFile, quietLogger(), WithDebounce[scheduleFile](20*time.Millisecond))
	w.OnReload(func(scheduleFile) { count.Add(1) })
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("start = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected no reloads after Stop, got %d", got)
	}
}

func TestWatcherStartTwice(t *testing.T) {
	path := writeFile(t, "schedule.toml", "start = 6\n")
	w := NewWatcher(path, loadScheduleFile, quietLogger())
	startWatcher(t, w)

	if err := w.Start(context.Background()); !errors.Is(err, ErrWatcherStarted) {
		t.Errorf("second Start() = %v, want ErrWatcherStarted", err)
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "nope", "config.toml"), loadScheduleFile, quietLogger())
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("Start should fail when the directory does not exist")
	}
}

func TestWatchLoggingAppliesLevels(t *testing.T) {
	logging.Initialize(logging.Config{Level: "info", Format: "text"})
	t.Cleanup(func() { logging.SetLevels(logging.Config{Level: "info"}) })

	path := writeFile(t, "config.toml", "[logging]\nlevel = \"info\"\nwatchtest = \"debug\"\n")
	logger := logging.GetLogger("watchtest")
	if logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug should be off before reload")
	}

	WatchLogging(path, quietLogger()).Reload()

	if !logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be on after reload")
	}
}
