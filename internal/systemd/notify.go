package systemd

import (
	"context"
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

var sdNotify = daemon.SdNotify

// NotifyReady tells systemd that startup finished. It is a no-op outside a
// Type=notify unit.
func NotifyReady(logger *slog.Logger) {
	sent, err := sdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		logger.Warn("sd_notify READY failed", "error", err)
		return
	}
	if sent {
		logger.Debug("Notified systemd ready")
	}
}

// NotifyStopping tells systemd that shutdown began.
func NotifyStopping() {
	_, _ = sdNotify(false, daemon.SdNotifyStopping)
}

// Watchdog pings the watchdog at half the configured interval until ctx is
// done. alive is consulted before each ping; a false result skips it so
// systemd restarts a wedged process. Returns immediately when no watchdog
// is configured.
func Watchdog(ctx context.Context, alive func() bool, logger *slog.Logger) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	watchdogLoop(ctx, interval/2, alive, logger)
}

func watchdogLoop(ctx context.Context, every time.Duration, alive func() bool, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if alive != nil && !alive() {
				logger.Warn("Skipping watchdog ping, control loop stalled")
				continue
			}
			if _, err := sdNotify(false, daemon.SdNotifyWatchdog); err != nil {
				logger.Warn("sd_notify WATCHDOG failed", "error", err)
			}
		}
	}
}
