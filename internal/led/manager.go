package led

import (
	"log/slog"
	"sync"

	"github.com/smazurov/trafficnode/internal/controller"
	"github.com/smazurov/trafficnode/internal/events"
)

// Manager mirrors the controller mode on the status LED: solid while the
// countdown runs, blinking during caution and a heartbeat in setup modes.
type Manager struct {
	controller  Controller
	eventBus    *events.Bus
	unsubscribe func()
	logger      *slog.Logger

	mu      sync.Mutex
	pattern string
}

// NewManager creates a manager for ctrl. Call Start to begin listening.
func NewManager(ctrl Controller, eventBus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		controller: ctrl,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Start applies the pattern for initial and subscribes to mode changes.
func (m *Manager) Start(initial controller.Mode) {
	m.apply(initial)
	m.unsubscribe = m.eventBus.Subscribe(func(e events.ModeChangedEvent) {
		m.handleEvent(e)
	})
	m.logger.Info("LED manager started")
}

// Stop unsubscribes from the bus.
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.logger.Info("LED manager stopped")
}

func (m *Manager) handleEvent(e events.ModeChangedEvent) {
	mode, err := controller.ParseMode(e.Mode)
	if err != nil {
		m.logger.Warn("Ignoring mode change", "mode", e.Mode, "error", err)
		return
	}
	m.apply(mode)
}

func (m *Manager) apply(mode controller.Mode) {
	pattern := PatternForMode(mode)

	m.mu.Lock()
	defer m.mu.Unlock()
	if pattern == m.pattern {
		return
	}
	if err := m.controller.Set(RoleStatus, true, pattern); err != nil {
		m.logger.Warn("Failed to set status LED", "pattern", pattern, "error", err)
		return
	}
	m.pattern = pattern
	m.logger.Debug("Status LED updated", "mode", mode.String(), "pattern", pattern)
}

// PatternForMode returns the status LED pattern shown in mode.
func PatternForMode(mode controller.Mode) string {
	switch {
	case mode == controller.BlinkYellow:
		return PatternBlink
	case mode.Interactive():
		return PatternHeartbeat
	default:
		return PatternSolid
	}
}

// GetController returns the underlying LED controller for direct API access.
func (m *Manager) GetController() Controller {
	return m.controller
}
