// Package metrics provides Prometheus metrics for the intersection controller.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trafficnode"

var (
	controllerMode = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "controller",
		Name:      "mode",
		Help:      "Current operating mode index (0 standard .. 5 setup_green)",
	})

	modeChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "controller",
		Name:      "mode_changes_total",
		Help:      "Mode changes by target mode",
	}, []string{"mode"})

	armPhase = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "arm",
		Name:      "phase",
		Help:      "Current phase index per arm (0 red, 1 green, 2 yellow)",
	}, []string{"arm"})

	armRemaining = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "arm",
		Name:      "remaining",
		Help:      "Countdown value per arm",
	}, []string{"arm"})

	phaseTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "arm",
		Name:      "phase_transitions_total",
		Help:      "Phase transitions per arm and entered phase",
	}, []string{"arm", "phase"})

	durationEdits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "arm",
		Name:      "duration_edits_total",
		Help:      "Operator edits of phase durations",
	}, []string{"arm", "phase"})

	scheduleHours = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "schedule",
		Name:      "hour",
		Help:      "Automatic schedule bounds",
	}, []string{"bound"})

	chainFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain",
		Name:      "frames_total",
		Help:      "Frames pushed to each shift-register chain",
	}, []string{"arm"})

	chainErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain",
		Name:      "errors_total",
		Help:      "Failed frame sends per chain",
	}, []string{"arm"})
)

// SetMode records the current mode.
func SetMode(index int) {
	controllerMode.Set(float64(index))
}

// RecordModeChange counts a change into mode.
func RecordModeChange(mode string) {
	modeChanges.WithLabelValues(mode).Inc()
}

// SetArm records the phase index and countdown of an arm.
func SetArm(arm string, phase, remaining int) {
	armPhase.WithLabelValues(arm).Set(float64(phase))
	armRemaining.WithLabelValues(arm).Set(float64(remaining))
}

// RecordPhaseTransition counts an arm entering phase.
func RecordPhaseTransition(arm, phase string) {
	phaseTransitions.WithLabelValues(arm, phase).Inc()
}

// RecordDurationEdit counts an operator edit.
func RecordDurationEdit(arm, phase string) {
	durationEdits.WithLabelValues(arm, phase).Inc()
}

// SetSchedule records the schedule window.
func SetSchedule(start, end int) {
	scheduleHours.WithLabelValues("start").Set(float64(start))
	scheduleHours.WithLabelValues("end").Set(float64(end))
}

// DeleteArm removes every per-arm series for arm.
func DeleteArm(arm string) {
	armPhase.DeleteLabelValues(arm)
	armRemaining.DeleteLabelValues(arm)
	chainFrames.DeleteLabelValues(arm)
	chainErrors.DeleteLabelValues(arm)
	phaseTransitions.DeletePartialMatch(prometheus.Labels{"arm": arm})
	durationEdits.DeletePartialMatch(prometheus.Labels{"arm": arm})
}
