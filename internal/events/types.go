package events

// Event type constants for kelindar/event.
const (
	TypeModeChanged uint32 = iota + 1
	TypeSelectionChanged
	TypePhaseChanged
	TypeDurationChanged
	TypeScheduleChanged
	TypeChainError
	TypeStatus
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// ModeChangedEvent is published when the controller steps to a new mode.
// Used for status LED control and the SSE stream.
type ModeChangedEvent struct {
	Mode      string `json:"mode" example:"blink_yellow" doc:"New operating mode"`
	Previous  string `json:"previous" example:"standard" doc:"Mode before the change"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ModeChangedEvent.
func (e ModeChangedEvent) Type() uint32 { return TypeModeChanged }

// SelectionChangedEvent is published when the arm-select input moves the
// selected arm or schedule field.
type SelectionChangedEvent struct {
	SelectedArm   int    `json:"selected_arm" example:"1" doc:"Index of the selected arm"`
	ScheduleField string `json:"schedule_field" example:"start" doc:"Schedule bound being edited"`
	Timestamp     string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SelectionChangedEvent.
func (e SelectionChangedEvent) Type() uint32 { return TypeSelectionChanged }

// PhaseChangedEvent is published when an arm advances to its next phase.
type PhaseChangedEvent struct {
	Arm       int    `json:"arm" example:"0" doc:"Arm index"`
	Name      string `json:"name" example:"north" doc:"Arm name"`
	Phase     string `json:"phase" example:"green" doc:"New phase"`
	Remaining int    `json:"remaining" example:"46" doc:"Countdown loaded for the new phase"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PhaseChangedEvent.
func (e PhaseChangedEvent) Type() uint32 { return TypePhaseChanged }

// DurationChangedEvent is published when a phase duration is edited in a
// setup mode.
type DurationChangedEvent struct {
	Arm       int    `json:"arm" example:"0" doc:"Arm index"`
	Name      string `json:"name" example:"north" doc:"Arm name"`
	Phase     string `json:"phase" example:"red" doc:"Edited phase"`
	Duration  int    `json:"duration" example:"69" doc:"New duration in ticks"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for DurationChangedEvent.
func (e DurationChangedEvent) Type() uint32 { return TypeDurationChanged }

// ScheduleChangedEvent is published when a schedule bound is edited.
type ScheduleChangedEvent struct {
	Start     int    `json:"start" example:"6" doc:"First hour of normal operation"`
	End       int    `json:"end" example:"22" doc:"Last hour of normal operation"`
	Field     string `json:"field" example:"start" doc:"Edited bound"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ScheduleChangedEvent.
func (e ScheduleChangedEvent) Type() uint32 { return TypeScheduleChanged }

// ChainErrorEvent is published when a frame could not be pushed to an arm's
// shift-register chain.
type ChainErrorEvent struct {
	Arm       int    `json:"arm" example:"1" doc:"Arm index"`
	Error     string `json:"error" example:"line busy" doc:"Error description"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ChainErrorEvent.
func (e ChainErrorEvent) Type() uint32 { return TypeChainError }

// ArmSample is the per-arm part of a StatusEvent.
type ArmSample struct {
	Name      string `json:"name" example:"north" doc:"Arm name"`
	Phase     string `json:"phase" example:"red" doc:"Current phase"`
	Remaining int    `json:"remaining" example:"42" doc:"Countdown value"`
}

// StatusEvent is a periodic summary of the intersection for dashboards.
type StatusEvent struct {
	Mode        string      `json:"mode" example:"standard" doc:"Operating mode"`
	SelectedArm int         `json:"selected_arm" example:"0" doc:"Index of the selected arm"`
	Arms        []ArmSample `json:"arms" doc:"Per-arm countdown"`
	Timestamp   string      `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Sample timestamp"`
}

// Type returns the event type identifier for StatusEvent.
func (e StatusEvent) Type() uint32 { return TypeStatus }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"controller" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
