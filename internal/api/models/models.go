package models

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit SHA"`
	BuildDate string `json:"build_date" example:"2024-12-15 14:30" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"a1b2c3d4" doc:"Unique build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.0" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Compiler used"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Status models

// FrameData is one packed frame as it goes over the wire.
type FrameData struct {
	Hex  string `json:"hex" example:"8340" doc:"High and low byte as four hex digits"`
	Word uint16 `json:"word" example:"33600" doc:"High<<8 | Low"`
}

type ArmData struct {
	Index     int       `json:"index" example:"0" doc:"Arm index"`
	Name      string    `json:"name" example:"arm1" doc:"Arm name"`
	Phase     string    `json:"phase" enum:"red,green,yellow" example:"red" doc:"Current phase"`
	Remaining int       `json:"remaining" example:"42" doc:"Countdown value"`
	Red       int       `json:"red" example:"68" doc:"Red duration in ticks"`
	Green     int       `json:"green" example:"46" doc:"Green duration in ticks"`
	Yellow    int       `json:"yellow" example:"3" doc:"Yellow duration in ticks"`
	Tens      FrameData `json:"tens" doc:"Frame for the tens digit position"`
	Ones      FrameData `json:"ones" doc:"Frame for the ones digit position"`
}

type ScheduleData struct {
	Start int    `json:"start" example:"6" doc:"First hour of normal operation"`
	End   int    `json:"end" example:"22" doc:"Last hour of normal operation"`
	Field string `json:"field" enum:"start,end" example:"start" doc:"Bound edited in set_auto_schedule mode"`
}

type StatusData struct {
	Mode        string       `json:"mode" example:"standard" doc:"Operating mode"`
	SelectedArm int          `json:"selected_arm" example:"0" doc:"Arm targeted by setup modes"`
	Schedule    ScheduleData `json:"schedule" doc:"Automatic day/night window"`
	Ticks       uint64       `json:"ticks" example:"1234" doc:"Control loop iterations since start"`
	Arms        []ArmData    `json:"arms" doc:"Per-arm state"`
}

type StatusResponse struct {
	Body StatusData
}

// Input models
type InputRequest struct {
	Input string `path:"input" enum:"mode,arm,up,down" example:"mode" doc:"Virtual input to actuate"`
}

type InputData struct {
	Input    string `json:"input" example:"mode" doc:"Actuated input"`
	Accepted bool   `json:"accepted" example:"true" doc:"False when the press fell inside the debounce window"`
}

type InputResponse struct {
	Body InputData
}

// Log models
type LogsRequest struct {
	Limit  int    `query:"limit" minimum:"0" example:"100" doc:"Return at most this many newest entries (0 = all)"`
	Module string `query:"module" example:"controller" doc:"Only entries from this module"`
	Level  string `query:"level" enum:"debug,info,warn,error" doc:"Minimum level"`
}

type LogEntryData struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Buffer sequence number"`
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"controller" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

type LogsData struct {
	Entries []LogEntryData `json:"entries" doc:"Buffered log entries, oldest first"`
	Count   int            `json:"count" example:"42" doc:"Number of entries returned"`
}

type LogsResponse struct {
	Body LogsData
}

// Intersection models
type ChainPins struct {
	Data  int `json:"data" example:"5" doc:"Serial data GPIO offset"`
	Clock int `json:"clock" example:"7" doc:"Shift clock GPIO offset"`
	Latch int `json:"latch" example:"6" doc:"Storage latch GPIO offset"`
}

type ArmLayout struct {
	Name            string    `json:"name" example:"arm1" doc:"Arm name"`
	InitialPhase    string    `json:"initial_phase" example:"red" doc:"Phase at power-on"`
	SegmentChannels []int     `json:"segment_channels" doc:"Chain positions of segments a..g"`
	DigitChannels   []int     `json:"digit_channels" doc:"Chain positions of the tens and ones enables"`
	LightChannels   []int     `json:"light_channels" doc:"Chain positions of the red, green and yellow lights"`
	Chain           ChainPins `json:"chain" doc:"GPIO offsets of the chain"`
}

type IntersectionData struct {
	Arms []ArmLayout `json:"arms" doc:"Configured arms"`
}

type IntersectionResponse struct {
	Body IntersectionData
}
