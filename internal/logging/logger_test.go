package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

func resetState() {
	mutex.Lock()
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	moduleFormats = make(map[string]string)
	isInitialized = false
	globalConfig = Config{}
	logBuffer = NewRingBuffer(defaultBufferSize)
	logCallback = nil
	mutex.Unlock()
}

func TestModuleLevelOverride(t *testing.T) {
	resetState()

	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"controller": "debug",
			"api":        "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"controller", true, true, true},
		{"api", false, false, true},
		{"hardware", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			handler := GetLogger(tt.module).Handler()
			ctx := context.Background()

			if got := handler.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("Debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := handler.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("Info enabled = %v, want %v", got, tt.wantInfo)
			}
			if got := handler.Enabled(ctx, slog.LevelWarn); got != tt.wantWarn {
				t.Errorf("Warn enabled = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	resetState()

	before := GetLogger("controller")
	if before.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("logger created before Initialize should default to info")
	}

	Initialize(Config{
		Level:   "info",
		Format:  "text",
		Modules: map[string]string{"controller": "debug"},
	})

	if after := GetLogger("controller"); after != before {
		t.Error("logger should be cached across Initialize when format is unchanged")
	}
	if !before.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("cached logger should have debug enabled after Initialize")
	}
}

func TestSetLevels(t *testing.T) {
	resetState()
	Initialize(Config{Level: "info", Format: "text"})

	logger := GetLogger("config")
	if logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug should be off before SetLevels")
	}

	SetLevels(Config{Level: "warn", Modules: map[string]string{"config": "debug"}})

	if !logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be on after SetLevels")
	}
	if GetLogger("api").Handler().Enabled(context.Background(), slog.LevelInfo) {
		t.Error("api should inherit global warn level")
	}
}

func TestBufferHandlerWritesEntries(t *testing.T) {
	resetState()

	var seen []LogEntry
	SetLogCallback(func(e LogEntry) { seen = append(seen, e) })

	logger := slog.New(NewBufferHandler(slog.LevelInfo)).With("module", "controller")
	logger.Debug("dropped")
	logger.Info("mode changed", "mode", "auto", "err", errors.New("boom"))
	logger.WithGroup("arm").Warn("chain send failed", "index", 1)

	entries := GetBuffer().ReadAll()
	if len(entries) != 2 {
		t.Fatalf("buffer has %d entries, want 2", len(entries))
	}
	if len(seen) != 2 {
		t.Errorf("callback saw %d entries, want 2", len(seen))
	}

	first := entries[0]
	if first.Module != "controller" || first.Level != "info" || first.Message != "mode changed" {
		t.Errorf("unexpected first entry %+v", first)
	}
	if first.Attributes["mode"] != "auto" || first.Attributes["err"] != "boom" {
		t.Errorf("unexpected attributes %v", first.Attributes)
	}
	if entries[1].Attributes["arm.index"] != int64(1) {
		t.Errorf("grouped attribute = %v, want 1", entries[1].Attributes["arm.index"])
	}
}

func TestRingBufferWraps(t *testing.T) {
	rb := NewRingBuffer(3)
	for i := 0; i < 5; i++ {
		if e := rb.Write(LogEntry{Message: string(rune('a' + i))}); e.Seq != uint64(i+1) {
			t.Errorf("Write() seq = %d, want %d", e.Seq, i+1)
		}
	}

	got := rb.ReadAll()
	if len(got) != 3 || rb.Count() != 3 {
		t.Fatalf("ReadAll() len = %d, Count() = %d, want 3", len(got), rb.Count())
	}
	for i, want := range []string{"c", "d", "e"} {
		if got[i].Message != want || got[i].Seq != uint64(i+3) {
			t.Errorf("entry %d = %q seq %d, want %q seq %d", i, got[i].Message, got[i].Seq, want, i+3)
		}
	}
	if rb.LastSeq() != 5 {
		t.Errorf("LastSeq() = %d, want 5", rb.LastSeq())
	}
}

func TestRingBufferEmpty(t *testing.T) {
	rb := NewRingBuffer(4)
	if rb.Count() != 0 || rb.ReadAll() != nil || rb.LastSeq() != 0 {
		t.Errorf("empty buffer: count %d, entries %v, last %d", rb.Count(), rb.ReadAll(), rb.LastSeq())
	}
}

func TestRingBufferSince(t *testing.T) {
	rb := NewRingBuffer(4)
	for i := 0; i < 6; i++ {
		rb.Write(LogEntry{Message: string(rune('a' + i))})
	}

	tests := []struct {
		since uint64
		want  string
	}{
		{0, "cdef"},
		{2, "cdef"},
		{4, "ef"},
		{6, ""},
		{9, ""},
	}
	for _, tt := range tests {
		var got strings.Builder
		for _, e := range rb.Since(tt.since) {
			got.WriteString(e.Message)
		}
		if got.String() != tt.want {
			t.Errorf("Since(%d) = %q, want %q", tt.since, got.String(), tt.want)
		}
	}
}

func TestRingBufferQuery(t *testing.T) {
	rb := NewRingBuffer(10)
	for _, e := range []LogEntry{
		{Module: "controller", Level: "debug", Message: "a"},
		{Module: "controller", Level: "info", Message: "b"},
		{Module: "hardware", Level: "error", Message: "c"},
		{Module: "controller", Level: "warn", Message: "d"},
	} {
		rb.Write(e)
	}

	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"all", Filter{}, "abcd"},
		{"module", Filter{Module: "controller"}, "abd"},
		{"level", Filter{MinLevel: "info"}, "bcd"},
		{"limit keeps newest", Filter{Limit: 2}, "cd"},
		{"combined", Filter{Module: "controller", MinLevel: "info", Limit: 1}, "d"},
		{"no match", Filter{Module: "api"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got strings.Builder
			for _, e := range rb.Query(tt.filter) {
				got.WriteString(e.Message)
			}
			if got.String() != tt.want {
				t.Errorf("Query() = %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestCallbackSeesSeq(t *testing.T) {
	resetState()

	var seqs []uint64
	SetLogCallback(func(e LogEntry) { seqs = append(seqs, e.Seq) })

	logger := slog.New(NewBufferHandler(slog.LevelInfo)).With("module", "api")
	logger.Info("one")
	logger.Info("two")

	if len(seqs) != 2 || seqs[0] != 1 || seqs[1] != 2 {
		t.Errorf("callback seqs = %v, want [1 2]", seqs)
	}
	if got := GetBuffer().ReadAll()[1].Module; got != "api" {
		t.Errorf("module = %q, want api", got)
	}
}

type failingHandler struct{ err error }

func (f failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (f failingHandler) Handle(context.Context, slog.Record) error { return f.err }
func (f failingHandler) WithAttrs([]slog.Attr) slog.Handler        { return f }
func (f failingHandler) WithGroup(string) slog.Handler             { return f }

func TestFanoutDebugOutput(t *testing.T) {
	var buf bytes.Buffer

	debugHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	infoHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(fanout{debugHandler, infoHandler}).With("module", "test")
	logger.Debug("debug only message")

	if count := strings.Count(buf.String(), "debug only message"); count != 1 {
		t.Errorf("expected 1 debug message, got %d. Output: %s", count, buf.String())
	}
}

func TestFanoutJoinsErrors(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("journal gone")
	h := fanout{failingHandler{err: boom}, slog.NewTextHandler(&buf, nil)}

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "still written", 0))
	if !errors.Is(err, boom) {
		t.Errorf("Handle() = %v, want %v", err, boom)
	}
	if !strings.Contains(buf.String(), "still written") {
		t.Error("later sinks should still receive the record")
	}
}

func TestParseLevelValues(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		isNil bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input)
			if tt.isNil {
				if got != nil {
					t.Errorf("parseLevel(%q) = %v, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestJournalHandlerFields(t *testing.T) {
	type sent struct {
		msg    string
		pri    journal.Priority
		fields map[string]string
	}
	var got []sent
	orig := journalSend
	journalSend = func(msg string, pri journal.Priority, fields map[string]string) error {
		got = append(got, sent{msg, pri, fields})
		return nil
	}
	t.Cleanup(func() { journalSend = orig })

	logger := slog.New(NewJournalHandler(slog.LevelDebug)).With("module", "controller")
	logger.WithGroup("arm").Warn("Failed to send frame", "name", "arm1", "index", 0)
	logger.Info("Mode changed", "to", "auto", "took", 5*time.Millisecond, "chain-ok", true)

	if len(got) != 2 {
		t.Fatalf("sent %d entries, want 2", len(got))
	}

	first := got[0]
	if first.pri != journal.PriWarning || first.msg != "Failed to send frame" {
		t.Errorf("first = %q pri %d", first.msg, first.pri)
	}
	for k, want := range map[string]string{
		"SYSLOG_IDENTIFIER": Identifier,
		"MODULE":            "controller",
		"ARM_NAME":          "arm1",
		"ARM_INDEX":         "0",
	} {
		if first.fields[k] != want {
			t.Errorf("field %s = %q, want %q", k, first.fields[k], want)
		}
	}

	second := got[1].fields
	if second["TOOK"] != "5ms" || second["CHAIN_OK"] != "true" || second["TO"] != "auto" {
		t.Errorf("second fields = %v", second)
	}
	if _, ok := second["ARM_NAME"]; ok {
		t.Error("group fields leaked into a sibling logger")
	}
}

func TestJournalFieldName(t *testing.T) {
	tests := map[string]string{
		"module":      "MODULE",
		"arm.index":   "ARM_INDEX",
		"refresh-ms":  "REFRESH_MS",
		"_private":    "PRIVATE",
		"2fast":       "FAST",
		"---":         "FIELD",
		"selectedArm": "SELECTEDARM",
	}
	for in, want := range tests {
		if got := fieldName(in); got != want {
			t.Errorf("fieldName(%q) = %q, want %q", in, got, want)
		}
	}
}
