package api

import (
	"bufio"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/smazurov/trafficnode/internal/events"
)

// readData forwards `data:` lines and the `event:` line preceding each.
func readData(resp *http.Response) <-chan string {
	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		event := ""
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				lines <- event + " " + strings.TrimSpace(strings.TrimPrefix(line, "data:"))
				event = ""
			}
		}
	}()
	return lines
}

func nextData(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case l, ok := <-lines:
		if !ok {
			t.Fatal("stream closed")
		}
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for SSE data")
	}
	return ""
}

func TestEventStream(t *testing.T) {
	bus := events.New()
	env := newTestEnv(t, func(o *Options) { o.EventBus = bus })

	req, _ := http.NewRequest(http.MethodGet, env.ts.URL+"/api/events", nil)
	req.SetBasicAuth("admin", "secret")
	req.Header.Set("Accept", "text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Fatalf("Content-Type = %q", ct)
	}

	lines := readData(resp)

	greeting := nextData(t, lines)
	if !strings.HasPrefix(greeting, "status ") || !strings.Contains(greeting, `"name":"arm1"`) {
		t.Errorf("greeting = %q, want status snapshot", greeting)
	}

	bus.Publish(events.ModeChangedEvent{Mode: "blink_yellow", Previous: "standard"})
	got := nextData(t, lines)
	if !strings.HasPrefix(got, "mode-changed ") || !strings.Contains(got, `"previous":"standard"`) {
		t.Errorf("event = %q, want mode-changed", got)
	}

	bus.Publish(events.PhaseChangedEvent{Arm: 1, Name: "arm2", Phase: "yellow", Remaining: 5})
	got = nextData(t, lines)
	if !strings.HasPrefix(got, "phase-changed ") || !strings.Contains(got, `"phase":"yellow"`) {
		t.Errorf("event = %q, want phase-changed", got)
	}
}

func TestEventStreamRequiresAuth(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.EventBus = events.New() })

	if resp := env.do(t, http.MethodGet, "/api/events", false); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestLogStreamReplaysBuffer(t *testing.T) {
	bus := events.New()
	env := newTestEnv(t, func(o *Options) { o.EventBus = bus })

	marker := "replay-marker-" + time.Now().Format("150405.000000")
	// the buffer is process-wide; write through a logger so the entry lands there
	loggerFor(t).Info(marker)

	req, _ := http.NewRequest(http.MethodGet, env.ts.URL+"/api/logs/stream", nil)
	req.SetBasicAuth("admin", "secret")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	lines := readData(resp)
	deadline := time.After(2 * time.Second)
	for {
		select {
		case l, ok := <-lines:
			if !ok {
				t.Fatal("stream closed before marker")
			}
			if strings.Contains(l, marker) {
				return
			}
		case <-deadline:
			t.Fatal("marker entry not replayed")
		}
	}
}
