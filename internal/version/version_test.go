package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	oldVersion, oldCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = oldVersion, oldCommit })

	Version = "1.4.0"
	GitCommit = "abc1234"

	info := Get()
	if info.Version != "1.4.0" || info.GitCommit != "abc1234" {
		t.Errorf("Get() = %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Platform = %q", info.Platform)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "dev", GitCommit: "unknown", BuildDate: "today", GoVersion: "go1.24", Platform: "linux/arm64"}
	got := info.String()
	if !strings.HasPrefix(got, "dev (commit unknown") || !strings.Contains(got, "linux/arm64") {
		t.Errorf("String() = %q", got)
	}
}
