package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func withBuildInfo(t *testing.T, mainVersion string, ok bool) {
	t.Helper()
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		if !ok {
			return nil, false
		}
		return &debug.BuildInfo{Main: debug.Module{Version: mainVersion}}, true
	}
}

func withVersion(t *testing.T, v, commit string) {
	t.Helper()
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })
	Version, Commit = v, commit
}

func TestShort(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		buildInfo string
		ok        bool
		want      string
	}{
		{"ldflags win", "v1.2.0", "v9.9.9", true, "v1.2.0"},
		{"go install", "dev", "v0.3.1", true, "v0.3.1"},
		{"local build", "dev", "(devel)", true, "dev"},
		{"no build info", "dev", "", false, "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, tt.version, "unknown")
			withBuildInfo(t, tt.buildInfo, tt.ok)

			if got := Short(); got != tt.want {
				t.Errorf("Short() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	withVersion(t, "v1.2.3", "abc123456789abcdef")

	result := Info()
	for _, want := range []string{"jiralite v1.2.3", "commit: abc1234,", "built:", runtime.Version()} {
		if !strings.Contains(result, want) {
			t.Errorf("Info() should contain %q, got %q", want, result)
		}
	}
	if strings.Contains(result, "abc123456789abcdef") {
		t.Errorf("Info() should NOT contain full commit, got %q", result)
	}
}

func TestInfoShortCommit(t *testing.T) {
	withVersion(t, "v1.2.3", "abc")

	if result := Info(); !strings.Contains(result, "commit: abc,") {
		t.Errorf("Info() should contain short commit as-is, got %q", result)
	}
}

func TestFull(t *testing.T) {
	withVersion(t, "v1.2.3", "abc123456789abcdef")

	result := Full()
	for _, want := range []string{
		"jiralite v1.2.3",
		"Commit:     abc123456789abcdef",
		"Built:",
		"Go version:",
		"OS/Arch:    " + runtime.GOOS + "/" + runtime.GOARCH,
	} {
		if !strings.Contains(result, want) {
			t.Errorf("Full() should contain %q, got %q", want, result)
		}
	}
	if lines := strings.Split(result, "\n"); len(lines) != 5 {
		t.Errorf("Full() should have 5 lines, got %d: %q", len(lines), result)
	}
}

func TestUserAgent(t *testing.T) {
	withVersion(t, "v1.2.3", "unknown")

	want := "jiralite/v1.2.3 (" + runtime.GOOS + "/" + runtime.GOARCH + ")"
	if got := UserAgent(); got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}
}
