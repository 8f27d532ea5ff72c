// Package version reports the jiralite build.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via ldflags, e.g.
// go build -ldflags="-X github.com/andywolf/jiralite/internal/version.Version=v1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Short returns the version. Binaries installed with go install carry no
// ldflags, so the module version from the build info is used instead.
func Short() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}

// Info returns a one-line summary:
// "jiralite v1.2.3 (commit: abc1234, built: 2024-01-15T10:30:00Z, go: go1.23.4)"
func Info() string {
	return fmt.Sprintf("jiralite %s (commit: %s, built: %s, go: %s)",
		Short(), shortCommit(), BuildDate, runtime.Version())
}

// Full returns the multi-line form printed by "version -v".
func Full() string {
	return fmt.Sprintf(`jiralite %s
  Commit:     %s
  Built:      %s
  Go version: %s
  OS/Arch:    %s/%s`,
		Short(), Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent is sent with every tracker request.
func UserAgent() string {
	return fmt.Sprintf("jiralite/%s (%s/%s)", Short(), runtime.GOOS, runtime.GOARCH)
}
