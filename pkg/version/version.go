// Package version carries build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	// BinaryName is the name of the executable.
	BinaryName = "smartagri"
	// Version is set at build time.
	Version = "UNKNOWN"
	// BuildDate is set at build time.
	BuildDate = "UNKNOWN"
)

// VersionString returns a human readable version line.
func VersionString() string {
	return fmt.Sprintf("%s (%s/%s). Build date: %s", Version, runtime.GOOS, runtime.GOARCH, BuildDate)
}
