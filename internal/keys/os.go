// Package keys holds the per-OS key catalogs and the directional tables
// used to move key identifiers between operating systems.
package keys

import (
	"runtime"
	"strings"
)

// OS identifies the operating system family a profile was authored on.
type OS string

const (
	MacOS   OS = "macOS"
	Windows OS = "Windows"
	Linux   OS = "Linux"
	Unknown OS = "Unknown"
)

// Families lists the operating systems that have a key catalog.
var Families = []OS{MacOS, Windows, Linux}

// ParseOS converts a profile OS tag into an OS. Matching is exact for the
// canonical spellings and case-insensitive otherwise.
func ParseOS(s string) (OS, bool) {
	switch OS(s) {
	case MacOS, Windows, Linux, Unknown:
		return OS(s), true
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "macos", "mac", "darwin":
		return MacOS, true
	case "windows", "win":
		return Windows, true
	case "linux":
		return Linux, true
	case "unknown":
		return Unknown, true
	}
	return "", false
}

// FromGOOS maps a runtime.GOOS value onto an OS family.
func FromGOOS(goos string) OS {
	switch {
	case strings.Contains(goos, "darwin"):
		return MacOS
	case strings.Contains(goos, "windows"):
		return Windows
	case strings.Contains(goos, "linux"):
		return Linux
	}
	return Unknown
}

// Current returns the OS family of the running process. Library code takes
// the OS as a parameter; only entry points should call this.
func Current() OS {
	return FromGOOS(runtime.GOOS)
}

// Named reports whether o is one of the three OS families with a catalog.
func (o OS) Named() bool {
	return o == MacOS || o == Windows || o == Linux
}

func (o OS) String() string {
	return string(o)
}
