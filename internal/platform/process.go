package platform

import (
	"strings"

	"efswitch/internal/switcher"
)

// ProcessGuard reports whether the game is running.
type ProcessGuard struct {
	procRoot string // process table mount; only used off Windows
}

// NewProcessGuard creates a guard that scans the local process table.
func NewProcessGuard() *ProcessGuard {
	return &ProcessGuard{procRoot: "/proc"}
}

// matchProcess reports whether the executable name exe contains name,
// ignoring case. An empty name never matches.
func matchProcess(exe, name string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(exe), strings.ToLower(name))
}

var _ switcher.ProcessGuard = (*ProcessGuard)(nil)
