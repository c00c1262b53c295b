package testutil

import (
	"sync"

	"efswitch/internal/switcher"
)

// StubResolver returns a fixed live directory, or Err.
type StubResolver struct {
	Dir string
	Err error
}

func (r *StubResolver) Resolve() (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	return r.Dir, nil
}

// StubGuard reports a fixed running state and records the names it was asked about.
type StubGuard struct {
	mu      sync.Mutex
	Running bool
	Err     error
	asked   []string
}

func (g *StubGuard) IsRunning(name string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.asked = append(g.asked, name)
	return g.Running, g.Err
}

// Asked returns the process names IsRunning was called with.
func (g *StubGuard) Asked() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.asked...)
}

// StubLauncher records launch requests.
type StubLauncher struct {
	mu       sync.Mutex
	Err      error
	launched []string
}

func (l *StubLauncher) Launch(exePath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return l.Err
	}
	l.launched = append(l.launched, exePath)
	return nil
}

// Launched returns the paths passed to successful Launch calls.
func (l *StubLauncher) Launched() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.launched...)
}

var (
	_ switcher.DirResolver  = (*StubResolver)(nil)
	_ switcher.ProcessGuard = (*StubGuard)(nil)
	_ switcher.Launcher     = (*StubLauncher)(nil)
)
