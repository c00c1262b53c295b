package platform

import (
	"os"

	"efswitch/internal/switcher"
)

// Launcher starts the game executable.
type Launcher struct{}

// NewLauncher creates a Launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Launch asks the OS to start exePath and returns once the request has been
// accepted. It does not wait for the game.
func (l *Launcher) Launch(exePath string) error {
	const op = "launch"

	info, err := os.Stat(exePath)
	if err != nil {
		if os.IsNotExist(err) {
			return switcher.NotFound(op, exePath, "game executable not found")
		}
		return switcher.IOFailure(op, exePath, err)
	}
	if info.IsDir() {
		return switcher.NotFound(op, exePath, "game executable path is a directory")
	}

	if err := start(exePath); err != nil {
		return switcher.IOFailure(op, exePath, err)
	}
	return nil
}

var _ switcher.Launcher = (*Launcher)(nil)
