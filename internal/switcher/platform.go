package switcher

// DirResolver locates the game's live data directory.
type DirResolver interface {
	// Resolve returns the live data directory, or a KindNotFound error.
	Resolve() (string, error)
}

// ProcessGuard reports whether the game is currently running.
type ProcessGuard interface {
	// IsRunning reports whether any running process name contains name,
	// compared case-insensitively.
	IsRunning(name string) (bool, error)
}

// Launcher starts the game executable.
type Launcher interface {
	// Launch verifies exePath exists and asks the OS to start it. It returns
	// once the request is accepted, not once the game is up.
	Launch(exePath string) error
}
