//go:build !windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
)

func start(exePath string) error {
	cmd := exec.Command(exePath)
	cmd.Dir = filepath.Dir(exePath)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting process: %w", err)
	}
	return cmd.Process.Release()
}
