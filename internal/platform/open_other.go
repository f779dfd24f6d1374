//go:build !windows

package platform

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open hands target, a URL or a path, to the desktop's default handler.
func Open(target string) error {
	cmd, err := openCommand(runtime.GOOS, target)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	go cmd.Wait()
	return nil
}

func openCommand(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return exec.Command("xdg-open", target), nil
	}
	return nil, fmt.Errorf("opening %s is not supported on %s", target, goos)
}
