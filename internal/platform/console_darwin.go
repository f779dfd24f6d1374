//go:build darwin

package platform

import (
	"os"
	"os/exec"
	"syscall"
)

const detachedEnv = "SUNGLOW_DETACHED"

func isCharDevice(f *os.File) bool {
	if f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// DetachConsole relaunches the process in its own session with standard
// streams on /dev/null when it was started from an interactive terminal.
// The parent exits once the child has started. It does nothing in debug
// mode or in the relaunched child.
func DetachConsole(debug bool) {
	if debug || os.Getenv(detachedEnv) == "1" {
		return
	}
	if !isCharDevice(os.Stdin) && !isCharDevice(os.Stdout) && !isCharDevice(os.Stderr) {
		return
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer devNull.Close()

	cmd := exec.Command(os.Args[0], os.Args[1:]...)
	cmd.Env = append(os.Environ(), detachedEnv+"=1")
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err == nil {
		os.Exit(0)
	}
}
