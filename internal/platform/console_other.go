//go:build !darwin && !windows

package platform

// DetachConsole does nothing here; desktop launchers start the process
// without a terminal.
func DetachConsole(debug bool) {}
