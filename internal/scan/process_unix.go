//go:build !windows

package scan

import (
	"os"
	"syscall"
)

// isProcessAlive reports whether pid is a live process on Unix-like
// systems, checked via a signal-0 probe.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
