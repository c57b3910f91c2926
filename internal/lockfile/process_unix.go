//go:build unix

package lockfile

import (
	"golang.org/x/sys/unix"
)

// isProcessRunning reports whether pid names a live process, so contention
// errors can distinguish an active lock holder from a stale pid file.
// Signal 0 performs the existence check without delivering anything.
func isProcessRunning(pid int) bool {
	return unix.Kill(pid, 0) == nil
}
