//go:build windows

package lockfile

import (
	"golang.org/x/sys/windows"
)

// STILL_ACTIVE exit code, returned for processes that have not terminated
const stillActive = 259

// isProcessRunning reports whether pid names a live process, so contention
// errors can distinguish an active lock holder from a stale pid file.
func isProcessRunning(pid int) bool {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer func() { _ = windows.CloseHandle(handle) }()

	var code uint32
	if err := windows.GetExitCodeProcess(handle, &code); err != nil {
		return false
	}
	return code == stillActive
}
