//go:build js && wasm

package lockfile

// isProcessRunning checks if a process with the given PID is running.
// In WASM there is no process management, so this always reports false.
func isProcessRunning(pid int) bool {
	return false
}
