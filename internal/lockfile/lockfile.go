// Package lockfile serializes writers that bypass normal request flow,
// such as bulk imports, by holding an exclusive OS file lock next to the
// database. The lock dies with the process, so a crash never leaves the
// database permanently locked.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrLocked is returned when another process already holds the lock
var ErrLocked = errors.New("another trackd process holds the lock")

var errWouldBlock = errors.New("lock would block")

// Lock is a held exclusive lock. Release it when the critical section ends.
type Lock struct {
	f    *os.File
	path string
}

// Acquire takes the exclusive lock at path without blocking. The holder's
// pid is written into the file so a contending process can name it.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := flockExclusive(f); err != nil {
		data, _ := os.ReadFile(path)
		_ = f.Close()
		if !errors.Is(err, errWouldBlock) {
			return nil, fmt.Errorf("failed to lock %s: %w", path, err)
		}
		if pid, perr := strconv.Atoi(strings.TrimSpace(string(data))); perr == nil && isProcessRunning(pid) {
			return nil, fmt.Errorf("%w (pid %d)", ErrLocked, pid)
		}
		return nil, ErrLocked
	}

	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0)
		_ = f.Sync()
	}
	return &Lock{f: f, path: path}, nil
}

// Release drops the lock. Closing the file releases the OS lock; the file
// itself is removed on a best-effort basis.
func (l *Lock) Release() error {
	err := l.f.Close()
	_ = os.Remove(l.path)
	return err
}

// Path returns the lock file location
func (l *Lock) Path() string {
	return l.path
}
