// Package lock serializes writers of one output directory.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileName is the lock file created inside the guarded directory's state dir.
const FileName = "render.lock"

// ErrLocked indicates another process holds the lock.
var ErrLocked = errors.New("output directory is locked")

// Lock is an exclusive, non-blocking lock on a directory.
type Lock struct {
	path string
	file *os.File
}

// New returns a lock stored under stateDir. Nothing is created until Acquire.
func New(stateDir string) *Lock {
	return &Lock{path: filepath.Join(stateDir, FileName)}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock or fails with ErrLocked when it is held elsewhere.
func (l *Lock) Acquire() error {
	if l.file != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := acquire(l.path)
	if err != nil {
		if errors.Is(err, ErrLocked) {
			if pid := Holder(l.path); pid > 0 {
				return fmt.Errorf("%w (held by pid %d)", ErrLocked, pid)
			}
		}
		return err
	}

	// The pid is informational only.
	_ = f.Truncate(0)
	_, _ = f.Seek(0, 0)
	fmt.Fprintf(f, "%d\n", os.Getpid())

	l.file = f
	return nil
}

// Release drops the lock. The recorded pid is cleared first; the file is
// left in place where the lock lives on it rather than on its existence.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	_ = f.Truncate(0)
	if err := release(f); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// With runs fn while holding the lock on stateDir.
func With(stateDir string, fn func() error) error {
	l := New(stateDir)
	if err := l.Acquire(); err != nil {
		return err
	}
	defer l.Release()

	return fn()
}

// Holder returns the pid recorded in a lock file, or 0 when unknown.
func Holder(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}
