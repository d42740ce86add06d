//go:build unix

package lock

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestRelease_KeepsLockFile(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)
	require.NoError(t, l.Acquire())

	before, err := os.Stat(l.Path())
	require.NoError(t, err)
	require.NoError(t, l.Release())

	after, err := os.Stat(l.Path())
	require.NoError(t, err)
	assert.True(t, os.SameFile(before, after))
}

// A process that opened the lock file while it was held and takes the flock
// after release must still exclude every later writer.
func TestRelease_WaiterExcludesLaterWriters(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	require.NoError(t, first.Acquire())

	waiter, err := os.OpenFile(first.Path(), os.O_RDWR, 0644)
	require.NoError(t, err)
	defer waiter.Close()

	require.NoError(t, first.Release())
	require.NoError(t, unix.Flock(int(waiter.Fd()), unix.LOCK_EX|unix.LOCK_NB))
	defer unix.Flock(int(waiter.Fd()), unix.LOCK_UN)

	err = New(dir).Acquire()
	assert.ErrorIs(t, err, ErrLocked)
}
