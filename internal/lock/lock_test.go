package lock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	l := New("/srv/metricbeat/.beatjob")
	assert.Equal(t, "/srv/metricbeat/.beatjob/render.lock", l.Path())
}

func TestLock_AcquireRelease(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".beatjob")
	l := New(dir)

	require.NoError(t, l.Acquire())
	assert.Equal(t, os.Getpid(), Holder(l.Path()))

	require.NoError(t, l.Release())
	assert.Zero(t, Holder(l.Path()), "pid cleared on release")

	// Releasing twice is harmless.
	assert.NoError(t, l.Release())
}

func TestLock_Contended(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	second := New(dir)

	require.NoError(t, first.Acquire())
	defer first.Release()

	err := second.Acquire()
	require.ErrorIs(t, err, ErrLocked)
	assert.Contains(t, err.Error(), "held by pid")

	require.NoError(t, first.Release())
	require.NoError(t, second.Acquire())
	require.NoError(t, second.Release())
}

func TestWith(t *testing.T) {
	dir := t.TempDir()

	ran := false
	err := With(dir, func() error {
		ran = true
		_, statErr := os.Stat(filepath.Join(dir, FileName))
		return statErr
	})
	require.NoError(t, err)
	assert.True(t, ran)

	boom := errors.New("boom")
	assert.ErrorIs(t, With(dir, func() error { return boom }), boom)

	assert.Zero(t, Holder(filepath.Join(dir, FileName)), "released after With")
	assert.NoError(t, With(dir, func() error { return nil }))
}

func TestWith_Contended(t *testing.T) {
	dir := t.TempDir()
	held := New(dir)
	require.NoError(t, held.Acquire())
	defer held.Release()

	called := false
	err := With(dir, func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrLocked)
	assert.False(t, called)
}

func TestHolder_Unreadable(t *testing.T) {
	dir := t.TempDir()
	assert.Zero(t, Holder(filepath.Join(dir, "missing")))

	path := filepath.Join(dir, "garbage")
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0644))
	assert.Zero(t, Holder(path))
}
