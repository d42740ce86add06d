package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/beatjob/internal/fileutil"
	"github.com/cameronsjo/beatjob/internal/job"
	"github.com/cameronsjo/beatjob/internal/links"
	"github.com/cameronsjo/beatjob/internal/lock"
)

func renderAll(t *testing.T, in job.Input) []job.Rendered {
	t.Helper()
	j, err := job.Default()
	require.NoError(t, err)
	rendered, err := j.RenderAll(in)
	require.NoError(t, err)
	return rendered
}

func plan(t *testing.T, in job.Input, enabled ...string) []File {
	t.Helper()
	layout, err := NewLayout(enabled...)
	require.NoError(t, err)
	return layout.Plan(renderAll(t, in))
}

func paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestLayout_DisabledByDefault(t *testing.T) {
	files := plan(t, job.Input{})

	assert.Equal(t, []string{
		"config/metricbeat.yml",
		"config/modules.d/kafka.yml.disabled",
		"config/modules.d/zookeeper.yml.disabled",
		"config/modules.d/redis.yml.disabled",
		"config/metricbeat_ilm_policy.json",
	}, paths(files))
	assert.Empty(t, files[0].Stale)
	assert.Equal(t, "config/modules.d/kafka.yml", files[1].Stale)
}

func TestLayout_EnabledModule(t *testing.T) {
	files := plan(t, job.Input{}, "redis")

	assert.Equal(t, "config/modules.d/redis.yml", files[3].Path)
	assert.Equal(t, "config/modules.d/redis.yml.disabled", files[3].Stale)
	assert.Equal(t, "config/modules.d/kafka.yml.disabled", files[1].Path)
}

func TestNewLayout_UnknownModule(t *testing.T) {
	_, err := NewLayout("postgres")
	assert.ErrorContains(t, err, `unknown module "postgres"`)
	assert.ErrorContains(t, err, "kafka, redis, zookeeper")
}

func TestWriter_CreateThenUnchanged(t *testing.T) {
	root := t.TempDir()
	files := plan(t, job.Input{})
	w := &Writer{Root: root}

	result, err := w.Write(files)
	require.NoError(t, err)
	require.Len(t, result.Changes, len(files))
	for _, c := range result.Changes {
		assert.Equal(t, StatusCreated, c.Status, c.Path)
	}
	assert.True(t, result.Changed())

	result, err = w.Write(files)
	require.NoError(t, err)
	for _, c := range result.Changes {
		assert.Equal(t, StatusUnchanged, c.Status, c.Path)
	}
	assert.False(t, result.Changed())

	content, err := os.ReadFile(filepath.Join(root, "config", "modules.d", "redis.yml.disabled"))
	require.NoError(t, err)
	assert.Equal(t, string(files[3].Content), string(content))

	// The lock is released once writing is done.
	l := lock.New(filepath.Join(root, StateDir))
	require.NoError(t, l.Acquire())
	require.NoError(t, l.Release())
}

func TestWriter_UpdatesAndRemovesStale(t *testing.T) {
	root := t.TempDir()
	w := &Writer{Root: root}
	_, err := w.Write(plan(t, job.Input{}))
	require.NoError(t, err)

	in := job.Input{Links: links.MustSet(links.Link{
		Name:       "redis",
		Properties: map[string]any{"password": "asdf1234", "port": 4321},
	})}
	result, err := w.Write(plan(t, in, "redis"))
	require.NoError(t, err)

	statuses := make(map[string]Status)
	for _, c := range result.Changes {
		statuses[c.Path] = c.Status
	}
	assert.Equal(t, StatusCreated, statuses["config/modules.d/redis.yml"])
	assert.Equal(t, StatusRemoved, statuses["config/modules.d/redis.yml.disabled"])
	assert.Equal(t, StatusUnchanged, statuses["config/metricbeat.yml"])

	written, err := fileutil.ListFiles(root, StateDir)
	require.NoError(t, err)
	assert.Contains(t, written, "config/modules.d/redis.yml")
	assert.NotContains(t, written, "config/modules.d/redis.yml.disabled")
}

func TestWriter_Snapshot(t *testing.T) {
	root := t.TempDir()
	w := &Writer{Root: root, Snapshot: true}

	result, err := w.Write(plan(t, job.Input{}))
	require.NoError(t, err)
	assert.Empty(t, result.Snapshot, "nothing to snapshot on first write")

	result, err = w.Write(plan(t, job.Input{Properties: map[string]any{
		"metricbeat": map[string]any{"name": "renamed"},
	}}))
	require.NoError(t, err)
	require.NotEmpty(t, result.Snapshot)

	list, err := Snapshots(root).List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].FileCount)

	old, err := os.ReadFile(filepath.Join(list[0].Path, "config", "metricbeat.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(old), `name: "me"`)
}

func TestWriter_Locked(t *testing.T) {
	root := t.TempDir()
	held := lock.New(filepath.Join(root, StateDir))
	require.NoError(t, held.Acquire())
	defer held.Release()

	w := &Writer{Root: root}
	_, err := w.Write(plan(t, job.Input{}))
	assert.ErrorIs(t, err, lock.ErrLocked)

	files, err := fileutil.ListFiles(root, StateDir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiff(t *testing.T) {
	root := t.TempDir()
	files := plan(t, job.Input{})

	diff, err := Diff(root, files)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- /dev/null\n+++ b/config/metricbeat.yml\n")
	assert.Contains(t, diff, `+name: "me"`)

	_, err = (&Writer{Root: root}).Write(files)
	require.NoError(t, err)

	diff, err = Diff(root, files)
	require.NoError(t, err)
	assert.Empty(t, diff)

	changed := plan(t, job.Input{Properties: map[string]any{
		"metricbeat": map[string]any{"name": "renamed"},
	}}, "kafka")
	diff, err = Diff(root, changed)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- a/config/metricbeat.yml\n+++ b/config/metricbeat.yml\n")
	assert.Contains(t, diff, "-name: \"me\"\n+name: \"renamed\"\n")
	assert.Contains(t, diff, "--- /dev/null\n+++ b/config/modules.d/kafka.yml\n")
	assert.Contains(t, diff, "--- a/config/modules.d/kafka.yml.disabled\n+++ /dev/null\n")
	assert.False(t, strings.Contains(diff, "redis"), "unchanged documents produce no diff")
}

func TestRestore(t *testing.T) {
	root := t.TempDir()
	_, err := (&Writer{Root: root}).Write(plan(t, job.Input{}))
	require.NoError(t, err)

	result, err := (&Writer{Root: root, Snapshot: true}).Write(plan(t, job.Input{}, "kafka"))
	require.NoError(t, err)
	require.NotEmpty(t, result.Snapshot)

	backup, err := Restore(root, result.Snapshot)
	require.NoError(t, err)
	assert.NotEmpty(t, backup)

	written, err := fileutil.ListFiles(root, StateDir)
	require.NoError(t, err)
	assert.Contains(t, written, "config/modules.d/kafka.yml.disabled")
	assert.NotContains(t, written, "config/modules.d/kafka.yml")
}

func TestRestore_Locked(t *testing.T) {
	root := t.TempDir()
	held := lock.New(filepath.Join(root, StateDir))
	require.NoError(t, held.Acquire())
	defer held.Release()

	_, err := Restore(root, "snapshot-any")
	assert.ErrorIs(t, err, lock.ErrLocked)
}
