package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/beatjob/internal/config"
)

func TestInputs(t *testing.T) {
	t.Run("skips unset paths", func(t *testing.T) {
		assert.Empty(t, Inputs(&config.Config{}))
	})

	t.Run("one check per configured path", func(t *testing.T) {
		checks := Inputs(&config.Config{
			Properties: []string{"a.yml", "b.yml"},
			Links:      "links.yml",
			Instance:   "instance.yml",
			Output:     "out",
		})

		var names []string
		for _, c := range checks {
			names = append(names, c.Name)
		}
		assert.Equal(t, []string{"properties", "properties", "links", "instance", "output"}, names)
		assert.True(t, checks[0].Required)
		assert.False(t, checks[4].Required, "a missing output directory is created")
		assert.True(t, checks[4].Dir)
	})
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	props := filepath.Join(dir, "properties.yml")
	require.NoError(t, os.WriteFile(props, []byte("{}"), 0644))

	warnings, errs := Run(Inputs(&config.Config{
		Properties: []string{props},
		Links:      filepath.Join(dir, "missing.yml"),
		Instance:   dir,
		Output:     filepath.Join(dir, "out"),
	}))

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "links: ")
	assert.Contains(t, errs[0], "missing.yml not found")
	assert.Contains(t, errs[1], "is not a regular file")

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "output: ")
	assert.Contains(t, warnings[0], "created on the first write")
}

func TestRun_AllPresent(t *testing.T) {
	dir := t.TempDir()
	props := filepath.Join(dir, "properties.yml")
	require.NoError(t, os.WriteFile(props, nil, 0644))

	warnings, errs := Run(Inputs(&config.Config{Properties: []string{props}, Output: dir}))
	assert.Empty(t, warnings)
	assert.Empty(t, errs)
}

func TestCheck_OutputIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	err := Check{Path: file, Dir: true}.Verify()
	assert.ErrorContains(t, err, "is not a directory")
}

func TestWritable(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, Writable(dir))
	assert.NoError(t, Writable(filepath.Join(dir, "not", "yet", "there")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write check file is removed")

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.ErrorContains(t, Writable(filepath.Join(file, "sub")), "is not a directory")
}
