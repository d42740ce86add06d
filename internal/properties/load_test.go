package properties

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse_NestedAndDottedKeys(t *testing.T) {
	data, err := Parse([]byte(`
metricbeat.name: test_name
metricbeat:
  elasticsearch:
    port: 1234
    hosts: [127.0.0.1, 127.0.0.2]
`), nil)
	require.NoError(t, err)

	tree := NewTree(data, nil)
	assert.Equal(t, "test_name", tree.Get("metricbeat.name", nil))

	port, err := tree.Port("metricbeat.elasticsearch.port")
	require.NoError(t, err)
	assert.Equal(t, 1234, port)

	hosts, err := tree.StringSlice("metricbeat.elasticsearch.hosts")
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1", "127.0.0.2"}, hosts)
}

func TestParse_InterpolatesVariables(t *testing.T) {
	data, err := Parse([]byte("metricbeat:\n  elasticsearch:\n    protocol: ((es_protocol))\n"),
		map[string]string{"es_protocol": "https"})
	require.NoError(t, err)

	assert.Equal(t, "https", NewTree(data, nil).Get("metricbeat.elasticsearch.protocol", nil))
}

func TestParse_MissingVariable(t *testing.T) {
	_, err := Parse([]byte("a: ((one))\nb: ((two))\nc: ((one))\n"), nil)
	require.Error(t, err)
	assert.Equal(t, "missing variables: ((one)), ((two))", err.Error())
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("metricbeat: [unclosed"), nil)
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	data, err := Parse(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestLoadFiles_LaterOverlayWins(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yml", `
metricbeat:
  name: base
  elasticsearch:
    port: 9200
    hosts: [a, b]
`)
	prod := writeFile(t, dir, "prod.yml", `
metricbeat:
  elasticsearch:
    hosts: [c]
`)

	data, err := LoadFiles([]string{base, prod}, nil)
	require.NoError(t, err)

	tree := NewTree(data, nil)
	assert.Equal(t, "base", tree.Get("metricbeat.name", nil))
	hosts, err := tree.StringSlice("metricbeat.elasticsearch.hosts")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, hosts)
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read properties file")
}

func TestParseVariables(t *testing.T) {
	vars, err := ParseVariables([]string{"a=1", "b=x=y", "c="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y", "c": ""}, vars)

	_, err = ParseVariables([]string{"novalue"})
	assert.Error(t, err)
	_, err = ParseVariables([]string{"=value"})
	assert.Error(t, err)
}
