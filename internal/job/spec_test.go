package job

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/beatjob/internal/properties"
)

func TestDefaultSpec_Declarations(t *testing.T) {
	spec := DefaultSpec()

	assert.Equal(t, "metricbeat", spec.Name)
	for _, name := range []string{"elasticsearch", "kibana", "kafka", "zookeeper", "redis"} {
		assert.True(t, spec.Consumable(name), name)
	}
	assert.False(t, spec.Consumable("postgres"))
	for _, c := range spec.Consumes {
		assert.True(t, c.Optional, c.Name)
	}
}

func TestDefaultSpec_TemplatePaths(t *testing.T) {
	j, err := Default()
	require.NoError(t, err)

	want := map[string]string{
		DocMetricbeat: "config/metricbeat.yml",
		DocKafka:      "config/modules.d/kafka.yml.disabled",
		DocZookeeper:  "config/modules.d/zookeeper.yml.disabled",
		DocRedis:      "config/modules.d/redis.yml.disabled",
		DocILMPolicy:  "config/metricbeat_ilm_policy.json",
	}
	got := make(map[string]string)
	for _, id := range IDs() {
		got[id] = j.Path(mustLookup(t, id))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("template paths mismatch (-want +got):\n%s", diff)
	}
}

func TestSpec_SchemaDefaults(t *testing.T) {
	schema := DefaultSpec().Schema()

	tests := []struct {
		path string
		want any
	}{
		{"metricbeat.elasticsearch.protocol", "http"},
		{"metricbeat.elasticsearch.port", 9200},
		{"metricbeat.elasticsearch.hosts", []any{}},
		{"metricbeat.kibana.port", 5601},
		{"metricbeat.modules.kafka.period", "10s"},
		{"metricbeat.modules.anything.period", "10s"},
		{"metricbeat.modules.redis.metricsets", []any{"info", "keyspace"}},
	}
	for _, tc := range tests {
		got, ok := schema.Default(tc.path)
		require.True(t, ok, tc.path)
		assert.Equal(t, tc.want, got, tc.path)
	}

	_, ok := schema.Default("metricbeat.kibana.host")
	assert.False(t, ok, "kibana.host has no default")
	_, ok = schema.Lookup("metricbeat.kibana.host")
	assert.True(t, ok, "kibana.host is declared")
}

func TestSpec_EmptyStringDefault(t *testing.T) {
	spec, err := ParseSpec([]byte(`
name: test
properties:
  a:
    default: ""
  b:
    description: no default
`))
	require.NoError(t, err)

	assert.True(t, spec.Properties["a"].HasDefault)
	assert.Equal(t, "", spec.Properties["a"].Default)
	assert.False(t, spec.Properties["b"].HasDefault)
	assert.Equal(t, "no default", spec.Properties["b"].Description)
}

func TestParseSpec_Errors(t *testing.T) {
	_, err := ParseSpec([]byte("templates: {}\n"))
	assert.Error(t, err)

	_, err = ParseSpec([]byte(`
name: test
consumes:
- name: redis
- name: redis
`))
	assert.ErrorContains(t, err, "consumed twice")

	_, err = ParseSpec([]byte("name: [oops"))
	assert.Error(t, err)
}

func TestSpec_Undeclared(t *testing.T) {
	spec := DefaultSpec()
	tree := properties.NewTree(map[string]any{
		"metricbeat": map[string]any{
			"name":   "x",
			"fields": map[string]any{"anything": map[string]any{"goes": 1}},
			"elasticsearch": map[string]any{
				"port":  1234,
				"hosst": []any{"typo"},
			},
			"modules": map[string]any{
				"kafka":  map[string]any{},
				"custom": map[string]any{"period": "5s", "timeout": "1s"},
			},
			"unused": nil,
		},
		"filebeat": map[string]any{"enabled": true},
	}, spec.Schema())

	assert.Equal(t, []string{
		"filebeat.enabled",
		"metricbeat.elasticsearch.hosst",
		"metricbeat.modules.custom.timeout",
	}, spec.Undeclared(tree))
}
