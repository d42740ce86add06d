package properties

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMerge_NestedMapsMerge(t *testing.T) {
	base := map[string]any{
		"metricbeat": map[string]any{
			"name":          "base",
			"elasticsearch": map[string]any{"port": 9200, "protocol": "http"},
		},
	}
	overlay := map[string]any{
		"metricbeat": map[string]any{
			"elasticsearch": map[string]any{"protocol": "https"},
		},
	}

	got := Merge(base, overlay)
	want := map[string]any{
		"metricbeat": map[string]any{
			"name":          "base",
			"elasticsearch": map[string]any{"port": 9200, "protocol": "https"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_ListsReplace(t *testing.T) {
	got := Merge(
		map[string]any{"hosts": []any{"a", "b"}},
		map[string]any{"hosts": []any{"c"}},
	)
	assert.Equal(t, []any{"c"}, got["hosts"])
}

func TestMerge_NullClearsKey(t *testing.T) {
	got := Merge(
		map[string]any{"name": "x", "keep": 1},
		map[string]any{"name": nil},
	)
	assert.NotContains(t, got, "name")
	assert.Equal(t, 1, got["keep"])
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := map[string]any{"m": map[string]any{"a": 1}}
	overlay := map[string]any{"m": map[string]any{"b": 2}}

	Merge(base, overlay)

	assert.Equal(t, map[string]any{"m": map[string]any{"a": 1}}, base)
	assert.Equal(t, map[string]any{"m": map[string]any{"b": 2}}, overlay)
}

func TestMerge_Multiple(t *testing.T) {
	got := Merge(nil,
		map[string]any{"a": 1},
		map[string]any{"b": 2},
		map[string]any{"a": 3},
	)
	assert.Equal(t, map[string]any{"a": 3, "b": 2}, got)
}

func TestNormalize(t *testing.T) {
	got := Normalize(map[any]any{
		"a": []string{"x"},
		1:   map[any]any{"b": true},
	})
	want := map[string]any{
		"a": []any{"x"},
		"1": map[string]any{"b": true},
	}
	assert.Equal(t, want, got)
}
