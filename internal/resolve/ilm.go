package resolve

import (
	"github.com/cameronsjo/beatjob/internal/properties"
)

// ILM holds the index lifecycle management settings of metricbeat.yml.
type ILM struct {
	Enabled       string
	RolloverAlias string
	Pattern       string
	PolicyName    string
	CheckExists   string
	Overwrite     string
}

// ILM defaults. They do not depend on any link.
const (
	DefaultILMEnabled       = "auto"
	DefaultILMRolloverAlias = "metricbeat-%{[agent.version]}"
	DefaultILMPattern       = "%{now/d}-000001"
	DefaultILMPolicyName    = "metricbeat-%{[agent.version]}"
	DefaultILMCheckExists   = "false"
	DefaultILMOverwrite     = "true"
)

// DefaultILMPolicy returns the lifecycle policy used when none is configured:
// roll over at 30 days or 50gb, delete after seven days.
func DefaultILMPolicy() map[string]any {
	return map[string]any{
		"policy": map[string]any{
			"phases": map[string]any{
				"hot": map[string]any{
					"min_age": "0ms",
					"actions": map[string]any{
						"rollover": map[string]any{
							"max_size": "50gb",
							"max_age":  "30d",
						},
					},
				},
				"delete": map[string]any{
					"min_age": "7d",
					"actions": map[string]any{
						"delete": map[string]any{},
					},
				},
			},
		},
	}
}

// ILM resolves the six setup.ilm settings, each from its property or its
// fixed default.
func (r *Resolver) ILM() (ILM, error) {
	var ilm ILM
	settings := []struct {
		key      string
		fallback string
		dst      *string
	}{
		{"enabled", DefaultILMEnabled, &ilm.Enabled},
		{"rollover_alias", DefaultILMRolloverAlias, &ilm.RolloverAlias},
		{"pattern", DefaultILMPattern, &ilm.Pattern},
		{"policy_name", DefaultILMPolicyName, &ilm.PolicyName},
		{"check_exists", DefaultILMCheckExists, &ilm.CheckExists},
		{"overwrite", DefaultILMOverwrite, &ilm.Overwrite},
	}
	for _, s := range settings {
		f, err := r.Setting(PathILM+"."+s.key, s.fallback)
		if err != nil {
			return ILM{}, err
		}
		*s.dst = f.Value
	}
	return ilm, nil
}

// ILMPolicy resolves the lifecycle policy document.
func (r *Resolver) ILMPolicy() (Field[map[string]any], error) {
	path := PathILM + ".policy"
	f, err := Required("ilm policy",
		Explicit(r.props, path, properties.ToMap),
		Fixed("fixed default", DefaultILMPolicy()),
	)
	trace(r, "ilm policy", f)
	return f, err
}
