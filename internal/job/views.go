package job

import (
	"github.com/cameronsjo/beatjob/internal/resolve"
)

// Property paths read directly, outside the resolver's field chains.
const (
	pathTags            = "metricbeat.tags"
	pathFields          = "metricbeat.fields"
	pathUsername        = "metricbeat.elasticsearch.username"
	pathPassword        = "metricbeat.elasticsearch.password"
	pathPolicyFile      = "metricbeat.ilm.policy_file"
	pathLoggingLevel    = "metricbeat.logging.level"
	defaultPeriod       = "10s"
	defaultLoggingLevel = "info"
	defaultPolicyFile   = "/var/vcap/jobs/metricbeat/config/metricbeat_ilm_policy.json"
)

type elasticsearchOutput struct {
	Hosts    []string
	Username string
	Password string
}

type beatConfig struct {
	Name          string
	Tags          []string
	Fields        map[string]any
	Elasticsearch elasticsearchOutput
	Kibana        resolve.Field[string]
	ILM           resolve.ILM
	PolicyFile    string
	LoggingLevel  string
}

func beatView(r *resolve.Resolver) (any, error) {
	props := r.Properties()

	name, err := r.Name()
	if err != nil {
		return nil, err
	}
	tags, err := props.StringSlice(pathTags)
	if err != nil {
		return nil, err
	}
	fields, err := props.Map(pathFields)
	if err != nil {
		return nil, err
	}
	hosts, err := r.ElasticsearchHosts()
	if err != nil {
		return nil, err
	}
	username, err := props.String(pathUsername)
	if err != nil {
		return nil, err
	}
	password, err := props.String(pathPassword)
	if err != nil {
		return nil, err
	}
	kibana, err := r.KibanaHost()
	if err != nil {
		return nil, err
	}
	ilm, err := r.ILM()
	if err != nil {
		return nil, err
	}
	policyFile, err := r.Setting(pathPolicyFile, defaultPolicyFile)
	if err != nil {
		return nil, err
	}
	level, err := r.Setting(pathLoggingLevel, defaultLoggingLevel)
	if err != nil {
		return nil, err
	}

	return beatConfig{
		Name:   name.Value,
		Tags:   tags,
		Fields: fields,
		Elasticsearch: elasticsearchOutput{
			Hosts:    hosts.Value,
			Username: username,
			Password: password,
		},
		Kibana:       kibana,
		ILM:          ilm,
		PolicyFile:   policyFile.Value,
		LoggingLevel: level.Value,
	}, nil
}

type moduleConfig struct {
	Metricsets []string
	Period     string
	Hosts      []string
	Password   resolve.Field[string]
}

func moduleView(r *resolve.Resolver, m resolve.Module) (any, error) {
	metricsets, err := r.Properties().StringSlice(m.Path("metricsets"))
	if err != nil {
		return nil, err
	}
	period, err := r.Setting(m.Path("period"), defaultPeriod)
	if err != nil {
		return nil, err
	}
	hosts, err := r.ModuleHosts(m)
	if err != nil {
		return nil, err
	}
	password, err := r.LinkProperty(m.Link, "password")
	if err != nil {
		return nil, err
	}
	return moduleConfig{
		Metricsets: metricsets,
		Period:     period.Value,
		Hosts:      hosts.Value,
		Password:   password,
	}, nil
}

func policyView(r *resolve.Resolver) (any, error) {
	policy, err := r.ILMPolicy()
	if err != nil {
		return nil, err
	}
	return policy.Value, nil
}
