package resolve

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/cameronsjo/beatjob/internal/instance"
	"github.com/cameronsjo/beatjob/internal/links"
	"github.com/cameronsjo/beatjob/internal/properties"
)

// Property paths read by the resolver.
const (
	PathName                  = "metricbeat.name"
	PathElasticsearchHosts    = "metricbeat.elasticsearch.hosts"
	PathElasticsearchProtocol = "metricbeat.elasticsearch.protocol"
	PathElasticsearchPort     = "metricbeat.elasticsearch.port"
	PathKibanaHost            = "metricbeat.kibana.host"
	PathKibanaProtocol        = "metricbeat.kibana.protocol"
	PathKibanaPort            = "metricbeat.kibana.port"
	PathILM                   = "metricbeat.ilm"
	PathModules               = "metricbeat.modules"
)

// Link names the resolver consults.
const (
	LinkElasticsearch = "elasticsearch"
	LinkKibana        = "kibana"
)

// Module identifies a module configuration target.
type Module struct {
	Name        string
	Link        string
	DefaultPort int
}

// Path returns the property path of a module setting.
func (m Module) Path(key string) string {
	return PathModules + "." + m.Name + "." + key
}

// Resolver applies the field precedence policy to one render's inputs.
type Resolver struct {
	props *properties.Tree
	links links.Set
	self  instance.Spec
	log   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to trace which source won each field.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// New returns a Resolver over the given inputs.
func New(props *properties.Tree, consumed links.Set, self instance.Spec, opts ...Option) *Resolver {
	if props == nil {
		props = properties.NewTree(nil, nil)
	}
	r := &Resolver{
		props: props,
		links: consumed,
		self:  self,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Properties returns the property tree the resolver reads.
func (r *Resolver) Properties() *properties.Tree {
	return r.props
}

// Self returns the spec of the instance being rendered.
func (r *Resolver) Self() instance.Spec {
	return r.self
}

func trace[T any](r *Resolver, field string, f Field[T]) {
	if f.Present {
		r.log.Debug("resolved field", "field", field, "source", f.Source)
	} else {
		r.log.Debug("field absent", "field", field)
	}
}

// Name resolves the beat name: property, then the instance name.
func (r *Resolver) Name() (Field[string], error) {
	f, err := Required("name",
		Explicit(r.props, PathName, properties.ToString),
		Fixed("instance name", r.self.Name),
	)
	trace(r, "name", f)
	return f, err
}

// ElasticsearchHosts resolves output.elasticsearch.hosts. Entries come from
// the hosts property, else one per elasticsearch link instance, else the
// declared default; each is formatted as protocol://host:port. An empty
// hosts property is indistinguishable from the declared default and falls
// through to the link.
func (r *Resolver) ElasticsearchHosts() (Field[[]string], error) {
	f, err := Required("output.elasticsearch.hosts",
		NonEmptyList(Explicit(r.props, PathElasticsearchHosts, properties.ToStringSlice)),
		r.linkAddresses(LinkElasticsearch),
		Declared(r.props, PathElasticsearchHosts, properties.ToStringSlice),
	)
	if err != nil {
		return f, err
	}

	protocol, port, err := r.endpoint(PathElasticsearchProtocol, PathElasticsearchPort)
	if err != nil {
		return f, fmt.Errorf("output.elasticsearch.hosts: %w", err)
	}

	urls := make([]string, len(f.Value))
	for i, host := range f.Value {
		urls[i] = URL(protocol, host, port)
	}
	f.Value = urls
	trace(r, "output.elasticsearch.hosts", f)
	return f, nil
}

// KibanaHost resolves setup.kibana.host from the kibana host property or
// the first kibana link instance. It is absent when neither exists. An
// empty host property counts as unset.
func (r *Resolver) KibanaHost() (Field[string], error) {
	f, err := Optional("setup.kibana.host",
		NonEmpty(Explicit(r.props, PathKibanaHost, properties.ToString)),
		r.firstLinkAddress(LinkKibana),
	)
	if err != nil || !f.Present {
		trace(r, "setup.kibana.host", f)
		return f, err
	}

	protocol, port, err := r.endpoint(PathKibanaProtocol, PathKibanaPort)
	if err != nil {
		return Field[string]{}, fmt.Errorf("setup.kibana.host: %w", err)
	}
	f.Value = URL(protocol, f.Value, port)
	trace(r, "setup.kibana.host", f)
	return f, nil
}

// ModulePort resolves the port a module scrapes: module property, then the
// module link's port property, then the module's default port.
func (r *Resolver) ModulePort(m Module) (Field[int], error) {
	field := m.Name + ".port"
	f, err := Required(field,
		Explicit(r.props, m.Path("port"), properties.ToPort),
		r.linkPort(m.Link),
		Fixed("module default", m.DefaultPort),
	)
	trace(r, field, f)
	return f, err
}

// ModuleHosts resolves a module's hosts: the hosts property verbatim, else
// the instance's own address joined with ModulePort. Metricbeat scrapes the
// service it is colocated with, so link instance addresses are never used.
func (r *Resolver) ModuleHosts(m Module) (Field[[]string], error) {
	field := m.Name + ".hosts"
	f, err := Required(field,
		Explicit(r.props, m.Path("hosts"), properties.ToStringSlice),
		Source[[]string]{Name: "instance address", Get: func() ([]string, bool, error) {
			port, err := r.ModulePort(m)
			if err != nil {
				return nil, false, err
			}
			return []string{HostPort(r.self.Address, port.Value)}, true, nil
		}},
	)
	trace(r, field, f)
	return f, err
}

// LinkProperty resolves a scalar carried by a link. It is absent when the
// link was not consumed, does not carry the property, or carries it empty.
func (r *Resolver) LinkProperty(linkName, key string) (Field[string], error) {
	field := linkName + "." + key
	f, err := Optional(field, NonEmpty(Source[string]{
		Name: "link " + linkName,
		Get: func() (string, bool, error) {
			link, ok := r.links.Resolve(linkName)
			if !ok {
				return "", false, nil
			}
			return link.String(key)
		},
	}))
	trace(r, field, f)
	return f, err
}

// Setting resolves a scalar property, falling back to a fixed value.
func (r *Resolver) Setting(path, fallback string) (Field[string], error) {
	f, err := Required(path,
		Explicit(r.props, path, properties.ToString),
		Declared(r.props, path, properties.ToString),
		Fixed("fixed default", fallback),
	)
	trace(r, path, f)
	return f, err
}

func (r *Resolver) endpoint(protocolPath, portPath string) (string, int, error) {
	protocol, err := r.props.String(protocolPath)
	if err != nil {
		return "", 0, err
	}
	port, err := r.props.Port(portPath)
	if err != nil {
		return "", 0, err
	}
	return protocol, port, nil
}

func (r *Resolver) linkAddresses(name string) Source[[]string] {
	return Source[[]string]{Name: "link " + name, Get: func() ([]string, bool, error) {
		link, ok := r.links.Resolve(name)
		if !ok {
			return nil, false, nil
		}
		return link.Addresses(), true, nil
	}}
}

func (r *Resolver) firstLinkAddress(name string) Source[string] {
	return Source[string]{Name: "link " + name, Get: func() (string, bool, error) {
		link, ok := r.links.Resolve(name)
		if !ok || len(link.Instances) == 0 {
			return "", false, nil
		}
		return link.Instances[0].Address, true, nil
	}}
}

func (r *Resolver) linkPort(name string) Source[int] {
	return Source[int]{Name: "link " + name, Get: func() (int, bool, error) {
		if name == "" {
			return 0, false, nil
		}
		link, ok := r.links.Resolve(name)
		if !ok {
			return 0, false, nil
		}
		return link.Port()
	}}
}

// URL formats protocol://host:port.
func URL(protocol, host string, port int) string {
	return protocol + "://" + HostPort(host, port)
}

// HostPort formats host:port, bracketing IPv6 literals.
func HostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
