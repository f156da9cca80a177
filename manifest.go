package routemap

import (
	"io"

	yaml "gopkg.in/yaml.v2"
)

// RouteDescriptor is the serializable shape of one registration.
type RouteDescriptor struct {
	Method      string            `yaml:"method" json:"method"`
	Path        string            `yaml:"path" json:"path"`
	URI         string            `yaml:"uri" json:"uri"`
	Name        string            `yaml:"name,omitempty" json:"name,omitempty"`
	Mount       bool              `yaml:"mount,omitempty" json:"mount,omitempty"`
	Constraints map[string]string `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	Handlers    int               `yaml:"handlers" json:"handlers"`
}

// RouteManifest is a point-in-time dump of the whole route table,
// suitable for docs tooling and deploy-time diffing.
type RouteManifest struct {
	Routes []RouteDescriptor `yaml:"routes" json:"routes"`
}

// Manifest captures every registration in Apply order.
func (r *Router) Manifest() RouteManifest {
	entries := r.Routes()
	manifest := RouteManifest{Routes: make([]RouteDescriptor, 0, len(entries))}

	for _, entry := range entries {
		desc := RouteDescriptor{
			Method:   entry.Method,
			Path:     entry.Path,
			URI:      entry.URI,
			Name:     entry.Name,
			Mount:    entry.Mount,
			Handlers: len(entry.Handlers),
		}
		if len(entry.Constraints) > 0 {
			desc.Constraints = make(map[string]string, len(entry.Constraints))
			for name, c := range entry.Constraints {
				desc.Constraints[name] = c.Expr()
			}
		}
		manifest.Routes = append(manifest.Routes, desc)
	}

	return manifest
}

// WriteManifest renders the manifest as YAML.
func (r *Router) WriteManifest(w io.Writer) error {
	out, err := yaml.Marshal(r.Manifest())
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
