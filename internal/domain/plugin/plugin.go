package plugin

import (
	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
)

// Ref names a cached plugin. An empty Marketplace means GitHub.
type Ref struct {
	Marketplace string
	Name        string
}

func (r Ref) String() string {
	if r.Marketplace == "" {
		return r.Name
	}
	return r.Name + "@" + r.Marketplace
}

// Plugin is a cached plugin with its manifest and scanned components.
type Plugin struct {
	Ref
	Path        string
	Manifest    *Manifest
	Components  []component.Component
	InstalledAt string
}

// Origin returns the placement origin of the plugin.
func (p *Plugin) Origin() placement.Origin {
	return placement.OriginFromCache(p.Name, p.Marketplace)
}

// Version returns the manifest version.
func (p *Plugin) Version() string {
	if p.Manifest == nil {
		return ""
	}
	return p.Manifest.Version
}

// Names returns the component names of one kind, in scan order.
func (p *Plugin) Names(kind component.Kind) []string {
	var out []string
	for _, c := range p.Components {
		if c.Kind == kind {
			out = append(out, c.Name)
		}
	}
	return out
}
