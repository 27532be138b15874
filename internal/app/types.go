package app

import (
	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/plugin"
)

// PluginSummary describes one cached plugin for listing.
type PluginSummary struct {
	Name        string
	Marketplace string
	Version     string
	Description string

	Skills       []string
	Agents       []string
	Commands     []string
	Instructions []string
	Hooks        []string

	// Enabled is true when any enabled target has a project-scope
	// component placed under the plugin's origin.
	Enabled     bool
	InstalledAt string
}

// ComponentCount returns the number of components across all kinds.
func (s PluginSummary) ComponentCount() int {
	return len(s.Skills) + len(s.Agents) + len(s.Commands) + len(s.Instructions) + len(s.Hooks)
}

// Source returns the marketplace, or "github" for GitHub installs.
func (s PluginSummary) Source() string {
	if s.Marketplace == "" {
		return "github"
	}
	return s.Marketplace
}

func summarize(p *plugin.Plugin) PluginSummary {
	s := PluginSummary{
		Name:         p.Name,
		Marketplace:  p.Marketplace,
		Version:      p.Version(),
		Skills:       p.Names(component.KindSkill),
		Agents:       p.Names(component.KindAgent),
		Commands:     p.Names(component.KindCommand),
		Instructions: p.Names(component.KindInstruction),
		Hooks:        p.Names(component.KindHook),
		InstalledAt:  p.InstalledAt,
	}
	if p.Manifest != nil {
		s.Description = p.Manifest.Description
	}
	return s
}
