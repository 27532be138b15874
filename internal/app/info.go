package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/domain/plugin"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// Source kinds reported by PluginDetail.
const (
	SourceGitHub      = "github"
	SourceMarketplace = "marketplace"
)

// PluginDetail describes one cached plugin in full.
type PluginDetail struct {
	Name        string        `json:"name" yaml:"name"`
	Version     string        `json:"version" yaml:"version"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Author      *AuthorInfo   `json:"author,omitempty" yaml:"author,omitempty"`
	InstalledAt string        `json:"installedAt,omitempty" yaml:"installed_at,omitempty"`
	Source      SourceInfo    `json:"source" yaml:"source"`
	Components  ComponentInfo `json:"components" yaml:"components"`
	Enabled     bool          `json:"enabled" yaml:"enabled"`
	CachePath   string        `json:"cachePath" yaml:"cache_path"`
}

// AuthorInfo is the manifest author.
type AuthorInfo struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
}

// SourceInfo says where a plugin was installed from: a GitHub repository
// or a marketplace.
type SourceInfo struct {
	Type        string `json:"type" yaml:"type"`
	Repository  string `json:"repository,omitempty" yaml:"repository,omitempty"`
	Marketplace string `json:"marketplace,omitempty" yaml:"marketplace,omitempty"`
}

func (s SourceInfo) String() string {
	if s.Type == SourceGitHub {
		return fmt.Sprintf("GitHub (%s)", s.Repository)
	}
	return fmt.Sprintf("Marketplace (%s)", s.Marketplace)
}

// ComponentInfo lists component names per kind. Lists are never nil.
type ComponentInfo struct {
	Skills       []string `json:"skills" yaml:"skills"`
	Agents       []string `json:"agents" yaml:"agents"`
	Commands     []string `json:"commands" yaml:"commands"`
	Instructions []string `json:"instructions" yaml:"instructions"`
	Hooks        []string `json:"hooks" yaml:"hooks"`
}

// PluginInfo resolves name to one cached plugin and describes it. The name
// matches either the cache directory or the manifest name. An empty
// marketplace searches every marketplace and fails when more than one
// plugin matches.
func (m *Manager) PluginInfo(ctx context.Context, name, marketplace string) (*PluginDetail, error) {
	if name == "" {
		return nil, plugin.ErrEmptyPluginName
	}
	if marketplace == placement.GitHubMarketplace {
		marketplace = ""
	}

	refs, err := m.cache.List()
	if err != nil {
		return nil, fmt.Errorf("listing plugin cache: %w", err)
	}

	var matches []*plugin.Plugin
	for _, ref := range refs {
		if marketplace != "" && ref.Marketplace != marketplace {
			continue
		}
		p, err := m.cache.Load(ref.Marketplace, ref.Name)
		if err != nil {
			m.logger.Debug(ctx, "skipping unreadable plugin",
				ports.F("plugin", ref.String()),
				ports.F("error", err),
			)
			continue
		}
		if ref.Name == name || p.Manifest.Name == name {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		searched := m.cache.Dir()
		if marketplace != "" {
			searched = filepath.Join(searched, marketplace)
		}
		return nil, &plugin.NotFoundError{Name: name, Marketplace: marketplace, Path: searched}
	case 1:
		p := matches[0]
		return describe(p, m.enabledOrigins(ctx)[p.Origin().String()]), nil
	default:
		candidates := make([]string, 0, len(matches))
		for _, p := range matches {
			candidates = append(candidates, p.Name+"@"+sourceOf(p.Marketplace))
		}
		return nil, &plugin.AmbiguousError{Name: name, Candidates: candidates}
	}
}

func describe(p *plugin.Plugin, enabled bool) *PluginDetail {
	d := &PluginDetail{
		Name:        p.Manifest.Name,
		Version:     p.Version(),
		Description: p.Manifest.Description,
		InstalledAt: p.InstalledAt,
		Components: ComponentInfo{
			Skills:       names(p, component.KindSkill),
			Agents:       names(p, component.KindAgent),
			Commands:     names(p, component.KindCommand),
			Instructions: names(p, component.KindInstruction),
			Hooks:        names(p, component.KindHook),
		},
		Enabled:   enabled,
		CachePath: p.Path,
	}
	if a := p.Manifest.Author; a != nil && a.Name != "" {
		d.Author = &AuthorInfo{Name: a.Name, Email: a.Email, URL: a.URL}
	}

	origin := p.Origin()
	if owner, repo, ok := origin.GitHubRepo(); ok {
		d.Source = SourceInfo{Type: SourceGitHub, Repository: owner + "/" + repo}
	} else if origin.Marketplace == placement.GitHubMarketplace {
		d.Source = SourceInfo{Type: SourceGitHub, Repository: p.Name}
	} else {
		d.Source = SourceInfo{Type: SourceMarketplace, Marketplace: origin.Marketplace}
	}
	return d
}

func names(p *plugin.Plugin, kind component.Kind) []string {
	out := p.Names(kind)
	if out == nil {
		return []string{}
	}
	return out
}

func sourceOf(marketplace string) string {
	if marketplace == "" {
		return placement.GitHubMarketplace
	}
	return marketplace
}
