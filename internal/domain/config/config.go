// Package config loads and saves the plm configuration file.
package config

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/felixgeelhaar/plm/internal/domain/marketplace"
	"github.com/felixgeelhaar/plm/internal/domain/target"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultTargets are enabled when no config file exists.
var DefaultTargets = []string{string(target.Codex), string(target.Copilot)}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" toml:"level,omitempty"`
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
}

// Config is the content of the plm config file.
type Config struct {
	// Targets are the enabled target IDs, sorted and unique.
	Targets []string `yaml:"targets" toml:"targets"`
	// CacheDir overrides the plugin cache location.
	CacheDir     string                     `yaml:"cache_dir,omitempty" toml:"cache_dir,omitempty"`
	Log          LogConfig                  `yaml:"log,omitempty" toml:"log,omitempty"`
	Marketplaces []marketplace.Registration `yaml:"marketplaces,omitempty" toml:"marketplaces,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Targets: append([]string(nil), DefaultTargets...),
		Log:     LogConfig{Level: "info", Format: LogFormatText},
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs ErrorList

	for _, t := range c.Targets {
		if _, err := target.ParseID(t); err != nil {
			errs.AddValidation("targets", err.Error(), "run 'plm target list' to see known targets")
		}
	}
	if _, err := ports.ParseLevel(c.Log.Level); err != nil {
		errs.AddValidation("log.level", err.Error(), "use debug, info, warn or error")
	}
	switch c.Log.Format {
	case "", LogFormatText, LogFormatJSON:
	default:
		errs.AddValidation("log.format", "unknown format "+c.Log.Format, "use text or json")
	}
	for _, m := range c.Marketplaces {
		if err := marketplace.ValidateName(m.Name); err != nil {
			errs.AddValidation("marketplaces", err.Error(), "")
		}
		if _, _, err := marketplace.ParseSource(m.Source); err != nil {
			errs.AddValidation("marketplaces", err.Error(), "sources look like github:owner/repo")
		}
	}

	if errs.HasErrors() {
		return &errs
	}
	return nil
}

// TargetIDs returns the enabled targets as IDs.
func (c *Config) TargetIDs() ([]target.ID, error) {
	ids := make([]target.ID, 0, len(c.Targets))
	for _, t := range c.Targets {
		id, err := target.ParseID(t)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ResolveCacheDir returns CacheDir expanded against home, or fallback
// when unset.
func (c *Config) ResolveCacheDir(home, fallback string) string {
	if c.CacheDir == "" {
		return fallback
	}
	return filepath.Clean(ports.ExpandPath(c.CacheDir, home))
}

// AddResult reports what AddTarget did.
type AddResult int

const (
	Added AddResult = iota
	AlreadyExists
)

// RemoveResult reports what RemoveTarget did.
type RemoveResult int

const (
	Removed RemoveResult = iota
	NotFound
)

// AddTarget enables a target.
func (c *Config) AddTarget(id target.ID) AddResult {
	for _, t := range c.Targets {
		if t == string(id) {
			return AlreadyExists
		}
	}
	c.Targets = append(c.Targets, string(id))
	c.normalize()
	return Added
}

// RemoveTarget disables a target.
func (c *Config) RemoveTarget(id target.ID) RemoveResult {
	for i, t := range c.Targets {
		if t == string(id) {
			c.Targets = append(c.Targets[:i], c.Targets[i+1:]...)
			return Removed
		}
	}
	return NotFound
}

// MarketplaceRegistry returns a registry over the configured marketplaces.
func (c *Config) MarketplaceRegistry() *marketplace.Registry {
	return marketplace.NewRegistry(c.Marketplaces)
}

// SetMarketplaces stores the registry's entries.
func (c *Config) SetMarketplaces(r *marketplace.Registry) {
	c.Marketplaces = r.List()
}

// normalize lowercases, sorts and de-duplicates targets.
func (c *Config) normalize() {
	seen := make(map[string]bool, len(c.Targets))
	out := c.Targets[:0]
	for _, t := range c.Targets {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	c.Targets = out
}
