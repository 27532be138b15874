// Package app wires the plugin cache, the deployment engine and the sync
// engine into the operations exposed by the plm command line.
package app

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/plm/internal/adapters/logging"
	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/deploy"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/domain/plugin"
	"github.com/felixgeelhaar/plm/internal/domain/sync"
	"github.com/felixgeelhaar/plm/internal/domain/target"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// Manager is the main application orchestrator.
type Manager struct {
	fs       ports.FileSystem
	logger   ports.Logger
	cache    *plugin.Cache
	roots    placement.Roots
	targets  []target.Target
	deployer *deploy.Executor
}

// NewManager creates a Manager deploying into targets. Targets are visited
// in the order given.
func NewManager(fs ports.FileSystem, cache *plugin.Cache, roots placement.Roots, targets []target.Target) *Manager {
	logger := logging.NewNop()
	return &Manager{
		fs:       fs,
		logger:   logger,
		cache:    cache,
		roots:    roots,
		targets:  targets,
		deployer: deploy.NewExecutor(fs, logger),
	}
}

// WithLogger sets the logger used by the manager and its executors.
func (m *Manager) WithLogger(logger ports.Logger) *Manager {
	m.logger = logger
	m.deployer = deploy.NewExecutor(m.fs, logger)
	return m
}

// Roots returns the home and project roots the manager places into.
func (m *Manager) Roots() placement.Roots {
	return m.roots
}

// Targets returns the enabled targets.
func (m *Manager) Targets() []target.Target {
	return m.targets
}

// ListInstalledPlugins summarizes every cached plugin. Plugins whose
// manifest cannot be read are logged and left out.
func (m *Manager) ListInstalledPlugins(ctx context.Context) ([]PluginSummary, error) {
	refs, err := m.cache.List()
	if err != nil {
		return nil, fmt.Errorf("listing plugin cache: %w", err)
	}

	enabled := m.enabledOrigins(ctx)

	summaries := make([]PluginSummary, 0, len(refs))
	for _, ref := range refs {
		p, err := m.cache.Load(ref.Marketplace, ref.Name)
		if err != nil {
			m.logger.Warn(ctx, "skipping unreadable plugin",
				ports.F("plugin", ref.String()),
				ports.F("error", err),
			)
			continue
		}
		s := summarize(p)
		s.Enabled = enabled[p.Origin().String()]
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// enabledOrigins collects "marketplace/plugin" for everything placed at
// project scope in the enabled targets.
func (m *Manager) enabledOrigins(ctx context.Context) map[string]bool {
	out := make(map[string]bool)
	for _, t := range m.targets {
		for _, kind := range component.Kinds {
			if !t.SupportsScope(kind, component.ScopeProject) {
				continue
			}
			entries, err := t.ListPlaced(kind, component.ScopeProject, m.roots)
			if err != nil {
				m.logger.Debug(ctx, "listing placed components failed",
					ports.F("target", t.ID().String()),
					ports.F("kind", kind.String()),
					ports.F("error", err),
				)
				continue
			}
			for _, entry := range entries {
				if mp, name, ok := placement.ParsePlacement(entry); ok {
					out[mp+"/"+name] = true
				}
			}
		}
	}
	return out
}

// InstallPlugin copies the plugin at dir into the cache and deploys it.
// Installing an older version over a cached one fails with
// plugin.ErrDowngrade unless force is set.
func (m *Manager) InstallPlugin(ctx context.Context, dir, marketplace string, force bool) target.OperationResult {
	manifest, err := plugin.LoadManifest(m.fs, dir)
	if err != nil {
		return target.Failed(err)
	}

	if !force && m.cache.IsCached(marketplace, manifest.Name) {
		if current, err := m.cache.LoadManifest(marketplace, manifest.Name); err == nil &&
			plugin.CompareVersions(manifest.Version, current.Version) < 0 {
			return target.Failed(fmt.Errorf("%w %s: cached %s is newer than %s (use --force)",
				plugin.ErrDowngrade, manifest.Name, current.Version, manifest.Version))
		}
	}

	path, err := m.cache.Store(marketplace, manifest.Name, dir)
	if err != nil {
		return target.Failed(fmt.Errorf("caching plugin %s: %w", manifest.Name, err))
	}
	m.logger.Info(ctx, "plugin cached",
		ports.F("plugin", manifest.Name),
		ports.F("version", manifest.Version),
		ports.F("path", path),
	)

	return m.apply(ctx, deploy.Install(manifest.Name, marketplace))
}

// EnablePlugin places a cached plugin's components into every target.
func (m *Manager) EnablePlugin(ctx context.Context, name, marketplace string) target.OperationResult {
	return m.apply(ctx, deploy.Enable(name, marketplace))
}

// DisablePlugin removes a cached plugin's components from every target.
// The cache is left alone.
func (m *Manager) DisablePlugin(ctx context.Context, name, marketplace string) target.OperationResult {
	return m.apply(ctx, deploy.Disable(name, marketplace))
}

// UninstallPlugin disables the plugin and then deletes it from the cache.
// Nothing is removed from the cache if any target failed. force only
// affects interactive confirmation, which is the caller's concern.
func (m *Manager) UninstallPlugin(ctx context.Context, name, marketplace string, force bool) target.OperationResult {
	result := m.apply(ctx, deploy.Uninstall(name, marketplace))
	if !result.Success {
		return result
	}
	if err := m.cache.Remove(marketplace, name); err != nil {
		return target.Failed(fmt.Errorf("removing %s from cache: %w", name, err))
	}
	m.logger.Info(ctx, "plugin uninstalled",
		ports.F("plugin", plugin.Ref{Marketplace: marketplace, Name: name}.String()),
		ports.F("force", force),
	)
	return result
}

func (m *Manager) apply(ctx context.Context, action deploy.Action) target.OperationResult {
	p, err := m.cache.Load(action.Marketplace, action.PluginName)
	if err != nil {
		return target.Failed(err)
	}
	ctx = ports.ContextWithLogger(ctx, m.logger.With(ports.F("plugin", p.Ref.String())))
	intent := deploy.NewIntent(action, p.Components, m.roots, m.targets)
	result := intent.Apply(ctx, m.deployer)
	m.logger.Debug(ctx, "plugin action applied",
		ports.F("action", action.Kind.String()),
		ports.F("plugin", p.Ref.String()),
		ports.F("components", result.Affected.TotalComponents()),
		ports.F("success", result.Success),
	)
	return result
}

// Sync mirrors what is placed for from into to. Either target may be
// outside the enabled set.
func (m *Manager) Sync(ctx context.Context, from, to target.ID, opts sync.Options) (*sync.Result, error) {
	src, err := target.New(from, m.fs)
	if err != nil {
		return nil, err
	}
	dst, err := target.New(to, m.fs)
	if err != nil {
		return nil, err
	}

	session, err := sync.NewSession(m.fs, m.logger)
	if err != nil {
		return nil, err
	}
	defer session.Stop()

	return session.Run(ctx, src, dst, m.roots, opts)
}

// PlanSync computes a sync plan without executing it.
func (m *Manager) PlanSync(from, to target.ID, opts sync.Options) (*sync.Plan, error) {
	src, err := target.New(from, m.fs)
	if err != nil {
		return nil, err
	}
	dst, err := target.New(to, m.fs)
	if err != nil {
		return nil, err
	}
	return sync.NewPlanner(m.fs).Plan(src, dst, m.roots, opts)
}
