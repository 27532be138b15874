package deploy

import (
	"context"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/domain/target"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// Intent is a plugin action applied to a scanned set of components.
type Intent struct {
	action       Action
	components   []component.Component
	roots        placement.Roots
	targets      []target.Target
	targetFilter target.ID
}

// IntentOption configures an Intent.
type IntentOption func(*Intent)

// WithTargetFilter restricts the intent to a single target.
func WithTargetFilter(id target.ID) IntentOption {
	return func(i *Intent) {
		i.targetFilter = id
	}
}

// NewIntent creates an intent over the given targets. Targets are visited
// in the order given.
func NewIntent(action Action, components []component.Component, roots placement.Roots, targets []target.Target, opts ...IntentOption) *Intent {
	i := &Intent{
		action:     action,
		components: components,
		roots:      roots,
		targets:    targets,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Action returns the intent's action.
func (i *Intent) Action() Action { return i.action }

// Expand computes the file operations for the intent without touching the
// filesystem beyond symlink checks of destination paths. Destinations that
// fail path validation are left out.
func (i *Intent) Expand() []TargetOperation {
	ops, _ := i.expand()
	return ops
}

func (i *Intent) expand() ([]TargetOperation, []error) {
	var (
		ops      []TargetOperation
		rejected []error
	)
	origin := i.action.Origin()

	for _, t := range i.targets {
		if i.targetFilter != "" && t.ID() != i.targetFilter {
			continue
		}
		for _, c := range i.components {
			if !t.Supports(c.Kind) {
				continue
			}
			loc, ok := t.PlacementLocation(placement.Context{
				Component: placement.ComponentRef{Kind: c.Kind, Name: c.Name},
				Origin:    origin,
				Scope:     component.ScopeProject,
				Roots:     i.roots,
			})
			if !ok {
				continue
			}
			dest, err := placement.NewScopedPath(loc.Path, i.roots.Project)
			if err != nil {
				rejected = append(rejected, err)
				continue
			}
			ops = append(ops, TargetOperation{Target: t.ID(), Operation: i.operation(c, dest)})
		}
	}
	return ops, rejected
}

func (i *Intent) operation(c component.Component, dest placement.ScopedPath) FileOperation {
	isDir := c.Kind == component.KindSkill
	switch {
	case i.action.IsDeploy() && isDir:
		return CopyDir(c.Path, dest, c.Kind)
	case i.action.IsDeploy():
		return CopyFile(c.Path, dest, c.Kind)
	case isDir:
		return RemoveDir(dest, c.Kind)
	default:
		return RemoveFile(dest, c.Kind)
	}
}

// Apply expands the intent and executes the operations.
func (i *Intent) Apply(ctx context.Context, exec *Executor) target.OperationResult {
	ops, rejected := i.expand()
	for _, err := range rejected {
		exec.logger.Debug(ctx, "skipping destination outside project",
			ports.F("plugin", i.action.PluginName),
			ports.F("error", err),
		)
	}
	return exec.Execute(ctx, ops)
}
