package target

import (
	"path/filepath"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// antigravity only understands skills.
type antigravity struct {
	fs ports.FileSystem
}

func (a *antigravity) sealed() {}

func (a *antigravity) ID() ID              { return Antigravity }
func (a *antigravity) Name() string        { return string(Antigravity) }
func (a *antigravity) DisplayName() string { return "Google Antigravity" }

func (a *antigravity) Supports(kind component.Kind) bool {
	return kind == component.KindSkill
}

func (a *antigravity) SupportsScope(kind component.Kind, scope component.Scope) bool {
	return supportsScope(a, kind, scope)
}

func (a *antigravity) skillsDir(scope component.Scope, roots placement.Roots) string {
	if scope == component.ScopePersonal {
		return filepath.Join(roots.Home, ".gemini", "antigravity", "skills")
	}
	return filepath.Join(roots.Project, ".agent", "skills")
}

func (a *antigravity) PlacementLocation(ctx placement.Context) (placement.Location, bool) {
	if ctx.Component.Kind != component.KindSkill {
		return placement.Location{}, false
	}
	return placement.Dir(filepath.Join(
		a.skillsDir(ctx.Scope, ctx.Roots),
		ctx.Origin.Marketplace,
		ctx.Origin.Plugin,
		ctx.Component.Name,
	)), true
}

func (a *antigravity) ListPlaced(kind component.Kind, scope component.Scope, roots placement.Roots) ([]string, error) {
	if kind != component.KindSkill {
		return nil, nil
	}
	return listHierarchy(a.fs, a.skillsDir(scope, roots), skillEntry)
}
