package target

import (
	"path/filepath"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// GeminiInstructionFile is the context file read by Gemini CLI.
const GeminiInstructionFile = "GEMINI.md"

// gemini places skills under .gemini/skills and instructions in GEMINI.md.
type gemini struct {
	fs ports.FileSystem
}

func (g *gemini) sealed() {}

func (g *gemini) ID() ID              { return Gemini }
func (g *gemini) Name() string        { return string(Gemini) }
func (g *gemini) DisplayName() string { return "Gemini CLI" }

func (g *gemini) Supports(kind component.Kind) bool {
	return kind == component.KindSkill || kind == component.KindInstruction
}

func (g *gemini) SupportsScope(kind component.Kind, scope component.Scope) bool {
	return supportsScope(g, kind, scope)
}

func (g *gemini) base(scope component.Scope, roots placement.Roots) string {
	if scope == component.ScopePersonal {
		return filepath.Join(roots.Home, ".gemini")
	}
	return filepath.Join(roots.Project, ".gemini")
}

func (g *gemini) instructionPath(scope component.Scope, roots placement.Roots) string {
	if scope == component.ScopePersonal {
		return filepath.Join(roots.Home, ".gemini", GeminiInstructionFile)
	}
	return filepath.Join(roots.Project, GeminiInstructionFile)
}

func (g *gemini) PlacementLocation(ctx placement.Context) (placement.Location, bool) {
	switch ctx.Component.Kind {
	case component.KindSkill:
		return placement.Dir(componentPath(g.base(ctx.Scope, ctx.Roots), "skills", ctx, "")), true
	case component.KindInstruction:
		return placement.File(g.instructionPath(ctx.Scope, ctx.Roots)), true
	default:
		return placement.Location{}, false
	}
}

func (g *gemini) ListPlaced(kind component.Kind, scope component.Scope, roots placement.Roots) ([]string, error) {
	switch kind {
	case component.KindSkill:
		return listHierarchy(g.fs, filepath.Join(g.base(scope, roots), "skills"), skillEntry)
	case component.KindInstruction:
		return listFile(g.fs, g.instructionPath(scope, roots))
	default:
		return nil, nil
	}
}
