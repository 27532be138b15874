package target

import (
	"path/filepath"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// CodexInstructionFile is the instruction file read by OpenAI Codex.
const CodexInstructionFile = "AGENTS.md"

// codex places into ~/.codex or <project>/.codex. Instructions live in
// AGENTS.md at the project root.
type codex struct {
	fs ports.FileSystem
}

func (c *codex) sealed() {}

func (c *codex) ID() ID              { return Codex }
func (c *codex) Name() string        { return string(Codex) }
func (c *codex) DisplayName() string { return "OpenAI Codex" }

func (c *codex) Supports(kind component.Kind) bool {
	switch kind {
	case component.KindSkill, component.KindAgent, component.KindInstruction:
		return true
	default:
		return false
	}
}

func (c *codex) SupportsScope(kind component.Kind, scope component.Scope) bool {
	return supportsScope(c, kind, scope)
}

func (c *codex) base(scope component.Scope, roots placement.Roots) string {
	if scope == component.ScopePersonal {
		return filepath.Join(roots.Home, ".codex")
	}
	return filepath.Join(roots.Project, ".codex")
}

func (c *codex) instructionPath(scope component.Scope, roots placement.Roots) string {
	if scope == component.ScopePersonal {
		return filepath.Join(roots.Home, ".codex", CodexInstructionFile)
	}
	return filepath.Join(roots.Project, CodexInstructionFile)
}

func (c *codex) PlacementLocation(ctx placement.Context) (placement.Location, bool) {
	base := c.base(ctx.Scope, ctx.Roots)
	switch ctx.Component.Kind {
	case component.KindSkill:
		return placement.Dir(componentPath(base, "skills", ctx, "")), true
	case component.KindAgent:
		return placement.File(componentPath(base, "agents", ctx, component.AgentSuffix)), true
	case component.KindInstruction:
		return placement.File(c.instructionPath(ctx.Scope, ctx.Roots)), true
	default:
		return placement.Location{}, false
	}
}

func (c *codex) ListPlaced(kind component.Kind, scope component.Scope, roots placement.Roots) ([]string, error) {
	base := c.base(scope, roots)
	switch kind {
	case component.KindSkill:
		return listHierarchy(c.fs, filepath.Join(base, "skills"), skillEntry)
	case component.KindAgent:
		return listHierarchy(c.fs, filepath.Join(base, "agents"), suffixEntry(component.AgentSuffix))
	case component.KindInstruction:
		return listFile(c.fs, c.instructionPath(scope, roots))
	default:
		return nil, nil
	}
}
