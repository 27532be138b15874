package target

import (
	"path/filepath"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// CopilotInstructionFile is the repository instruction file of GitHub Copilot.
const CopilotInstructionFile = "copilot-instructions.md"

// copilot places into <project>/.github. Only agents also have a personal
// location, under ~/.copilot.
type copilot struct {
	fs ports.FileSystem
}

func (c *copilot) sealed() {}

func (c *copilot) ID() ID              { return Copilot }
func (c *copilot) Name() string        { return string(Copilot) }
func (c *copilot) DisplayName() string { return "GitHub Copilot" }

func (c *copilot) Supports(kind component.Kind) bool {
	switch kind {
	case component.KindSkill, component.KindAgent, component.KindCommand, component.KindInstruction:
		return true
	default:
		return false
	}
}

func (c *copilot) SupportsScope(kind component.Kind, scope component.Scope) bool {
	return supportsScope(c, kind, scope)
}

func (c *copilot) base(scope component.Scope, roots placement.Roots) string {
	if scope == component.ScopePersonal {
		return filepath.Join(roots.Home, ".copilot")
	}
	return filepath.Join(roots.Project, ".github")
}

func (c *copilot) PlacementLocation(ctx placement.Context) (placement.Location, bool) {
	base := c.base(ctx.Scope, ctx.Roots)
	kind := ctx.Component.Kind

	if kind == component.KindAgent {
		return placement.File(componentPath(base, "agents", ctx, component.AgentSuffix)), true
	}
	if ctx.Scope != component.ScopeProject {
		return placement.Location{}, false
	}

	switch kind {
	case component.KindSkill:
		return placement.Dir(componentPath(base, "skills", ctx, "")), true
	case component.KindCommand:
		return placement.File(componentPath(base, "prompts", ctx, component.PromptSuffix)), true
	case component.KindInstruction:
		return placement.File(filepath.Join(base, CopilotInstructionFile)), true
	default:
		return placement.Location{}, false
	}
}

func (c *copilot) ListPlaced(kind component.Kind, scope component.Scope, roots placement.Roots) ([]string, error) {
	if !c.SupportsScope(kind, scope) {
		return nil, nil
	}
	base := c.base(scope, roots)
	switch kind {
	case component.KindSkill:
		return listHierarchy(c.fs, filepath.Join(base, "skills"), skillEntry)
	case component.KindAgent:
		return listHierarchy(c.fs, filepath.Join(base, "agents"), suffixEntry(component.AgentSuffix))
	case component.KindCommand:
		return listHierarchy(c.fs, filepath.Join(base, "prompts"), suffixEntry(component.PromptSuffix))
	case component.KindInstruction:
		return listFile(c.fs, filepath.Join(base, CopilotInstructionFile))
	default:
		return nil, nil
	}
}
