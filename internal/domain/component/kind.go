// Package component models the artifacts a plugin ships and scans them out
// of a plugin directory.
package component

import (
	"fmt"
	"strings"
)

// Kind classifies a plugin artifact.
type Kind int

const (
	KindSkill Kind = iota
	KindAgent
	KindCommand
	KindInstruction
	KindHook
)

// Kinds lists every kind in its canonical order.
var Kinds = []Kind{KindSkill, KindAgent, KindCommand, KindInstruction, KindHook}

// String returns the stable identifier.
func (k Kind) String() string {
	switch k {
	case KindSkill:
		return "skill"
	case KindAgent:
		return "agent"
	case KindCommand:
		return "command"
	case KindInstruction:
		return "instruction"
	case KindHook:
		return "hook"
	default:
		return "unknown"
	}
}

// Plural returns the plural form, which is also the directory name used in
// plugin caches and target trees.
func (k Kind) Plural() string {
	return k.String() + "s"
}

// ParseKind accepts the identifier or its plural, case-insensitively.
func ParseKind(s string) (Kind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if v == k.String() || v == k.Plural() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown component kind %q", s)
}

// Scope selects the personal (home) or project tree of a target.
type Scope int

const (
	ScopePersonal Scope = iota
	ScopeProject
)

// Scopes lists both scopes in canonical order.
var Scopes = []Scope{ScopePersonal, ScopeProject}

func (s Scope) String() string {
	switch s {
	case ScopePersonal:
		return "personal"
	case ScopeProject:
		return "project"
	default:
		return "unknown"
	}
}

// ParseScope converts "personal" or "project".
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "personal", "user", "global":
		return ScopePersonal, nil
	case "project":
		return ScopeProject, nil
	default:
		return 0, fmt.Errorf("unknown scope %q", s)
	}
}

// Component is one artifact inside a cached plugin.
type Component struct {
	Kind Kind
	Name string
	// Path is the absolute source path inside the plugin cache.
	Path string
}
