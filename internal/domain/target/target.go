// Package target describes the AI assistants plm places components into.
// Each target owns a compatibility matrix, a placement resolver and a way
// to list what is already placed.
package target

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// ID identifies a target.
type ID string

// Known target identifiers.
const (
	Codex       ID = "codex"
	Copilot     ID = "copilot"
	Antigravity ID = "antigravity"
	Gemini      ID = "gemini"
)

func (id ID) String() string { return string(id) }

// ErrUnknownTarget is returned for identifiers outside the known set.
var ErrUnknownTarget = errors.New("unknown target")

// IDs returns every known identifier in sorted order.
func IDs() []ID {
	return []ID{Antigravity, Codex, Copilot, Gemini}
}

// ParseID validates a target name.
func ParseID(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range IDs() {
		if id == known {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q (known: %s)", ErrUnknownTarget, s, strings.Join(idStrings(IDs()), ", "))
}

// Target is the capability set of one assistant environment. The set of
// implementations is closed; use New to obtain one.
type Target interface {
	ID() ID
	Name() string
	DisplayName() string
	Supports(kind component.Kind) bool
	SupportsScope(kind component.Kind, scope component.Scope) bool
	// PlacementLocation returns false when the kind or scope is unsupported.
	PlacementLocation(ctx placement.Context) (placement.Location, bool)
	// ListPlaced returns "marketplace/plugin/name" entries, or a well-known
	// file name for instructions.
	ListPlaced(kind component.Kind, scope component.Scope, roots placement.Roots) ([]string, error)

	sealed()
}

// New returns the target for id, listing placed components through fs.
func New(id ID, fs ports.FileSystem) (Target, error) {
	switch id {
	case Codex:
		return &codex{fs: fs}, nil
	case Copilot:
		return &copilot{fs: fs}, nil
	case Antigravity:
		return &antigravity{fs: fs}, nil
	case Gemini:
		return &gemini{fs: fs}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, id)
	}
}

// All returns every known target in sorted order.
func All(fs ports.FileSystem) []Target {
	out := make([]Target, 0, len(IDs()))
	for _, id := range IDs() {
		t, _ := New(id, fs)
		out = append(out, t)
	}
	return out
}

// Resolve returns targets for the given names, sorted and de-duplicated.
func Resolve(fs ports.FileSystem, names []string) ([]Target, error) {
	seen := make(map[ID]bool)
	var ids []ID
	for _, name := range names {
		id, err := ParseID(name)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Target, 0, len(ids))
	for _, id := range ids {
		t, err := New(id, fs)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// supportsScope probes a target's resolver with a placeholder context.
func supportsScope(t Target, kind component.Kind, scope component.Scope) bool {
	if !t.Supports(kind) {
		return false
	}
	_, ok := t.PlacementLocation(placement.Context{
		Component: placement.ComponentRef{Kind: kind, Name: "probe"},
		Origin:    placement.MarketplaceOrigin("probe", "probe"),
		Scope:     scope,
		Roots:     placement.Roots{Home: "/home", Project: "/project"},
	})
	return ok
}

// componentPath builds <base>/<kinddir>/<marketplace>/<plugin>/<name><suffix>.
func componentPath(base, kindDir string, ctx placement.Context, suffix string) string {
	return filepath.Join(base, kindDir, ctx.Origin.Marketplace, ctx.Origin.Plugin, ctx.Component.Name+suffix)
}

func idStrings(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
