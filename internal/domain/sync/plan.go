// Package sync mirrors components placed for one target into another
// target's layout.
package sync

import (
	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/domain/target"
)

// Action classifies a sync item.
type Action int

const (
	// ActionCreate copies a component that is missing at the destination.
	ActionCreate Action = iota
	// ActionUpdate overwrites a destination whose content differs.
	ActionUpdate
	// ActionDelete removes a destination component absent from the source.
	ActionDelete
	// ActionSkip leaves the destination alone; Item.Reason says why.
	ActionSkip
	// ActionUnsupported marks components the destination cannot hold.
	ActionUnsupported
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	case ActionSkip:
		return "skip"
	case ActionUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// ReasonUnchanged is the skip reason for identical content.
const ReasonUnchanged = "unchanged"

// SyncableKinds are the kinds considered by a sync. Hooks have no target
// placement and are never synced.
var SyncableKinds = []component.Kind{
	component.KindSkill,
	component.KindAgent,
	component.KindCommand,
	component.KindInstruction,
}

// Options selects what a sync covers.
type Options struct {
	// Kinds limits the sync; empty means SyncableKinds.
	Kinds []component.Kind
	// Scopes limits the sync; empty means both scopes.
	Scopes []component.Scope
	// DryRun reports the plan without touching the filesystem.
	DryRun bool
	// Delete removes destination components missing from the source.
	Delete bool
}

func (o Options) kinds() []component.Kind {
	if len(o.Kinds) == 0 {
		return SyncableKinds
	}
	var out []component.Kind
	for _, k := range SyncableKinds {
		for _, want := range o.Kinds {
			if k == want {
				out = append(out, k)
				break
			}
		}
	}
	return out
}

func (o Options) scopes() []component.Scope {
	if len(o.Scopes) == 0 {
		return component.Scopes
	}
	var out []component.Scope
	for _, s := range component.Scopes {
		for _, want := range o.Scopes {
			if s == want {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Item is one component in a sync plan.
type Item struct {
	Kind  component.Kind
	Scope component.Scope
	// Origin is zero for origin-less entries such as AGENTS.md.
	Origin placement.Origin
	Name   string
	// SourcePath is empty for deletions.
	SourcePath string
	// TargetPath is empty for unsupported items.
	TargetPath string
	IsDir      bool
	Action     Action
	Reason     string
}

// Entry returns the listing form "marketplace/plugin/name", or the bare
// name for origin-less items.
func (i Item) Entry() string {
	if i.Origin.IsZero() {
		return i.Name
	}
	return i.Origin.String() + "/" + i.Name
}

// Plan is the ordered set of items for syncing From into To.
type Plan struct {
	From    target.ID
	To      target.ID
	Roots   placement.Roots
	Options Options
	Items   []Item
}

// Count returns the number of items with the given action.
func (p *Plan) Count(action Action) int {
	n := 0
	for _, it := range p.Items {
		if it.Action == action {
			n++
		}
	}
	return n
}

// HasChanges reports whether executing the plan would write anything.
func (p *Plan) HasChanges() bool {
	return p.Count(ActionCreate)+p.Count(ActionUpdate)+p.Count(ActionDelete) > 0
}
