package sync

import (
	"errors"
	"fmt"
	"sort"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/domain/target"
	"github.com/felixgeelhaar/plm/internal/ports"
)

var (
	// ErrSameTarget is returned when source and destination are the same.
	ErrSameTarget = errors.New("cannot sync to the same target")
	// ErrDuplicateDestination is returned when two source components map
	// to one destination path.
	ErrDuplicateDestination = errors.New("duplicate destination")
)

// Planner diffs the components placed for one target against another.
type Planner struct {
	fs     ports.FileSystem
	hasher *Hasher
}

// NewPlanner creates a Planner reading through fs.
func NewPlanner(fs ports.FileSystem) *Planner {
	return &Planner{fs: fs, hasher: NewHasher(fs)}
}

// Plan lists what syncing from into to would do. Items are sorted by kind,
// scope, origin and name.
func (p *Planner) Plan(from, to target.Target, roots placement.Roots, opts Options) (*Plan, error) {
	if from.ID() == to.ID() {
		return nil, fmt.Errorf("%w: %s", ErrSameTarget, from.ID())
	}

	plan := &Plan{From: from.ID(), To: to.ID(), Roots: roots, Options: opts}
	sourceKeys := make(map[string]bool)
	destinations := make(map[string]string)

	for _, kind := range opts.kinds() {
		for _, scope := range opts.scopes() {
			entries, err := from.ListPlaced(kind, scope, roots)
			if err != nil {
				return nil, fmt.Errorf("listing %s %s for %s: %w", scope, kind.Plural(), from.ID(), err)
			}
			for _, entry := range entries {
				item, ok := p.planEntry(from, to, kind, scope, entry, roots)
				if !ok {
					continue
				}
				sourceKeys[itemKey(item)] = true
				if item.TargetPath != "" {
					if prev, dup := destinations[item.TargetPath]; dup {
						return nil, fmt.Errorf("%w: %s and %s both map to %s",
							ErrDuplicateDestination, prev, item.Entry(), item.TargetPath)
					}
					destinations[item.TargetPath] = item.Entry()
				}
				plan.Items = append(plan.Items, item)
			}
		}
	}

	if opts.Delete {
		deletions, err := p.planDeletions(from, to, roots, opts, sourceKeys)
		if err != nil {
			return nil, err
		}
		plan.Items = append(plan.Items, deletions...)
	}

	sortItems(plan.Items)
	return plan, nil
}

func (p *Planner) planEntry(from, to target.Target, kind component.Kind, scope component.Scope, entry string, roots placement.Roots) (Item, bool) {
	origin, name, _ := placement.ParsePlacedEntry(entry)
	ctx := placement.Context{
		Component: placement.ComponentRef{Kind: kind, Name: name},
		Origin:    origin,
		Scope:     scope,
		Roots:     roots,
	}

	src, ok := from.PlacementLocation(ctx)
	if !ok {
		return Item{}, false
	}

	item := Item{
		Kind:       kind,
		Scope:      scope,
		Origin:     origin,
		Name:       name,
		SourcePath: src.Path,
		IsDir:      src.IsDir(),
	}

	dst, ok := to.PlacementLocation(ctx)
	switch {
	case !ok:
		item.Action = ActionUnsupported
	case !p.fs.Exists(dst.Path):
		item.TargetPath = dst.Path
		item.Action = ActionCreate
	case p.hasher.Equal(src.Path, dst.Path):
		item.TargetPath = dst.Path
		item.Action = ActionSkip
		item.Reason = ReasonUnchanged
	default:
		item.TargetPath = dst.Path
		item.Action = ActionUpdate
	}
	return item, true
}

// planDeletions lists destination components with no source counterpart.
// Only kinds and scopes both targets can hold are considered.
func (p *Planner) planDeletions(from, to target.Target, roots placement.Roots, opts Options, sourceKeys map[string]bool) ([]Item, error) {
	var out []Item
	for _, kind := range opts.kinds() {
		for _, scope := range opts.scopes() {
			if !from.SupportsScope(kind, scope) || !to.SupportsScope(kind, scope) {
				continue
			}
			entries, err := to.ListPlaced(kind, scope, roots)
			if err != nil {
				return nil, fmt.Errorf("listing %s %s for %s: %w", scope, kind.Plural(), to.ID(), err)
			}
			for _, entry := range entries {
				origin, name, _ := placement.ParsePlacedEntry(entry)
				item := Item{Kind: kind, Scope: scope, Origin: origin, Name: name, Action: ActionDelete}
				if sourceKeys[itemKey(item)] {
					continue
				}
				dst, ok := to.PlacementLocation(placement.Context{
					Component: placement.ComponentRef{Kind: kind, Name: name},
					Origin:    origin,
					Scope:     scope,
					Roots:     roots,
				})
				if !ok {
					continue
				}
				item.TargetPath = dst.Path
				item.IsDir = dst.IsDir()
				out = append(out, item)
			}
		}
	}
	return out, nil
}

// itemKey identifies a component independently of the target. Origin-less
// entries are single well-known files, so their name is not part of the key.
func itemKey(it Item) string {
	if it.Origin.IsZero() {
		return fmt.Sprintf("%d|%d|", it.Kind, it.Scope)
	}
	return fmt.Sprintf("%d|%d|%s|%s", it.Kind, it.Scope, it.Origin, it.Name)
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Scope != b.Scope {
			return a.Scope < b.Scope
		}
		if ao, bo := a.Origin.String(), b.Origin.String(); ao != bo {
			return ao < bo
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Action < b.Action
	})
}
