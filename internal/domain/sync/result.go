package sync

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/plm/internal/domain/component"
)

// PlacedComponent is a component as reported in a sync result.
type PlacedComponent struct {
	Kind  component.Kind
	Scope component.Scope
	// Entry is "marketplace/plugin/name" or a bare instruction file name.
	Entry string
	// Path is the destination path, empty when unsupported.
	Path string
}

func placedFrom(it Item) PlacedComponent {
	return PlacedComponent{Kind: it.Kind, Scope: it.Scope, Entry: it.Entry(), Path: it.TargetPath}
}

// SkippedComponent is a component left untouched.
type SkippedComponent struct {
	PlacedComponent
	Reason string
}

// Failure records one item that could not be synced.
type Failure struct {
	Component PlacedComponent
	Action    Action
	Error     string
}

func (f Failure) String() string {
	return fmt.Sprintf("%s %s %s: %s", f.Action, f.Component.Kind, f.Component.Entry, f.Error)
}

// Result is the outcome of executing a plan.
type Result struct {
	From        string
	To          string
	Created     []PlacedComponent
	Updated     []PlacedComponent
	Deleted     []PlacedComponent
	Skipped     []SkippedComponent
	Unsupported []PlacedComponent
	Failed      []Failure
	DryRun      bool
}

// IsSuccess reports whether no item failed.
func (r *Result) IsSuccess() bool {
	return len(r.Failed) == 0
}

// Changed returns the number of created, updated and deleted components.
func (r *Result) Changed() int {
	return len(r.Created) + len(r.Updated) + len(r.Deleted)
}

// Err summarizes the failures, or nil on success.
func (r *Result) Err() error {
	if r.IsSuccess() {
		return nil
	}
	msgs := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		msgs[i] = f.String()
	}
	return fmt.Errorf("sync %s -> %s: %d failed: %s", r.From, r.To, len(r.Failed), strings.Join(msgs, "; "))
}

func (r *Result) record(it Item) {
	pc := placedFrom(it)
	switch it.Action {
	case ActionCreate:
		r.Created = append(r.Created, pc)
	case ActionUpdate:
		r.Updated = append(r.Updated, pc)
	case ActionDelete:
		r.Deleted = append(r.Deleted, pc)
	case ActionSkip:
		r.Skipped = append(r.Skipped, SkippedComponent{PlacedComponent: pc, Reason: it.Reason})
	case ActionUnsupported:
		r.Unsupported = append(r.Unsupported, pc)
	}
}

func (r *Result) fail(it Item, err error) {
	r.Failed = append(r.Failed, Failure{Component: placedFrom(it), Action: it.Action, Error: err.Error()})
}
