package sync

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// Executor applies a Plan.
type Executor struct {
	fs     ports.FileSystem
	logger ports.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(fs ports.FileSystem, logger ports.Logger) *Executor {
	return &Executor{fs: fs, logger: logger}
}

// Execute runs every item of plan in order. A failing item is recorded and
// the remaining items still run. In dry-run mode nothing is written and the
// result mirrors the plan.
func (e *Executor) Execute(ctx context.Context, plan *Plan) *Result {
	result := &Result{From: string(plan.From), To: string(plan.To), DryRun: plan.Options.DryRun}

	for _, it := range plan.Items {
		if plan.Options.DryRun {
			result.record(it)
			continue
		}

		var err error
		switch it.Action {
		case ActionCreate, ActionUpdate:
			err = e.copy(plan.Roots, it)
		case ActionDelete:
			err = e.delete(plan.Roots, it)
		}
		if err != nil {
			e.logger.Warn(ctx, "sync item failed",
				ports.F("action", it.Action.String()),
				ports.F("entry", it.Entry()),
				ports.F("error", err),
			)
			result.fail(it, err)
			continue
		}
		e.logger.Debug(ctx, "sync item",
			ports.F("action", it.Action.String()),
			ports.F("entry", it.Entry()),
			ports.F("path", it.TargetPath),
		)
		result.record(it)
	}
	return result
}

// copy replaces the destination through a temporary sibling so a failed
// copy never leaves a half-written component behind.
func (e *Executor) copy(roots placement.Roots, it Item) error {
	dest, err := scoped(roots, it)
	if err != nil {
		return err
	}

	dir, base := filepath.Split(dest.Path())
	suffix := uuid.NewString()
	tmp := filepath.Join(dir, "."+base+".tmp-"+suffix)
	backup := filepath.Join(dir, "."+base+".bak-"+suffix)

	if it.IsDir {
		err = e.fs.CopyDir(it.SourcePath, tmp)
	} else {
		err = e.fs.CopyFile(it.SourcePath, tmp)
	}
	if err != nil {
		_ = e.fs.RemoveAll(tmp)
		return err
	}

	hadDest := e.fs.Exists(dest.Path())
	if hadDest {
		if err := e.fs.Rename(dest.Path(), backup); err != nil {
			_ = e.fs.RemoveAll(tmp)
			return err
		}
	}
	if err := e.fs.Rename(tmp, dest.Path()); err != nil {
		_ = e.fs.RemoveAll(tmp)
		if hadDest {
			if rerr := e.fs.Rename(backup, dest.Path()); rerr != nil {
				return fmt.Errorf("%w (restoring previous content: %v)", err, rerr)
			}
		}
		return err
	}
	if hadDest {
		_ = e.fs.RemoveAll(backup)
	}
	return nil
}

func (e *Executor) delete(roots placement.Roots, it Item) error {
	dest, err := scoped(roots, it)
	if err != nil {
		return err
	}
	if !e.fs.Exists(dest.Path()) {
		return nil
	}
	if it.IsDir {
		return e.fs.RemoveAll(dest.Path())
	}
	return e.fs.Remove(dest.Path())
}

// scoped validates the destination against the root of the item's scope.
func scoped(roots placement.Roots, it Item) (placement.ScopedPath, error) {
	root := roots.Project
	if it.Scope == component.ScopePersonal {
		root = roots.Home
	}
	return placement.NewScopedPath(it.TargetPath, root)
}
