package deploy

import (
	"context"
	"path/filepath"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/target"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// pruneDepth is how many emptied parents (<plugin>, <marketplace>, the
// kind directory and the target base such as .codex) are removed after a
// component is deleted.
const pruneDepth = 4

// Executor runs file operations grouped by target.
type Executor struct {
	fs     ports.FileSystem
	logger ports.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(fs ports.FileSystem, logger ports.Logger) *Executor {
	return &Executor{fs: fs, logger: logger}
}

// Execute runs ops target by target in first-appearance order. Within a
// target, the first failure stops that target's remaining operations;
// other targets still run.
func (e *Executor) Execute(ctx context.Context, ops []TargetOperation) target.OperationResult {
	var order []target.ID
	groups := make(map[target.ID][]FileOperation)
	for _, op := range ops {
		if _, ok := groups[op.Target]; !ok {
			order = append(order, op.Target)
		}
		groups[op.Target] = append(groups[op.Target], op.Operation)
	}

	logger := e.loggerFor(ctx)
	var affected target.AffectedTargets
	for _, id := range order {
		count, err := e.runGroup(ctx, logger, id, groups[id])
		if err != nil {
			logger.Warn(ctx, "target operations failed",
				ports.F("target", string(id)),
				ports.F("completed", count),
				ports.F("error", err),
			)
			affected.RecordError(id, err.Error())
			continue
		}
		affected.RecordSuccess(id, count)
	}
	return affected.Result()
}

// loggerFor prefers a logger carried by ctx.
func (e *Executor) loggerFor(ctx context.Context) ports.Logger {
	if l := ports.LoggerFromContext(ctx); l != nil {
		return l
	}
	return e.logger
}

func (e *Executor) runGroup(ctx context.Context, logger ports.Logger, id target.ID, ops []FileOperation) (int, error) {
	count := 0
	for _, op := range ops {
		logger.Debug(ctx, "applying operation", ports.F("target", string(id)), ports.F("op", op.String()))
		if err := e.apply(op); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (e *Executor) apply(op FileOperation) error {
	dest := op.Target.Path()
	switch op.Kind {
	case OpCopyFile:
		return e.fs.CopyFile(op.Source, dest)
	case OpCopyDir:
		return e.fs.CopyDir(op.Source, dest)
	case OpRemoveFile:
		if !e.fs.Exists(dest) {
			return nil
		}
		if err := e.fs.Remove(dest); err != nil {
			return err
		}
	case OpRemoveDir:
		if !e.fs.Exists(dest) {
			return nil
		}
		if err := e.fs.RemoveAll(dest); err != nil {
			return err
		}
	}
	if op.Component != component.KindInstruction {
		e.pruneEmptyParents(dest, op.Target.Root())
	}
	return nil
}

// pruneEmptyParents removes the directories above a removed component
// that it left empty, up to the target base. It never removes root.
func (e *Executor) pruneEmptyParents(path, root string) {
	dir := filepath.Dir(path)
	for i := 0; i < pruneDepth; i++ {
		if dir == root || !within(dir, root) {
			return
		}
		entries, err := e.fs.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := e.fs.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
