package deploy

import (
	"fmt"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/domain/target"
)

// OpKind is the kind of a file operation.
type OpKind int

const (
	OpCopyFile OpKind = iota
	OpCopyDir
	OpRemoveFile
	OpRemoveDir
)

func (k OpKind) String() string {
	switch k {
	case OpCopyFile:
		return "copy-file"
	case OpCopyDir:
		return "copy-dir"
	case OpRemoveFile:
		return "remove-file"
	case OpRemoveDir:
		return "remove-dir"
	default:
		return "unknown"
	}
}

// FileOperation is one filesystem change. Source is a trusted plugin cache
// path and is empty for removals; Target is always a validated ScopedPath.
type FileOperation struct {
	Kind      OpKind
	Source    string
	Target    placement.ScopedPath
	Component component.Kind
}

// CopyFile returns a file copy operation.
func CopyFile(source string, dest placement.ScopedPath, kind component.Kind) FileOperation {
	return FileOperation{Kind: OpCopyFile, Source: source, Target: dest, Component: kind}
}

// CopyDir returns a recursive directory copy operation.
func CopyDir(source string, dest placement.ScopedPath, kind component.Kind) FileOperation {
	return FileOperation{Kind: OpCopyDir, Source: source, Target: dest, Component: kind}
}

// RemoveFile returns a file removal operation.
func RemoveFile(path placement.ScopedPath, kind component.Kind) FileOperation {
	return FileOperation{Kind: OpRemoveFile, Target: path, Component: kind}
}

// RemoveDir returns a directory tree removal operation.
func RemoveDir(path placement.ScopedPath, kind component.Kind) FileOperation {
	return FileOperation{Kind: OpRemoveDir, Target: path, Component: kind}
}

// IsRemoval reports whether the operation deletes its target.
func (o FileOperation) IsRemoval() bool {
	return o.Kind == OpRemoveFile || o.Kind == OpRemoveDir
}

func (o FileOperation) String() string {
	if o.IsRemoval() {
		return fmt.Sprintf("%s %s", o.Kind, o.Target.Path())
	}
	return fmt.Sprintf("%s %s -> %s", o.Kind, o.Source, o.Target.Path())
}

// TargetOperation pairs a file operation with the target it belongs to.
type TargetOperation struct {
	Target    target.ID
	Operation FileOperation
}
