package placement

import (
	"strings"

	"github.com/felixgeelhaar/plm/internal/domain/component"
)

// ComponentRef names a component without its source path.
type ComponentRef struct {
	Kind component.Kind
	Name string
}

// Roots carries the two ambient directories placement depends on. Nothing
// in the engine reads HOME or the working directory on its own.
type Roots struct {
	Home    string
	Project string
}

// Context is a request for a component's destination in one target.
type Context struct {
	Component ComponentRef
	Origin    Origin
	Scope     component.Scope
	Roots     Roots
}

// LocationKind tells whether a destination is a file or a directory.
type LocationKind int

const (
	LocationFile LocationKind = iota
	LocationDir
)

// Location is a resolved destination.
type Location struct {
	Kind LocationKind
	Path string
}

// File returns a file location.
func File(path string) Location { return Location{Kind: LocationFile, Path: path} }

// Dir returns a directory location.
func Dir(path string) Location { return Location{Kind: LocationDir, Path: path} }

// IsDir reports whether the location is a directory.
func (l Location) IsDir() bool { return l.Kind == LocationDir }

func (l Location) String() string {
	if l.IsDir() {
		return "dir:" + l.Path
	}
	return "file:" + l.Path
}

// ParsePlacement extracts marketplace and plugin from a listed entry such
// as "marketplace/plugin/component". ok is false unless both leading
// segments are present and non-empty.
func ParsePlacement(entry string) (marketplace, plugin string, ok bool) {
	parts := strings.SplitN(entry, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// ParsePlacedEntry splits "marketplace/plugin/name" into origin and
// component name. Entries without that shape, such as "AGENTS.md", come
// back as origin-less names.
func ParsePlacedEntry(entry string) (origin Origin, name string, hasOrigin bool) {
	parts := strings.SplitN(entry, "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Origin{}, entry, false
	}
	return Origin{Marketplace: parts[0], Plugin: parts[1]}, parts[2], true
}
