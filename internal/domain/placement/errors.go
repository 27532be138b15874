package placement

import (
	"errors"
	"fmt"
)

// PathEscapeError indicates that a candidate path leaves its root, either
// lexically or after resolving symbolic links.
type PathEscapeError struct {
	Path string
	Root string
	// Resolved is set when the escape was detected after symlink resolution.
	Resolved string
}

func (e *PathEscapeError) Error() string {
	if e.Resolved != "" {
		return fmt.Sprintf("path %q resolves to %q outside of %q", e.Path, e.Resolved, e.Root)
	}
	return fmt.Sprintf("path %q escapes %q", e.Path, e.Root)
}

// IsPathEscape reports whether err is a PathEscapeError.
func IsPathEscape(err error) bool {
	var e *PathEscapeError
	return errors.As(err, &e)
}

// ErrInvalidOrigin is returned when an encoded origin cannot be decoded.
var ErrInvalidOrigin = errors.New("invalid plugin origin")
