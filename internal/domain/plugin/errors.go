package plugin

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	// ErrEmptyPluginName indicates a plugin name was empty.
	ErrEmptyPluginName = errors.New("plugin name cannot be empty")
	// ErrDowngrade indicates an install would replace a newer cached version.
	ErrDowngrade = errors.New("refusing to downgrade plugin")
)

// NotFoundError indicates a plugin is not in the cache.
type NotFoundError struct {
	Name        string
	Marketplace string
	Path        string
}

func (e *NotFoundError) Error() string {
	if e.Marketplace != "" {
		return fmt.Sprintf("plugin %q from marketplace %q not found at %s", e.Name, e.Marketplace, e.Path)
	}
	return fmt.Sprintf("plugin %q not found at %s", e.Name, e.Path)
}

// AmbiguousError indicates a plugin name matches cached plugins in more
// than one marketplace.
type AmbiguousError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("plugin %q is ambiguous, specify one of: %s", e.Name, strings.Join(e.Candidates, ", "))
}

// ManifestError indicates plugin.json is missing or unreadable.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// ValidationError collects multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// Add adds an error message to the collection.
func (e *ValidationError) Add(msg string) {
	e.Errors = append(e.Errors, msg)
}

// Addf adds a formatted error message to the collection.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are validation errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// PathTraversalError indicates a path leaves the plugin directory.
type PathTraversalError struct {
	Path string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("path traversal detected in: %s", e.Path)
}

// IsNotFound returns true if the error indicates a missing plugin.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAmbiguous returns true if the error is an ambiguous plugin name.
func IsAmbiguous(err error) bool {
	var ae *AmbiguousError
	return errors.As(err, &ae)
}

// IsManifestError returns true if the error is a manifest failure.
func IsManifestError(err error) bool {
	var me *ManifestError
	return errors.As(err, &me)
}

// IsValidationError returns true if the error is a validation error.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsPathTraversal returns true if the error indicates path traversal.
func IsPathTraversal(err error) bool {
	var traversalErr *PathTraversalError
	return errors.As(err, &traversalErr)
}
