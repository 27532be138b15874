// Package marketplace validates marketplace registrations and converts
// between the display and stored forms of their sources.
package marketplace

import (
	"errors"
	"fmt"
	"strings"
)

// maxNameLength bounds marketplace names.
const maxNameLength = 64

// GitHubPrefix marks a stored GitHub source.
const GitHubPrefix = "github:"

// Validation errors.
var (
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrInvalidSource = errors.New("invalid marketplace source")
)

// NameError describes an invalid marketplace name.
type NameError struct {
	Name   string
	Reason string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("invalid marketplace name %q: %s", e.Name, e.Reason)
}

// IsNameError reports whether err is a NameError.
func IsNameError(err error) bool {
	var ne *NameError
	return errors.As(err, &ne)
}

// NormalizeName lowercases name and validates it.
func NormalizeName(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if err := ValidateName(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// ValidateName accepts [a-z0-9._-], at most 64 characters, not starting
// or ending with a period or hyphen.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLength {
		return &NameError{Name: name, Reason: fmt.Sprintf("too long (max %d characters)", maxNameLength)}
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '.' && c != '_' && c != '-' {
			return &NameError{Name: name, Reason: fmt.Sprintf("invalid character %q, only [a-z0-9._-] are allowed", c)}
		}
	}
	first, last := name[0], name[len(name)-1]
	if first == '.' || first == '-' {
		return &NameError{Name: name, Reason: "cannot start with a period or hyphen"}
	}
	if last == '.' || last == '-' {
		return &NameError{Name: name, Reason: "cannot end with a period or hyphen"}
	}
	return nil
}

// NormalizeSourcePath cleans a sub-path inside a marketplace repository.
// It returns "" for the repository root.
func NormalizeSourcePath(path string) (string, error) {
	if strings.Contains(path, `\`) {
		return "", fmt.Errorf("backslash is not allowed in path %q, use forward slash (/) instead", path)
	}
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("path %q cannot contain '..'", path)
	}

	normalized := strings.Trim(path, "/")
	normalized = strings.TrimPrefix(normalized, "./")
	normalized = strings.Trim(normalized, "/")
	if normalized == "." {
		return "", nil
	}
	return normalized, nil
}

// ToDisplaySource strips the stored "github:" prefix.
func ToDisplaySource(internal string) string {
	return strings.TrimPrefix(internal, GitHubPrefix)
}

// ToInternalSource converts user input such as "owner/repo" into the
// stored "github:owner/repo" form.
func ToInternalSource(display string) string {
	if strings.HasPrefix(display, GitHubPrefix) {
		return display
	}
	return GitHubPrefix + display
}

// ParseSource splits a stored or display source into owner and repo.
func ParseSource(source string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(ToDisplaySource(strings.TrimSpace(source)), "/")
	repo = strings.TrimSuffix(repo, ".git")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("%w: %q (expected owner/repo)", ErrInvalidSource, source)
	}
	return owner, repo, nil
}
