package marketplace

import (
	"errors"
	"fmt"
	"sort"
)

// Registry errors.
var (
	ErrExists   = errors.New("marketplace already exists")
	ErrNotFound = errors.New("marketplace not found")
)

// Registration is one registered marketplace. Source is stored in its
// internal "github:owner/repo" form.
type Registration struct {
	Name       string `yaml:"name" toml:"name"`
	Source     string `yaml:"source" toml:"source"`
	SourcePath string `yaml:"source_path,omitempty" toml:"source_path,omitempty"`
}

// NewRegistration validates user input and builds a Registration. An empty
// name defaults to the repository name.
func NewRegistration(source, name, sourcePath string) (Registration, error) {
	_, repo, err := ParseSource(source)
	if err != nil {
		return Registration{}, err
	}
	if name == "" {
		name = repo
	}
	name, err = NormalizeName(name)
	if err != nil {
		return Registration{}, err
	}
	path, err := NormalizeSourcePath(sourcePath)
	if err != nil {
		return Registration{}, err
	}
	return Registration{Name: name, Source: ToInternalSource(source), SourcePath: path}, nil
}

// DisplaySource returns the source as users type it.
func (r Registration) DisplaySource() string {
	return ToDisplaySource(r.Source)
}

// Registry is an ordered set of registrations keyed by name.
type Registry struct {
	entries []Registration
}

// NewRegistry creates a Registry from stored entries.
func NewRegistry(entries []Registration) *Registry {
	r := &Registry{entries: append([]Registration(nil), entries...)}
	r.sort()
	return r
}

// Add registers reg, failing when the name is taken.
func (r *Registry) Add(reg Registration) error {
	if r.Exists(reg.Name) {
		return fmt.Errorf("%w: %q (use --name to choose a different name)", ErrExists, reg.Name)
	}
	r.entries = append(r.entries, reg)
	r.sort()
	return nil
}

// Remove unregisters name.
func (r *Registry) Remove(name string) error {
	for i, e := range r.entries {
		if e.Name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Get returns the registration called name.
func (r *Registry) Get(name string) (Registration, bool) {
	for _, e := range r.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Registration{}, false
}

// Exists reports whether name is registered.
func (r *Registry) Exists(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns the registrations sorted by name.
func (r *Registry) List() []Registration {
	return append([]Registration(nil), r.entries...)
}

func (r *Registry) sort() {
	sort.Slice(r.entries, func(i, j int) bool { return r.entries[i].Name < r.entries[j].Name })
}
