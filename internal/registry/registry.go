// Package registry maps resource names to entity descriptors.
//
// Descriptors are registered once at startup and the registry is then
// frozen; after that it is read-only and safe for concurrent use without
// locking. Names resolve case-insensitively by title-casing the requested
// name, so "note", "NOTE" and "Note" all resolve to the Note descriptor.
package registry

import (
	"fmt"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kbukum/recordkit/errors"
)

// Registry holds the statically registered descriptors.
type Registry struct {
	byName map[string]*Descriptor
	order  []string
	frozen bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register adds a descriptor. It fails once the registry is frozen or when
// the title-cased name is already taken.
func (r *Registry) Register(d *Descriptor) error {
	if r.frozen {
		return fmt.Errorf("registry: frozen, cannot register %q", d.Name)
	}
	if d.Name == "" || d.newRecord == nil || d.list == nil {
		return fmt.Errorf("registry: descriptor %q is incomplete, build it with Entity", d.Name)
	}
	key := canonical(d.Name)
	if _, exists := r.byName[key]; exists {
		return fmt.Errorf("registry: resource %q already registered", key)
	}
	r.byName[key] = d
	r.order = append(r.order, key)
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(d *Descriptor) *Registry {
	if err := r.Register(d); err != nil {
		panic(err)
	}
	return r
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() *Registry {
	r.frozen = true
	return r
}

// Resolve returns the descriptor registered under name. Matching is exact
// after title-casing; unknown names fail with NOT_FOUND.
func (r *Registry) Resolve(name string) (*Descriptor, error) {
	d, ok := r.byName[canonical(name)]
	if !ok {
		return nil, errors.NotFound("resource")
	}
	return d, nil
}

// Names returns the registered resource names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Models returns a zero value of every registered entity, in registration
// order, for schema migration.
func (r *Registry) Models() []any {
	models := make([]any, 0, len(r.order))
	for _, name := range r.order {
		models = append(models, r.byName[name].New())
	}
	return models
}

func canonical(name string) string {
	return cases.Title(language.Und).String(name)
}
