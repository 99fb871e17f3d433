package container

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Constructor produces a new instance with no arguments.
type Constructor func() (any, error)

// Registry is the capability table of a Container: which type names resolve
// to which TypeIdentity, and which identities have a zero-argument
// constructor. It is normally filled once at startup.
type Registry struct {
	mu sync.RWMutex

	// name → identity (identity strings map to themselves)
	names map[string]TypeIdentity

	// identity → constructor; a nil entry marks a declared type without one
	ctors map[TypeIdentity]Constructor

	// name → one-shot loader run on first miss
	deferred map[string]func()
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		names:    make(map[string]TypeIdentity),
		ctors:    make(map[TypeIdentity]Constructor),
		deferred: make(map[string]func()),
	}
}

// Register records ctor as the zero-argument constructor for T.
//
//	container.Register(reg, func() *Ledger { return &Ledger{} })
func Register[T any](r *Registry, ctor func() T) TypeIdentity {
	id := IdentityOf[T]()
	r.RegisterFunc(id, func() (any, error) { return ctor(), nil })
	return id
}

// RegisterE is Register for constructors that can fail.
func RegisterE[T any](r *Registry, ctor func() (T, error)) TypeIdentity {
	id := IdentityOf[T]()
	r.RegisterFunc(id, func() (any, error) {
		v, err := ctor()
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	return id
}

// Declare makes T resolvable by name without giving it a constructor.
func Declare[T any](r *Registry) TypeIdentity {
	id := IdentityOf[T]()
	r.Declare(id)
	return id
}

// RegisterFunc records ctor under id, replacing any previous constructor.
func (r *Registry) RegisterFunc(id TypeIdentity, ctor Constructor) {
	if ctor == nil {
		panic(fmt.Sprintf("container: nil constructor for [%s]", id))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[string(id)] = id
	r.ctors[id] = ctor
}

// Declare records id as a known type. An existing constructor is kept.
func (r *Registry) Declare(id TypeIdentity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[string(id)] = id
	if _, ok := r.ctors[id]; !ok {
		r.ctors[id] = nil
	}
}

// Alias registers an alternative name for id.
//
//	reg.Alias(container.IdentityOf[*config.Config](), "config")
func (r *Registry) Alias(id TypeIdentity, name string) {
	if string(id) == name {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[name] = id
}

// Defer installs a loader run the first time name misses in Resolve or id
// misses in Constructor. The loader runs at most once per name.
func (r *Registry) Defer(name string, load func()) {
	var once sync.Once
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deferred[name] = func() { once.Do(load) }
}

// Resolve maps a type name to its TypeIdentity.
func (r *Registry) Resolve(name string) (TypeIdentity, error) {
	if strings.TrimSpace(name) == "" {
		return "", &InvalidTypeNameError{Name: name}
	}
	if id, ok := r.lookupName(name); ok {
		return id, nil
	}
	if r.runDeferred(name) {
		if id, ok := r.lookupName(name); ok {
			return id, nil
		}
	}
	return "", &InvalidTypeNameError{Name: name}
}

// Constructor returns the zero-argument constructor for id, if any.
func (r *Registry) Constructor(id TypeIdentity) (Constructor, bool) {
	if ctor, ok := r.lookupCtor(id); ok {
		return ctor, true
	}
	if r.runDeferred(string(id)) {
		return r.lookupCtor(id)
	}
	return nil, false
}

// Known reports whether id has been registered or declared.
func (r *Registry) Known(id TypeIdentity) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ctors[id]
	return ok
}

// Names returns every resolvable name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names))
	for name := range r.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) lookupName(name string) (TypeIdentity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.names[name]
	return id, ok
}

func (r *Registry) lookupCtor(id TypeIdentity) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor := r.ctors[id]
	return ctor, ctor != nil
}

// runDeferred runs the loader for name outside the lock and reports
// whether one existed.
func (r *Registry) runDeferred(name string) bool {
	r.mu.RLock()
	load, ok := r.deferred[name]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	load()
	return true
}
