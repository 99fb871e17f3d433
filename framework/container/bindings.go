package container

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a value for an explicit binding. It receives the Bindings
// so it can resolve other bound values.
type Factory func(b *Bindings) (any, error)

// binding holds a registered factory and whether it is a singleton.
type binding struct {
	factory   Factory
	singleton bool
}

// Bindings is an explicit supplier map: identities bound to factories or
// pre-built instances. It implements Delegate, so it is usually the parent
// of a Container and overrides the container's own constructors.
//
// A miss returns (nil, nil). Bindings are meant to be registered at startup;
// re-binding an identity whose singleton was already resolved does not
// replace the memoized instance.
type Bindings struct {
	mu sync.RWMutex

	// identity → binding
	bindings map[TypeIdentity]*binding

	// identity → pre-built instance
	instances map[TypeIdentity]any

	// alias → identity
	aliases map[string]TypeIdentity

	singletons *InstanceStore
}

// NewBindings creates an empty supplier map.
func NewBindings() *Bindings {
	return &Bindings{
		bindings:   make(map[TypeIdentity]*binding),
		instances:  make(map[TypeIdentity]any),
		aliases:    make(map[string]TypeIdentity),
		singletons: NewInstanceStore(),
	}
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory: every Get and Create calls it.
func (b *Bindings) Bind(id TypeIdentity, factory Factory) {
	b.bind(id, factory, false)
}

// Singleton registers a factory whose result is memoized by Get.
// Create still calls the factory each time.
func (b *Bindings) Singleton(id TypeIdentity, factory Factory) {
	b.bind(id, factory, true)
}

// Instance registers a pre-built value, replacing any factory for id.
//
//	b.Instance(container.IdentityOf[*config.Config](), cfg)
func (b *Bindings) Instance(id TypeIdentity, instance any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.bindings, id)
	b.instances[id] = instance
}

// Alias registers an alternative name for id, used by the *Named lookups.
func (b *Bindings) Alias(id TypeIdentity, name string) {
	if string(id) == name {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", name))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.aliases[name] = id
}

func (b *Bindings) bind(id TypeIdentity, factory Factory, singleton bool) {
	if factory == nil {
		panic(fmt.Sprintf("container: nil factory for [%s]", id))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.instances, id)
	b.bindings[id] = &binding{factory: factory, singleton: singleton}
}

// BindType registers a transient factory for T.
func BindType[T any](b *Bindings, factory func(*Bindings) (T, error)) TypeIdentity {
	id := IdentityOf[T]()
	b.Bind(id, adaptFactory(factory))
	return id
}

// SingletonType registers a memoized factory for T.
func SingletonType[T any](b *Bindings, factory func(*Bindings) (T, error)) TypeIdentity {
	id := IdentityOf[T]()
	b.Singleton(id, adaptFactory(factory))
	return id
}

// InstanceOf registers v as the instance for T.
func InstanceOf[T any](b *Bindings, v T) TypeIdentity {
	id := IdentityOf[T]()
	b.Instance(id, v)
	return id
}

func adaptFactory[T any](factory func(*Bindings) (T, error)) Factory {
	return func(b *Bindings) (any, error) {
		v, err := factory(b)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Create returns the bound instance or a fresh factory result.
func (b *Bindings) Create(id TypeIdentity) (any, error) {
	inst, bd := b.lookup(id)
	if inst != nil {
		return inst, nil
	}
	if bd == nil {
		return nil, nil
	}
	return invoke(id, func() (any, error) { return bd.factory(b) })
}

// Get returns the bound instance, the memoized singleton, or a fresh
// transient factory result.
func (b *Bindings) Get(id TypeIdentity) (any, error) {
	inst, bd := b.lookup(id)
	if inst != nil {
		return inst, nil
	}
	if bd == nil {
		return nil, nil
	}
	build := func() (any, error) {
		return invoke(id, func() (any, error) { return bd.factory(b) })
	}
	if !bd.singleton {
		return build()
	}
	v, _, err := b.singletons.LoadOrConstruct(id, build)
	return v, err
}

// CreateNamed is Create for an identity string or alias.
func (b *Bindings) CreateNamed(name string) (any, error) {
	return b.Create(b.canonical(name))
}

// GetNamed is Get for an identity string or alias.
func (b *Bindings) GetNamed(name string) (any, error) {
	return b.Get(b.canonical(name))
}

// Bound reports whether id has a factory or an instance.
func (b *Bindings) Bound(id TypeIdentity) bool {
	inst, bd := b.lookup(id)
	return inst != nil || bd != nil
}

// Keys returns all bound identities, sorted.
func (b *Bindings) Keys() []TypeIdentity {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]TypeIdentity, 0, len(b.bindings)+len(b.instances))
	for k := range b.bindings {
		out = append(out, k)
	}
	for k := range b.instances {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (b *Bindings) lookup(id TypeIdentity) (any, *binding) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if inst, ok := b.instances[id]; ok && !isNil(inst) {
		return inst, nil
	}
	return nil, b.bindings[id]
}

// canonical resolves an alias to its identity.
func (b *Bindings) canonical(name string) TypeIdentity {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if id, ok := b.aliases[name]; ok {
		return id
	}
	return TypeIdentity(name)
}
