package container

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Delegate is a parent consulted before a Container's own logic. A nil
// result with a nil error, or a NoSuchConstructor, NotFound or
// InvalidTypeName error, is a miss; any other error is surfaced as is.
//
// *Container and *Bindings implement Delegate.
type Delegate interface {
	Create(id TypeIdentity) (any, error)
	Get(id TypeIdentity) (any, error)
	CreateNamed(name string) (any, error)
	GetNamed(name string) (any, error)
}

// Option configures a Container.
type Option func(*Container)

// WithDelegate sets the parent consulted before local construction.
func WithDelegate(d Delegate) Option {
	return func(c *Container) { c.delegate = d }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// WithObserver sets the resolution observer, typically a metrics collector.
func WithObserver(o Observer) Option {
	return func(c *Container) {
		if o != nil {
			c.observer = o
		}
	}
}

// Container provisions instances by TypeIdentity.
//
// Create always constructs (or asks the delegate); Get memoizes so every
// later Get for the same identity returns the identical instance. The
// delegate, when present, takes precedence over both.
type Container struct {
	id       string
	types    *Registry
	store    *InstanceStore
	delegate Delegate // immutable after New

	log      *zap.Logger
	observer Observer
}

// New creates a container over types. A nil registry behaves as empty.
//
//	reg := container.NewRegistry()
//	container.Register(reg, func() *Ledger { return &Ledger{} })
//	c := container.New(reg, container.WithDelegate(bindings))
func New(types *Registry, opts ...Option) *Container {
	if types == nil {
		types = NewRegistry()
	}
	c := &Container{
		id:       uuid.NewString(),
		types:    types,
		store:    NewInstanceStore(),
		log:      zap.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(zap.String("container", c.id))
	return c
}

// Child creates a container over types that delegates to c. Options not
// given are inherited from c.
func (c *Container) Child(types *Registry, opts ...Option) *Container {
	base := []Option{WithLogger(c.log), WithObserver(c.observer), WithDelegate(c)}
	return New(types, append(base, opts...)...)
}

// ID returns the container's unique id.
func (c *Container) ID() string { return c.id }

// Types returns the container's registry.
func (c *Container) Types() *Registry { return c.types }

// HasDelegate reports whether a parent is configured.
func (c *Container) HasDelegate() bool { return c.delegate != nil }

// ── Create ────────────────────────────────────────────────────────────────────

// Create returns a new instance for id. It is never memoized.
func (c *Container) Create(id TypeIdentity) (any, error) {
	v, src, err := c.create(id)
	return c.report(OpCreate, id, v, src, err)
}

// CreateNamed asks the delegate for name first, then resolves name locally
// and calls Create.
func (c *Container) CreateNamed(name string) (any, error) {
	v, id, src, err := c.named(OpCreate, name)
	return c.report(OpCreate, id, v, src, err)
}

// ── Get ───────────────────────────────────────────────────────────────────────

// Get returns the memoized instance for id, constructing it on first use.
// Concurrent first calls for the same id share a single construction.
func (c *Container) Get(id TypeIdentity) (any, error) {
	v, src, err := c.get(id)
	return c.report(OpGet, id, v, src, err)
}

// GetNamed asks the delegate for name first, then resolves name locally and
// calls Get.
func (c *Container) GetNamed(name string) (any, error) {
	v, id, src, err := c.named(OpGet, name)
	return c.report(OpGet, id, v, src, err)
}

// ── internals ─────────────────────────────────────────────────────────────────

// The lower-case resolution methods never touch the observer, so a parent
// Container answering its child reports nothing; only the container the
// caller asked reports the outcome, once.

func (c *Container) create(id TypeIdentity) (any, Source, error) {
	v, src, err := c.produce(id)
	if err == nil && v == nil {
		err = &InstantiationError{Type: id, Cause: ErrNilInstance}
	}
	if err != nil {
		return nil, src, err
	}
	return v, src, nil
}

func (c *Container) get(id TypeIdentity) (any, Source, error) {
	if c.delegate != nil {
		v, err := c.askDelegate(OpGet, id)
		if err != nil && !isMiss(err) {
			return nil, SourceDelegate, err
		}
		if err == nil && !isNil(v) {
			c.log.Debug("resolved by delegate", zap.String("op", string(OpGet)), zap.Stringer("type", id))
			return v, SourceDelegate, nil
		}
	}

	src := SourceStore
	v, constructed, err := c.store.LoadOrConstruct(id, func() (any, error) {
		v, s, err := c.produce(id)
		src = s
		return v, err
	})
	if err != nil {
		return nil, src, err
	}
	if v == nil {
		return nil, src, &NotFoundError{Type: id}
	}
	if !constructed {
		src = SourceStore
	}
	return v, src, nil
}

// named runs a by-name lookup: the delegate's own name mapping wins, then
// the local registry. The returned identity is empty when the name did not
// resolve.
func (c *Container) named(op Operation, name string) (any, TypeIdentity, Source, error) {
	if c.delegate != nil {
		v, err := c.askDelegateNamed(op, name)
		if err != nil && !isMiss(err) {
			return nil, "", SourceDelegate, err
		}
		if err == nil && !isNil(v) {
			c.log.Debug("resolved by delegate", zap.String("op", string(op)), zap.String("name", name))
			return v, TypeKey(v), SourceDelegate, nil
		}
	}

	id, err := c.types.Resolve(name)
	if err != nil {
		return nil, "", "", err
	}
	var v any
	var src Source
	if op == OpGet {
		v, src, err = c.get(id)
	} else {
		v, src, err = c.create(id)
	}
	return v, id, src, err
}

// produce runs the create path: delegate first, then the registered
// constructor. A nil value with a nil error means nothing was produced.
func (c *Container) produce(id TypeIdentity) (any, Source, error) {
	if c.delegate != nil {
		v, err := c.askDelegate(OpCreate, id)
		if err != nil && !isMiss(err) {
			return nil, SourceDelegate, err
		}
		if err == nil && !isNil(v) {
			c.log.Debug("resolved by delegate", zap.String("op", string(OpCreate)), zap.Stringer("type", id))
			return v, SourceDelegate, nil
		}
	}

	ctor, ok := c.types.Constructor(id)
	if !ok {
		return nil, SourceConstructor, &NoSuchConstructorError{Type: id}
	}

	start := time.Now()
	v, err := invoke(id, ctor)
	elapsed := time.Since(start)
	c.observer.Constructed(id, elapsed, err)
	if err == nil {
		c.log.Debug("constructed", zap.Stringer("type", id), zap.Duration("elapsed", elapsed))
	}
	return v, SourceConstructor, err
}

// askDelegate calls the delegate by identity. A parent Container is asked
// through its internal path so its misses are not reported as failures.
func (c *Container) askDelegate(op Operation, id TypeIdentity) (any, error) {
	if parent, ok := c.delegate.(*Container); ok {
		var v any
		var err error
		if op == OpGet {
			v, _, err = parent.get(id)
		} else {
			v, _, err = parent.create(id)
		}
		return v, err
	}
	if op == OpGet {
		return c.delegate.Get(id)
	}
	return c.delegate.Create(id)
}

func (c *Container) askDelegateNamed(op Operation, name string) (any, error) {
	if parent, ok := c.delegate.(*Container); ok {
		v, _, _, err := parent.named(op, name)
		return v, err
	}
	if op == OpGet {
		return c.delegate.GetNamed(name)
	}
	return c.delegate.CreateNamed(name)
}

// report hands the outcome of a public call to the log and the observer.
func (c *Container) report(op Operation, id TypeIdentity, v any, src Source, err error) (any, error) {
	if err != nil {
		return nil, c.fail(op, id, err)
	}
	c.observer.Resolved(op, id, src)
	return v, nil
}

func (c *Container) fail(op Operation, id TypeIdentity, err error) error {
	// a miss is an expected answer for callers that fall back elsewhere
	level := zap.WarnLevel
	if isMiss(err) {
		level = zap.DebugLevel
	}
	if ce := c.log.Check(level, "resolution failed"); ce != nil {
		ce.Write(zap.String("op", string(op)), zap.Stringer("type", id), zap.Error(err))
	}
	c.observer.Failed(op, id, err)
	return err
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Get is a generic helper that calls (*Container).Get with IdentityOf[T]
// and type-asserts the result.
//
//	ledger, err := container.Get[*Ledger](c)
func Get[T any](c *Container) (T, error) {
	return typed[T](c.Get(IdentityOf[T]()))
}

// Create is the generic form of (*Container).Create.
func Create[T any](c *Container) (T, error) {
	return typed[T](c.Create(IdentityOf[T]()))
}

// MustGet is like Get but panics on error.
func MustGet[T any](c *Container) T {
	v, err := Get[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

func typed[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &WrongTypeError{Type: IdentityOf[T](), Got: TypeKey(v)}
	}
	return t, nil
}
