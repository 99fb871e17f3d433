package container

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the registrations of one feature.
//
// Register fills the registry (constructors, names) and the bindings
// (explicit overrides). Boot runs after every eager provider has been
// registered, so it may resolve anything.
//
//	type LedgerProvider struct{ container.BaseProvider }
//
//	func (p *LedgerProvider) Register(types *container.Registry, b *container.Bindings) {
//	    id := container.Register(types, func() *Ledger { return &Ledger{} })
//	    types.Alias(id, "ledger")
//	}
type ServiceProvider interface {
	// Register adds constructors and bindings. Do NOT resolve here.
	Register(types *Registry, bindings *Bindings)

	// Boot is called after all eager providers are registered.
	Boot(c *Container) error

	// Provides returns the names this provider registers. Only used
	// for deferred providers.
	Provides() []string

	// IsDeferred returns true if the provider should be registered on
	// first lookup of one of its Provides() names.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders against one root
// container, its registry and its bindings.
type ProviderRegistry struct {
	mu sync.Mutex

	root     *Container
	types    *Registry
	bindings *Bindings
	log      *zap.Logger

	eager      []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool

	bootOnce sync.Once
	bootErr  error
}

// NewProviderRegistry creates a registry for root. types and bindings must
// be the ones root resolves through.
func NewProviderRegistry(root *Container, types *Registry, bindings *Bindings, log *zap.Logger) *ProviderRegistry {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProviderRegistry{
		root:       root,
		types:      types,
		bindings:   bindings,
		log:        log,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Eager providers are registered immediately, and
// booted immediately when the registry has already booted. Registering the
// same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		r.mu.Unlock()
		r.deferProvider(provider)
		return nil
	}

	provider.Register(r.types, r.bindings)
	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	if booted {
		return r.boot(provider)
	}
	return nil
}

// deferProvider installs a loader for every name the provider provides.
// The first lookup of any of them registers the provider, and boots it when
// the registry has already booted.
func (r *ProviderRegistry) deferProvider(provider ServiceProvider) {
	var once sync.Once
	load := func() {
		once.Do(func() {
			provider.Register(r.types, r.bindings)
			r.log.Debug("deferred provider loaded", zap.String("provider", fmt.Sprintf("%T", provider)))

			r.mu.Lock()
			booted := r.booted
			r.mu.Unlock()
			if booted {
				if err := r.boot(provider); err != nil {
					r.log.Error("deferred provider boot failed", zap.Error(err))
				}
			}
		})
	}
	for _, name := range provider.Provides() {
		r.types.Defer(name, load)
	}
}

// Boot calls Boot on every eager provider, in registration order. It stops
// at the first error. Later calls do not boot again; they return the first
// call's result.
func (r *ProviderRegistry) Boot() error {
	r.bootOnce.Do(func() {
		r.mu.Lock()
		r.booted = true
		providers := append([]ServiceProvider(nil), r.eager...)
		r.mu.Unlock()

		for _, provider := range providers {
			if err := r.boot(provider); err != nil {
				r.bootErr = err
				return
			}
		}
	})
	return r.bootErr
}

func (r *ProviderRegistry) boot(provider ServiceProvider) error {
	if err := provider.Boot(r.root); err != nil {
		return fmt.Errorf("boot %T: %w", provider, err)
	}
	return nil
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
