// Package container provides a lazy, concurrency-safe object-provisioning
// container with an optional parent delegate.
//
// # Overview
//
// A Container hands out instances by TypeIdentity (a fully-qualified type
// name) or by any name its Registry resolves. It has exactly two creation
// modes:
//
//   - Create: always a fresh construction, never memoized
//   - Get: constructed once, then the identical instance forever
//
// Go has no runtime constructor reflection, so construction goes through an
// explicit capability table: the Registry maps each identity to a
// zero-argument Constructor registered at startup.
//
// # Registering types
//
//	reg := container.NewRegistry()
//
//	// constructor, resolvable by its identity "*github.com/acme/billing.Ledger"
//	id := container.Register(reg, func() *Ledger { return &Ledger{} })
//
//	// short name
//	reg.Alias(id, "ledger")
//
//	// constructor that can fail
//	container.RegisterE(reg, func() (*Client, error) { return dial() })
//
//	// known type without a constructor (Create/Get fail with NoSuchConstructor)
//	container.Declare[Clock](reg)
//
// # Resolving
//
//	c := container.New(reg)
//
//	a, _ := c.Get(id)
//	b, _ := c.Get(id)            // a == b
//	x, _ := c.Create(id)         // x != a
//
//	ledger, err := container.Get[*Ledger](c)
//	raw, err := c.GetNamed("ledger")
//
// Concurrent first calls to Get for the same identity share a single
// construction; Get calls for different identities never wait on each
// other. A failed construction is not remembered: the next Get tries again.
//
// # Delegates
//
// A container may have one parent Delegate, consulted before anything else.
// When the parent produces an instance, that instance wins and the local
// constructor is never called. Bindings is the usual parent: an explicit
// supplier map with Bind / Singleton / Instance.
//
//	b := container.NewBindings()
//	container.InstanceOf[*Ledger](b, fixtureLedger)
//
//	c := container.New(reg, container.WithDelegate(b))
//	l, _ := container.Get[*Ledger](c) // fixtureLedger
//
// Containers are delegates too, so chains compose:
//
//	child := parent.Child(childRegistry)
//
// Lookups by name ask the delegate first as well, so a name the parent maps
// resolves to the parent's type even when the child maps it elsewhere.
//
// # Errors
//
// Every failure is one of four kinds, matchable with errors.Is:
//
//	ErrInvalidTypeName   name not resolvable            (*InvalidTypeNameError)
//	ErrNoSuchConstructor no constructor, no delegate hit (*NoSuchConstructorError)
//	ErrInstantiation     constructor failed or panicked  (*InstantiationError, cause via Unwrap)
//	ErrNotFound          Get produced nothing            (*NotFoundError)
//
// # Service Providers
//
//	type LedgerProvider struct{ container.BaseProvider }
//
//	func (p *LedgerProvider) Register(types *container.Registry, b *container.Bindings) {
//	    types.Alias(container.Register(types, NewLedger), "ledger")
//	}
//
//	providers := container.NewProviderRegistry(root, reg, bindings, logger)
//	providers.Register(&LedgerProvider{})
//	providers.Boot()
//
// Deferred providers (IsDeferred true) register on the first lookup of one
// of their Provides() names.
package container
