package container

import "time"

// Operation names the public entry point a resolution went through.
type Operation string

const (
	OpCreate Operation = "create"
	OpGet    Operation = "get"
)

// Source names where a resolved instance came from.
type Source string

const (
	SourceDelegate    Source = "delegate"
	SourceStore       Source = "store"
	SourceConstructor Source = "constructor"
)

// Observer receives resolution events. Implementations must be safe for
// concurrent use; metrics.Collector is the production one.
type Observer interface {
	// Resolved is called once per successful Create or Get.
	Resolved(op Operation, id TypeIdentity, src Source)

	// Constructed is called after every constructor invocation, err being
	// the surfaced error if it failed.
	Constructed(id TypeIdentity, elapsed time.Duration, err error)

	// Failed is called once per failed Create or Get. id is empty when
	// name resolution failed.
	Failed(op Operation, id TypeIdentity, err error)
}

type nopObserver struct{}

func (nopObserver) Resolved(Operation, TypeIdentity, Source)       {}
func (nopObserver) Constructed(TypeIdentity, time.Duration, error) {}
func (nopObserver) Failed(Operation, TypeIdentity, error)          {}
