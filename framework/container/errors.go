package container

import (
	"errors"
	"fmt"
)

// Message templates for the four resolution failures.
const (
	MsgNotFound          = "Unable to find '%s' in this context!"
	MsgInvalidTypeName   = "Names passed to create must be resolvable type names!\n\t%s"
	MsgNoSuchConstructor = "Unable to find bean constructor for %s!"
	MsgInstantiation     = "Unable to create instance of %s"
)

var (
	// ErrInvalidTypeName matches errors for names the registry cannot resolve.
	ErrInvalidTypeName = errors.New("container: invalid type name")

	// ErrNoSuchConstructor matches errors for types without a zero-argument
	// constructor that no delegate satisfied.
	ErrNoSuchConstructor = errors.New("container: no such constructor")

	// ErrInstantiation matches errors raised by a constructor or factory.
	ErrInstantiation = errors.New("container: instantiation failure")

	// ErrNotFound matches a get that produced no instance after the full
	// fallback chain.
	ErrNotFound = errors.New("container: not found")

	// ErrNilInstance is the cause attached when a constructor returns nil.
	ErrNilInstance = errors.New("container: constructor returned nil")

	// ErrConstructorPanic is the cause attached when a constructor panics.
	ErrConstructorPanic = errors.New("container: panic during construction")
)

// NotFoundError is returned by Get when no instance could be produced.
type NotFoundError struct{ Type TypeIdentity }

func (e *NotFoundError) Error() string        { return fmt.Sprintf(MsgNotFound, e.Type) }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidTypeNameError carries the name that failed to resolve.
type InvalidTypeNameError struct{ Name string }

func (e *InvalidTypeNameError) Error() string        { return fmt.Sprintf(MsgInvalidTypeName, e.Name) }
func (e *InvalidTypeNameError) Is(target error) bool { return target == ErrInvalidTypeName }

// NoSuchConstructorError is returned when a type has no registered
// constructor.
type NoSuchConstructorError struct{ Type TypeIdentity }

func (e *NoSuchConstructorError) Error() string        { return fmt.Sprintf(MsgNoSuchConstructor, e.Type) }
func (e *NoSuchConstructorError) Is(target error) bool { return target == ErrNoSuchConstructor }

// InstantiationError wraps the failure raised while constructing Type.
// Cause is never nil.
type InstantiationError struct {
	Type  TypeIdentity
	Cause error
}

func (e *InstantiationError) Error() string        { return fmt.Sprintf(MsgInstantiation, e.Type) }
func (e *InstantiationError) Is(target error) bool { return target == ErrInstantiation }
func (e *InstantiationError) Unwrap() error        { return e.Cause }

// WrongTypeError is returned by the generic helpers when the resolved value
// is not assignable to the requested type.
type WrongTypeError struct {
	Type TypeIdentity
	Got  TypeIdentity
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("container: %s resolved to %s", e.Type, e.Got)
}

// isMiss reports whether a delegate error means "this delegate does not
// know the type" rather than a real failure. Only the outermost error is
// inspected: an InstantiationError caused by a missing dependency is a
// failure, not a miss.
func isMiss(err error) bool {
	switch err.(type) {
	case *NoSuchConstructorError, *NotFoundError, *InvalidTypeNameError:
		return true
	}
	return err == ErrNoSuchConstructor || err == ErrNotFound || err == ErrInvalidTypeName
}

// invoke runs ctor, converting panics into errors. Typed nils come back as
// a plain nil so callers only check v == nil.
func invoke(id TypeIdentity, ctor func() (any, error)) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v = nil
			err = &InstantiationError{Type: id, Cause: fmt.Errorf("%w: %v", ErrConstructorPanic, rec)}
		}
	}()

	v, err = ctor()
	if err != nil {
		var ie *InstantiationError
		if errors.As(err, &ie) && ie.Type == id {
			return nil, err
		}
		return nil, &InstantiationError{Type: id, Cause: err}
	}
	if isNil(v) {
		return nil, nil
	}
	return v, nil
}
