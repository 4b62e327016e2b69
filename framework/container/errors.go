package container

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Sentinel errors, matched with errors.Is against the typed errors below.
var (
	ErrOverridingService     = errors.New("container: service already registered")
	ErrCircularDependency    = errors.New("container: circular dependency")
	ErrUnsupportedUnionType  = errors.New("container: unsupported union type")
	ErrMissingType           = errors.New("container: missing type")
	ErrUnresolvableParameter = errors.New("container: unresolvable parameter")
	ErrAliasAlreadyDefined   = errors.New("container: alias already defined")
	ErrAmbiguousAlias        = errors.New("container: ambiguous alias")
	ErrInvalidRegistration   = errors.New("container: invalid registration")
	ErrActivation            = errors.New("container: activation failed")
	ErrCollectionClosed      = errors.New("container: registrations are closed")
	ErrContextClosed         = errors.New("container: resolution context is closed")
	ErrForeignContext        = errors.New("container: resolution context belongs to another provider")
)

// OverridingServiceError is returned when a key is registered twice.
type OverridingServiceError struct {
	Key reflect.Type
}

func (e *OverridingServiceError) Error() string {
	return fmt.Sprintf("container: a service for [%s] is already registered", typeName(e.Key))
}

func (e *OverridingServiceError) Unwrap() error { return ErrOverridingService }

// CircularDependencyError lists the keys of a cycle, first key repeated last.
type CircularDependencyError struct {
	Chain []reflect.Type
}

func (e *CircularDependencyError) Error() string {
	names := make([]string, len(e.Chain))
	for i, t := range e.Chain {
		names[i] = typeName(t)
	}
	return "container: circular dependency detected: " + strings.Join(names, " -> ")
}

func (e *CircularDependencyError) Unwrap() error { return ErrCircularDependency }

// UnsupportedUnionTypeError names a constructor parameter declared with a
// UnionType.
type UnsupportedUnionTypeError struct {
	Declaring reflect.Type
	Param     string
	Type      reflect.Type
}

func (e *UnsupportedUnionTypeError) Error() string {
	return fmt.Sprintf("container: parameter [%s] of [%s] is declared as union type [%s]; union types are not supported",
		e.Param, typeName(e.Declaring), typeName(e.Type))
}

func (e *UnsupportedUnionTypeError) Unwrap() error { return ErrUnsupportedUnionType }

// MissingTypeError is returned when a factory gives no usable return type
// and none was declared at registration.
type MissingTypeError struct {
	Factory reflect.Type
}

func (e *MissingTypeError) Error() string {
	return fmt.Sprintf("container: factory [%s] has no concrete return type; pass the declared type", typeName(e.Factory))
}

func (e *MissingTypeError) Unwrap() error { return ErrMissingType }

// UnresolvableParameterError is returned at build time when a constructor
// parameter matches no registration.
type UnresolvableParameterError struct {
	Declaring reflect.Type
	Param     string
	Type      reflect.Type
}

func (e *UnresolvableParameterError) Error() string {
	if isUntyped(e.Type) {
		return fmt.Sprintf("container: cannot resolve parameter [%s] of [%s]: no service or alias matches the name",
			e.Param, typeName(e.Declaring))
	}
	return fmt.Sprintf("container: cannot resolve parameter [%s] of [%s]: [%s] is not registered",
		e.Param, typeName(e.Declaring), typeName(e.Type))
}

func (e *UnresolvableParameterError) Unwrap() error { return ErrUnresolvableParameter }

// AliasAlreadyDefinedError is returned when a name is aliased twice.
type AliasAlreadyDefinedError struct {
	Name string
}

func (e *AliasAlreadyDefinedError) Error() string {
	return fmt.Sprintf("container: alias [%s] is already defined", e.Name)
}

func (e *AliasAlreadyDefinedError) Unwrap() error { return ErrAliasAlreadyDefined }

// AmbiguousAliasError is returned when a name matches several services.
type AmbiguousAliasError struct {
	Name       string
	Candidates []reflect.Type
}

func (e *AmbiguousAliasError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, t := range e.Candidates {
		names[i] = typeName(t)
	}
	return fmt.Sprintf("container: name [%s] matches more than one service: %s", e.Name, strings.Join(names, ", "))
}

func (e *AmbiguousAliasError) Unwrap() error { return ErrAmbiguousAlias }

// InvalidRegistrationError reports a registration whose parts do not fit.
type InvalidRegistrationError struct {
	Key    reflect.Type
	Reason string
}

func (e *InvalidRegistrationError) Error() string {
	if e.Key == nil {
		return "container: invalid registration: " + e.Reason
	}
	return fmt.Sprintf("container: invalid registration for [%s]: %s", typeName(e.Key), e.Reason)
}

func (e *InvalidRegistrationError) Unwrap() error { return ErrInvalidRegistration }

// ActivationError wraps a failure raised while building a service: an error
// returned by a constructor or factory, or a recovered panic.
type ActivationError struct {
	Key reflect.Type
	Err error
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("container: cannot activate [%s]: %v", typeName(e.Key), e.Err)
}

func (e *ActivationError) Unwrap() []error { return []error{ErrActivation, e.Err} }
