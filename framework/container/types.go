package container

import (
	"reflect"
	"strings"
)

var (
	anyType      = reflect.TypeFor[any]()
	errorType    = reflect.TypeFor[error]()
	unionType    = reflect.TypeFor[UnionType]()
	contextType  = reflect.TypeFor[*ResolutionContext]()
	providerType = reflect.TypeFor[*Provider]()
)

// TypeOf returns the reflect.Type used as the service key for T.
//
//	services.AddTransient(container.TypeOf[CatsRepository](), container.TypeOf[*InMemoryCatsRepository]())
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// UnionType is implemented by parameter types that stand for more than one
// possible service. The container refuses to guess among the members, so a
// constructor parameter of such a type fails the build.
type UnionType interface {
	UnionMembers() []reflect.Type
}

// Optional marks a value that may be absent. As a constructor parameter it
// is a union of T and nothing, and is rejected at build time.
type Optional[T any] struct {
	Value T
	Valid bool
}

// UnionMembers implements UnionType. The nil member stands for "absent".
func (Optional[T]) UnionMembers() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[T](), nil}
}

// OneOf holds a value that is either an A or a B.
type OneOf[A, B any] struct {
	Value any
}

// UnionMembers implements UnionType.
func (OneOf[A, B]) UnionMembers() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B]()}
}

func isUnion(t reflect.Type) bool {
	return t.Implements(unionType)
}

// isUntyped reports whether a parameter declares no useful type and has to
// be resolved by name.
func isUntyped(t reflect.Type) bool {
	return t == nil || t == anyType
}

// baseName is the declared name of t with pointers stripped.
func baseName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if i := strings.IndexByte(name, '['); i > 0 {
		name = name[:i]
	}
	return name
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
