package container

import (
	"fmt"
	"reflect"
)

// Param is one constructor parameter as the container sees it.
type Param struct {
	// Index is the struct field index or the argument position.
	Index int

	// Name is the inject tag, the StandardParamName of the field, or the
	// name given with WithParamNames. Empty for unnamed arguments.
	Name string

	// Type is the declared type; any means "resolve by name".
	Type reflect.Type
}

func (p Param) label() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("#%d", p.Index)
}

// signature lists the constructor parameters of a concrete registration.
func (r *Registration) signature() ([]Param, error) {
	if r.impl != nil {
		return analyzeStruct(r.impl)
	}
	return analyzeFunc(r.fn.Type(), r.names, r.produces)
}

// analyzeStruct treats the exported fields of a struct as its constructor
// parameters, in declaration order. A field tagged inject:"-" is skipped and
// inject:"name" renames the parameter.
func analyzeStruct(t reflect.Type) ([]Param, error) {
	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}

	params := make([]Param, 0, st.NumField())
	for i := range st.NumField() {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("inject")
		if tag == "-" {
			continue
		}
		name := tag
		if name == "" {
			name = StandardParamName(f.Name)
		}
		if isUnion(f.Type) {
			return nil, &UnsupportedUnionTypeError{Declaring: t, Param: name, Type: f.Type}
		}
		params = append(params, Param{Index: i, Name: name, Type: f.Type})
	}
	return params, nil
}

// analyzeFunc lists the arguments of a constructor function.
func analyzeFunc(ft reflect.Type, names []string, declaring reflect.Type) ([]Param, error) {
	params := make([]Param, ft.NumIn())
	for i := range ft.NumIn() {
		p := Param{Index: i, Type: ft.In(i)}
		if i < len(names) {
			p.Name = names[i]
		}
		if isUnion(p.Type) {
			return nil, &UnsupportedUnionTypeError{Declaring: declaring, Param: p.label(), Type: p.Type}
		}
		params[i] = p
	}
	return params, nil
}
