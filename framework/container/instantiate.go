package container

import (
	"fmt"
	"reflect"
)

// instantiate runs r under ctx and applies the lifetime of its
// registration. Children go through instantiate again with the same ctx, so
// lifetimes compose: a singleton built inside a scope keeps the scoped
// children it was first built with.
func (p *Provider) instantiate(r *resolver, ctx *ResolutionContext) (any, error) {
	switch r.kind {
	case contextResolver:
		return ctx, nil
	case providerResolver:
		return p, nil
	case instanceResolver:
		return r.reg.instance, nil
	}

	reg := r.reg
	switch reg.Lifetime {
	case Singleton:
		if v, ok := p.singletons.load(reg.Key); ok {
			return v, nil
		}
		v, err := p.activate(r, ctx)
		if err != nil {
			return nil, err
		}
		v, created := p.singletons.store(reg.Key, v)
		if created {
			p.logger.Debug("singleton created", "key", typeName(reg.Key))
		}
		return v, nil

	case Scoped:
		if v, ok := ctx.scoped.load(reg.Key); ok {
			return v, nil
		}
		v, err := p.activate(r, ctx)
		if err != nil {
			return nil, err
		}
		v, _ = ctx.scoped.store(reg.Key, v)
		return v, nil

	default:
		return p.activate(r, ctx)
	}
}

// activate builds a new value for r. Errors returned by constructors and
// factories, and panics raised by them, come back as *ActivationError.
func (p *Provider) activate(r *resolver, ctx *ResolutionContext) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &ActivationError{Key: r.reg.Key, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	if r.kind == factoryResolver {
		var in []reflect.Value
		if r.reg.fnCtx {
			in = []reflect.Value{reflect.ValueOf(ctx)}
		}
		return r.reg.result(r.reg.fn.Call(in))
	}

	args := make([]reflect.Value, len(r.children))
	for i, child := range r.children {
		dep, err := p.instantiate(child, ctx)
		if err != nil {
			return nil, err
		}
		arg, err := argument(dep, r.params[i].Type)
		if err != nil {
			return nil, &ActivationError{Key: r.reg.Key, Err: fmt.Errorf("parameter [%s]: %w", r.params[i].label(), err)}
		}
		args[i] = arg
	}

	if r.reg.impl != nil {
		return buildStruct(r.reg.impl, r.params, args), nil
	}
	return r.reg.result(r.reg.fn.Call(args))
}

// result turns the return values of a constructor or factory into a value.
func (r *Registration) result(out []reflect.Value) (any, error) {
	if r.fnErr && !out[1].IsNil() {
		return nil, &ActivationError{Key: r.Key, Err: out[1].Interface().(error)}
	}

	v := out[0]
	if v.Kind() == reflect.Interface && v.IsNil() {
		return nil, nil
	}
	value := v.Interface()
	if isUntyped(r.produces) && !reflect.TypeOf(value).AssignableTo(r.Key) {
		return nil, &ActivationError{Key: r.Key, Err: fmt.Errorf("factory returned %T", value)}
	}
	return value, nil
}

// argument adapts a resolved dependency to the declared parameter type.
func argument(dep any, t reflect.Type) (reflect.Value, error) {
	if dep == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(dep)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), t)
	}
	return v, nil
}

func buildStruct(t reflect.Type, params []Param, args []reflect.Value) any {
	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	ptr := reflect.New(st)
	for i, p := range params {
		ptr.Elem().Field(p.Index).Set(args[i])
	}
	if t.Kind() == reflect.Pointer {
		return ptr.Interface()
	}
	return ptr.Elem().Interface()
}
