package container

import (
	"log/slog"
	"reflect"
	"slices"
)

// ── Resolvers ─────────────────────────────────────────────────────────────────

type resolverKind int

const (
	instanceResolver resolverKind = iota
	constructedResolver
	factoryResolver
	contextResolver
	providerResolver
)

// resolver is the compiled plan for one registration. Constructed
// resolvers hold one child per constructor parameter, so the resolvers of a
// provider mirror its dependency graph.
type resolver struct {
	kind     resolverKind
	reg      *Registration
	params   []Param
	children []*resolver
}

var (
	contextLeaf  = &resolver{kind: contextResolver}
	providerLeaf = &resolver{kind: providerResolver}
)

// ── Builder ───────────────────────────────────────────────────────────────────

// builder compiles resolvers depth first. Keys in inProgress are on the
// current descent path; keys in resolved are done.
type builder struct {
	registrations map[reflect.Type]*Registration
	order         []reflect.Type
	names         *nameIndex
	aliases       *aliasIndex
	logger        *slog.Logger

	resolved   map[reflect.Type]*resolver
	inProgress map[reflect.Type]bool
	chain      []reflect.Type
}

func newBuilder(
	registrations map[reflect.Type]*Registration,
	order []reflect.Type,
	names *nameIndex,
	aliases *aliasIndex,
	logger *slog.Logger,
) *builder {
	return &builder{
		registrations: registrations,
		order:         order,
		names:         names,
		aliases:       aliases,
		logger:        logger,
		resolved:      make(map[reflect.Type]*resolver, len(order)),
		inProgress:    make(map[reflect.Type]bool),
	}
}

// buildAll compiles every registration in registration order and stops at
// the first error.
func (b *builder) buildAll() (map[reflect.Type]*resolver, error) {
	for _, key := range b.order {
		if _, err := b.resolverFor(b.registrations[key]); err != nil {
			return nil, err
		}
	}
	return b.resolved, nil
}

func (b *builder) resolverFor(reg *Registration) (*resolver, error) {
	if r, ok := b.resolved[reg.Key]; ok {
		return r, nil
	}

	// Factories and instances are leaves: a factory only sees the context
	// when it runs, which is what lets it break a cycle.
	switch reg.kind {
	case instanceStrategy:
		r := &resolver{kind: instanceResolver, reg: reg}
		b.resolved[reg.Key] = r
		return r, nil
	case factoryStrategy:
		r := &resolver{kind: factoryResolver, reg: reg}
		b.resolved[reg.Key] = r
		return r, nil
	}

	if b.inProgress[reg.Key] {
		start := slices.Index(b.chain, reg.Key)
		cycle := append(slices.Clone(b.chain[start:]), reg.Key)
		return nil, &CircularDependencyError{Chain: cycle}
	}

	b.inProgress[reg.Key] = true
	b.chain = append(b.chain, reg.Key)
	defer func() {
		delete(b.inProgress, reg.Key)
		b.chain = b.chain[:len(b.chain)-1]
	}()

	params, err := reg.signature()
	if err != nil {
		return nil, err
	}

	children := make([]*resolver, len(params))
	for i, p := range params {
		child, err := b.paramResolver(reg, p)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}

	r := &resolver{kind: constructedResolver, reg: reg, params: params, children: children}
	b.resolved[reg.Key] = r

	b.logger.Debug("resolver compiled",
		"key", typeName(reg.Key),
		"strategy", reg.Strategy(),
		"params", len(params),
	)
	return r, nil
}

// paramResolver finds the resolver for one constructor parameter: aliases
// first, then the name for untyped parameters, then the declared type.
func (b *builder) paramResolver(consumer *Registration, p Param) (*resolver, error) {
	if key, ok := b.aliases.exactFor(consumer, p.Name); ok {
		return b.aliasedResolver(consumer, p, key)
	}

	if isUntyped(p.Type) {
		if p.Name == "" {
			return nil, &UnresolvableParameterError{Declaring: consumer.produces, Param: p.label(), Type: p.Type}
		}
		key, err := b.names.lookup(p.Name)
		if err != nil {
			return nil, err
		}
		if key == nil {
			return nil, &UnresolvableParameterError{Declaring: consumer.produces, Param: p.label(), Type: p.Type}
		}
		return b.aliasedResolver(consumer, p, key)
	}

	switch p.Type {
	case contextType:
		return contextLeaf, nil
	case providerType:
		return providerLeaf, nil
	}

	reg, ok := b.registrations[p.Type]
	if !ok {
		return nil, &UnresolvableParameterError{Declaring: consumer.produces, Param: p.label(), Type: p.Type}
	}
	return b.resolverFor(reg)
}

func (b *builder) aliasedResolver(consumer *Registration, p Param, key reflect.Type) (*resolver, error) {
	reg, ok := b.registrations[key]
	if !ok {
		return nil, &UnresolvableParameterError{Declaring: consumer.produces, Param: p.label(), Type: key}
	}
	if !reg.Key.AssignableTo(p.Type) && !reg.produces.AssignableTo(p.Type) {
		return nil, &InvalidRegistrationError{
			Key:    consumer.Key,
			Reason: "parameter [" + p.label() + "] resolves to " + typeName(key) + ", which is not assignable to " + typeName(p.Type),
		}
	}
	return b.resolverFor(reg)
}
