package container

import (
	"fmt"
	"log/slog"
	"reflect"
)

// Provider serves the services of a built ServiceCollection. It owns the
// compiled resolvers and the singleton cache. Provider is safe for
// concurrent use.
type Provider struct {
	registrations map[reflect.Type]*Registration
	order         []reflect.Type
	resolvers     map[reflect.Type]*resolver
	names         *nameIndex
	singletons    *instanceCache
	logger        *slog.Logger
}

func newProvider(
	registrations map[reflect.Type]*Registration,
	order []reflect.Type,
	resolvers map[reflect.Type]*resolver,
	names *nameIndex,
	logger *slog.Logger,
) *Provider {
	return &Provider{
		registrations: registrations,
		order:         order,
		resolvers:     resolvers,
		names:         names,
		singletons:    newInstanceCache(),
		logger:        logger,
	}
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves key, a reflect.Type or a name. A nil ctx gives the call a
// fresh context of its own, so Scoped services are not shared with any
// other call.
//
// An unknown key is not an error: Get returns nil, nil.
//
//	v, err := provider.Get(container.TypeOf[CatsRepository](), nil)
//	v, err := provider.Get("cats_controller", ctx)
func (p *Provider) Get(key any, ctx *ResolutionContext) (any, error) {
	t, err := p.keyOf(key)
	if err != nil || t == nil {
		return nil, err
	}
	r, ok := p.resolvers[t]
	if !ok {
		return nil, nil
	}

	if ctx == nil {
		ctx = p.NewContext()
	} else if ctx.provider != p {
		return nil, ErrForeignContext
	} else if ctx.closed.Load() {
		return nil, ErrContextClosed
	}
	return p.instantiate(r, ctx)
}

// Contains reports whether key is served by p.
func (p *Provider) Contains(key any) bool {
	t, err := p.keyOf(key)
	if err != nil || t == nil {
		return false
	}
	_, ok := p.resolvers[t]
	return ok
}

func (p *Provider) keyOf(key any) (reflect.Type, error) {
	switch k := key.(type) {
	case reflect.Type:
		return k, nil
	case string:
		return p.names.lookup(k)
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("container: unsupported key %T; use a reflect.Type or a string", key)
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Get resolves T from p. A missing service gives the zero T and a nil error.
//
//	repo, err := container.Get[CatsRepository](provider, nil)
func Get[T any](p *Provider, ctx *ResolutionContext) (T, error) {
	var zero T
	v, err := p.Get(TypeOf[T](), ctx)
	if err != nil || v == nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("container: [%s] resolved to %T", typeName(TypeOf[T]()), v)
	}
	return typed, nil
}

// MustGet is like Get but panics on error or when T is not registered.
func MustGet[T any](p *Provider, ctx *ResolutionContext) T {
	v, err := Get[T](p, ctx)
	if err != nil {
		panic(err)
	}
	if !p.Contains(TypeOf[T]()) {
		panic(fmt.Sprintf("container: no service registered for [%s]", typeName(TypeOf[T]())))
	}
	return v
}

// ── Graph ─────────────────────────────────────────────────────────────────────

// GraphNode describes one service of a provider.
type GraphNode struct {
	Key          string      `yaml:"key" json:"key"`
	Lifetime     string      `yaml:"lifetime" json:"lifetime"`
	Strategy     string      `yaml:"strategy" json:"strategy"`
	Dependencies []GraphEdge `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// GraphEdge links a constructor parameter to the service that fills it.
type GraphEdge struct {
	Param  string `yaml:"param" json:"param"`
	Target string `yaml:"target" json:"target"`
}

// Graph describes every service in registration order.
func (p *Provider) Graph() []GraphNode {
	nodes := make([]GraphNode, 0, len(p.order))
	for _, key := range p.order {
		r := p.resolvers[key]
		node := GraphNode{
			Key:      typeName(key),
			Lifetime: r.reg.Lifetime.String(),
			Strategy: r.reg.Strategy(),
		}
		for i, child := range r.children {
			node.Dependencies = append(node.Dependencies, GraphEdge{
				Param:  r.params[i].label(),
				Target: child.target(),
			})
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func (r *resolver) target() string {
	switch r.kind {
	case contextResolver:
		return typeName(contextType)
	case providerResolver:
		return typeName(providerType)
	}
	return typeName(r.reg.Key)
}
