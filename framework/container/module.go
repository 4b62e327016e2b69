package container

import "fmt"

// ── Module interface ──────────────────────────────────────────────────────────

// Module groups the registrations of one feature.
//
// Register adds services to the collection. Boot runs after the provider is
// built, in registration order, so it may resolve anything.
//
//	type CatsModule struct{ container.BaseModule }
//
//	func (m *CatsModule) Register(services *container.ServiceCollection) error {
//	    return services.AddTransient(container.TypeOf[CatsRepository](), container.TypeOf[*InMemoryCatsRepository]())
//	}
type Module interface {
	// Register binds services into the collection.
	// Do NOT resolve anything here; use Boot for that.
	Register(services *ServiceCollection) error

	// Boot is called once the provider is built.
	Boot(provider *Provider) error
}

// ── BaseModule ────────────────────────────────────────────────────────────────

// BaseModule is an embeddable struct with a no-op Boot.
type BaseModule struct{}

func (BaseModule) Boot(*Provider) error { return nil }

// ── ModuleRegistry ────────────────────────────────────────────────────────────

// ModuleRegistry registers modules into one ServiceCollection, builds the
// provider and boots the modules.
type ModuleRegistry struct {
	services   *ServiceCollection
	modules    []Module
	registered map[Module]bool
	provider   *Provider
	bootErr    error
}

// NewModuleRegistry creates a registry bound to services.
func NewModuleRegistry(services *ServiceCollection) *ModuleRegistry {
	return &ModuleRegistry{
		services:   services,
		registered: make(map[Module]bool),
	}
}

// Register calls m.Register. A module registered twice is ignored.
func (r *ModuleRegistry) Register(m Module) error {
	if r.registered[m] {
		return nil
	}
	if r.provider != nil || r.bootErr != nil {
		return ErrCollectionClosed
	}
	if err := m.Register(r.services); err != nil {
		return fmt.Errorf("container: module %T: %w", m, err)
	}
	r.registered[m] = true
	r.modules = append(r.modules, m)
	return nil
}

// Build builds the provider and boots every module in registration order.
// Calling it again returns the same provider, or the same error when a
// module failed to boot.
func (r *ModuleRegistry) Build() (*Provider, error) {
	if r.provider != nil {
		return r.provider, nil
	}
	if r.bootErr != nil {
		return nil, r.bootErr
	}
	provider, err := r.services.BuildProvider()
	if err != nil {
		return nil, err
	}
	for _, m := range r.modules {
		if err := m.Boot(provider); err != nil {
			r.bootErr = fmt.Errorf("container: boot module %T: %w", m, err)
			return nil, r.bootErr
		}
	}
	r.provider = provider
	return provider, nil
}

// Booted returns true once Build succeeded.
func (r *ModuleRegistry) Booted() bool { return r.provider != nil }

// Modules returns the registered modules in order.
func (r *ModuleRegistry) Modules() []Module { return r.modules }

// Services returns the underlying collection.
func (r *ModuleRegistry) Services() *ServiceCollection { return r.services }
