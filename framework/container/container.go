package container

import (
	"log/slog"
	"reflect"
	"sync"
)

// ── Registrations ─────────────────────────────────────────────────────────────

type strategyKind int

const (
	concreteStrategy strategyKind = iota
	factoryStrategy
	instanceStrategy
)

// Registration is one entry of a ServiceCollection: a key, a lifetime and
// the way the service gets built.
type Registration struct {
	Key      reflect.Type
	Lifetime Lifetime

	kind     strategyKind
	impl     reflect.Type  // struct or *struct built field by field
	fn       reflect.Value // constructor or factory function
	fnErr    bool          // fn returns (T, error)
	fnCtx    bool          // factory takes *ResolutionContext
	produces reflect.Type
	instance any
	names    []string // constructor parameter names
}

// Strategy names the construction strategy: "type", "constructor",
// "factory" or "instance".
func (r *Registration) Strategy() string {
	switch r.kind {
	case factoryStrategy:
		return "factory"
	case instanceStrategy:
		return "instance"
	}
	if r.impl != nil {
		return "type"
	}
	return "constructor"
}

// Implementation returns the type the strategy produces.
func (r *Registration) Implementation() reflect.Type { return r.produces }

// ── Options ───────────────────────────────────────────────────────────────────

// Option configures a ServiceCollection.
type Option func(*ServiceCollection)

// WithLogger sets the logger used by the collection and every Provider it
// builds. Registration and resolution events are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *ServiceCollection) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// RegistrationOption configures a single registration.
type RegistrationOption func(*registrationOptions)

type registrationOptions struct {
	paramNames []string
}

// WithParamNames names the parameters of a constructor function, in
// declaration order. Go keeps no parameter names at run time, so these names
// are what aliases and name based lookups see.
//
//	services.AddExactTransient(NewCatsController, container.WithParamNames("handler"))
func WithParamNames(names ...string) RegistrationOption {
	return func(o *registrationOptions) {
		o.paramNames = names
	}
}

// ── ServiceCollection ─────────────────────────────────────────────────────────

// ServiceCollection is the registration table. Services are added to it,
// then BuildProvider compiles the whole graph and closes the collection.
type ServiceCollection struct {
	mu sync.RWMutex

	// key → registration
	registrations map[reflect.Type]*Registration

	// keys in registration order
	order []reflect.Type

	aliases *aliasIndex
	logger  *slog.Logger
	closed  bool
}

// New creates an empty ServiceCollection.
func New(opts ...Option) *ServiceCollection {
	s := &ServiceCollection{
		registrations: make(map[reflect.Type]*Registration),
		aliases:       newAliasIndex(),
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ── Concrete types and constructors ───────────────────────────────────────────

// AddSingleton registers impl under key, built once per Provider.
//
// impl is either a reflect.Type of a struct (or pointer to struct), whose
// exported fields are its constructor parameters, or a constructor function
// such as func(*Dep) *Service or func(*Dep) (*Service, error).
func (s *ServiceCollection) AddSingleton(key reflect.Type, impl any, opts ...RegistrationOption) error {
	return s.addConcrete(key, impl, Singleton, opts)
}

// AddScoped registers impl under key, built once per ResolutionContext.
func (s *ServiceCollection) AddScoped(key reflect.Type, impl any, opts ...RegistrationOption) error {
	return s.addConcrete(key, impl, Scoped, opts)
}

// AddTransient registers impl under key, built on every resolution.
func (s *ServiceCollection) AddTransient(key reflect.Type, impl any, opts ...RegistrationOption) error {
	return s.addConcrete(key, impl, Transient, opts)
}

// AddExactSingleton registers impl under its own type.
func (s *ServiceCollection) AddExactSingleton(impl any, opts ...RegistrationOption) error {
	return s.addConcrete(nil, impl, Singleton, opts)
}

// AddExactScoped registers impl under its own type.
func (s *ServiceCollection) AddExactScoped(impl any, opts ...RegistrationOption) error {
	return s.addConcrete(nil, impl, Scoped, opts)
}

// AddExactTransient registers impl under its own type.
func (s *ServiceCollection) AddExactTransient(impl any, opts ...RegistrationOption) error {
	return s.addConcrete(nil, impl, Transient, opts)
}

func (s *ServiceCollection) addConcrete(key reflect.Type, impl any, lifetime Lifetime, opts []RegistrationOption) error {
	var o registrationOptions
	for _, opt := range opts {
		opt(&o)
	}

	reg := &Registration{Lifetime: lifetime, kind: concreteStrategy}

	if t, ok := impl.(reflect.Type); ok {
		if t == nil {
			return &InvalidRegistrationError{Key: key, Reason: "implementation type is nil"}
		}
		base := t
		if base.Kind() == reflect.Pointer {
			base = base.Elem()
		}
		if base.Kind() != reflect.Struct {
			return &InvalidRegistrationError{Key: t, Reason: "implementation must be a struct or a pointer to a struct"}
		}
		if len(o.paramNames) > 0 {
			return &InvalidRegistrationError{Key: t, Reason: "parameter names only apply to constructor functions"}
		}
		reg.impl = t
		reg.produces = t
	} else {
		fn := reflect.ValueOf(impl)
		if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
			return &InvalidRegistrationError{Key: key, Reason: "implementation must be a reflect.Type or a constructor function"}
		}
		ft := fn.Type()
		out, withErr, ok := funcResult(ft)
		if !ok {
			return &InvalidRegistrationError{Key: key, Reason: "constructor must return T or (T, error)"}
		}
		if isUntyped(out) {
			return &MissingTypeError{Factory: ft}
		}
		if ft.IsVariadic() {
			return &InvalidRegistrationError{Key: out, Reason: "variadic constructors are not supported"}
		}
		if len(o.paramNames) > 0 && len(o.paramNames) != ft.NumIn() {
			return &InvalidRegistrationError{Key: out, Reason: "parameter names do not match the constructor arity"}
		}
		reg.fn = fn
		reg.fnErr = withErr
		reg.produces = out
		reg.names = o.paramNames
	}

	if key == nil {
		key = reg.produces
	}
	if !reg.produces.AssignableTo(key) {
		return &InvalidRegistrationError{Key: key, Reason: typeName(reg.produces) + " is not assignable to the key"}
	}
	reg.Key = key

	return s.add(reg)
}

// ── Factories ─────────────────────────────────────────────────────────────────

// AddSingletonFactory registers a factory whose result is cached per Provider.
//
// The factory is func(*ResolutionContext) T, func(*ResolutionContext) (T, error),
// func() T or func() (T, error). declared may be nil when T is a concrete
// type; a factory returning any needs it, or MissingTypeError is returned.
func (s *ServiceCollection) AddSingletonFactory(factory any, declared reflect.Type) error {
	return s.addFactory(factory, declared, Singleton)
}

// AddScopedFactory registers a factory whose result is cached per
// ResolutionContext.
func (s *ServiceCollection) AddScopedFactory(factory any, declared reflect.Type) error {
	return s.addFactory(factory, declared, Scoped)
}

// AddTransientFactory registers a factory invoked on every resolution.
func (s *ServiceCollection) AddTransientFactory(factory any, declared reflect.Type) error {
	return s.addFactory(factory, declared, Transient)
}

func (s *ServiceCollection) addFactory(factory any, declared reflect.Type, lifetime Lifetime) error {
	fn := reflect.ValueOf(factory)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return &InvalidRegistrationError{Key: declared, Reason: "factory must be a function"}
	}
	ft := fn.Type()

	var takesContext bool
	switch ft.NumIn() {
	case 0:
	case 1:
		if ft.In(0) != contextType {
			return &InvalidRegistrationError{Key: declared, Reason: "factory parameter must be *container.ResolutionContext"}
		}
		takesContext = true
	default:
		return &InvalidRegistrationError{Key: declared, Reason: "factory takes at most one parameter"}
	}

	out, withErr, ok := funcResult(ft)
	if !ok {
		return &InvalidRegistrationError{Key: declared, Reason: "factory must return T or (T, error)"}
	}

	key := declared
	switch {
	case key == nil && isUntyped(out):
		return &MissingTypeError{Factory: ft}
	case key == nil:
		key = out
	case !isUntyped(out) && !out.AssignableTo(key):
		return &InvalidRegistrationError{Key: key, Reason: "factory returns " + typeName(out)}
	}

	return s.add(&Registration{
		Key:      key,
		Lifetime: lifetime,
		kind:     factoryStrategy,
		fn:       fn,
		fnErr:    withErr,
		fnCtx:    takesContext,
		produces: out,
	})
}

// ── Instances ─────────────────────────────────────────────────────────────────

// AddInstance registers a pre-built value under its own dynamic type.
func (s *ServiceCollection) AddInstance(value any) error {
	return s.AddInstanceAs(value, nil)
}

// AddInstanceAs registers a pre-built value under declared, which the value
// must be assignable to. Instances are never analysed for dependencies.
//
//	services.AddInstanceAs(&Circle{}, container.TypeOf[Shape]())
func (s *ServiceCollection) AddInstanceAs(value any, declared reflect.Type) error {
	if value == nil {
		return &InvalidRegistrationError{Key: declared, Reason: "instance is nil"}
	}
	actual := reflect.TypeOf(value)
	key := declared
	if key == nil {
		key = actual
	} else if !actual.AssignableTo(key) {
		return &InvalidRegistrationError{Key: key, Reason: typeName(actual) + " is not assignable to the declared type"}
	}

	return s.add(&Registration{
		Key:      key,
		Lifetime: Singleton,
		kind:     instanceStrategy,
		instance: value,
		produces: actual,
	})
}

// add stores reg, refusing duplicates and late registrations.
func (s *ServiceCollection) add(reg *Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrCollectionClosed
	}
	if _, exists := s.registrations[reg.Key]; exists {
		return &OverridingServiceError{Key: reg.Key}
	}
	s.registrations[reg.Key] = reg
	s.order = append(s.order, reg.Key)

	s.logger.Debug("service registered",
		"key", typeName(reg.Key),
		"lifetime", reg.Lifetime.String(),
		"strategy", reg.Strategy(),
	)
	return nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

// Contains reports whether key is registered. key is a reflect.Type or a
// name: a type name, its StandardParamName form or a general alias.
func (s *ServiceCollection) Contains(key any) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch k := key.(type) {
	case reflect.Type:
		_, ok := s.registrations[k]
		return ok
	case string:
		t, err := newNameIndex(s.order, s.aliases.general).lookup(k)
		return err == nil && t != nil
	}
	return false
}

// Len returns the number of registrations.
func (s *ServiceCollection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Registrations returns the registrations in the order they were added.
func (s *ServiceCollection) Registrations() []*Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Registration, len(s.order))
	for i, key := range s.order {
		out[i] = s.registrations[key]
	}
	return out
}

// ── Build ─────────────────────────────────────────────────────────────────────

// BuildProvider compiles a resolver for every registration and returns the
// Provider serving them. Cycles, union typed parameters and unresolvable
// parameters fail the whole build. On success the collection is closed and
// a second call fails with ErrCollectionClosed.
func (s *ServiceCollection) BuildProvider() (*Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrCollectionClosed
	}
	if err := s.aliases.validate(s.registrations); err != nil {
		return nil, err
	}

	names := newNameIndex(s.order, s.aliases.general)
	b := newBuilder(s.registrations, s.order, names, s.aliases.snapshot(), s.logger)
	resolvers, err := b.buildAll()
	if err != nil {
		return nil, err
	}

	s.closed = true
	s.logger.Debug("provider built", "services", len(s.order))

	return newProvider(s.registrations, s.order, resolvers, names, s.logger), nil
}

// funcResult extracts T from func(...) T or func(...) (T, error).
func funcResult(ft reflect.Type) (out reflect.Type, withErr bool, ok bool) {
	switch ft.NumOut() {
	case 1:
		return ft.Out(0), false, true
	case 2:
		if ft.Out(1) == errorType {
			return ft.Out(0), true, true
		}
	}
	return nil, false, false
}
