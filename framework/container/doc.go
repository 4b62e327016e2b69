// Package container provides an inversion of control container for Go:
// register services with a lifetime, build a Provider, and let it wire whole
// object graphs on demand.
//
// # Overview
//
// A ServiceCollection records registrations. BuildProvider analyses every
// constructor, compiles one resolver per service, and fails fast on cycles,
// union typed parameters and parameters nothing can satisfy. The Provider
// then builds services on request under three lifetimes:
//
//   - Singleton: built once per Provider.
//   - Scoped: built once per ResolutionContext.
//   - Transient: built on every resolution.
//
// # Container Lifecycle
//
//  1. Create: services := container.New()
//  2. Register: services.AddTransient(...), modules, aliases
//  3. Build: provider, err := services.BuildProvider()  // registrations close here
//  4. Resolve: provider.Get(key, ctx)
//
// # Registrations
//
//	// Interface key, struct implementation; exported fields are the
//	// constructor parameters
//	services.AddTransient(container.TypeOf[CatsRepository](), container.TypeOf[*FooDBCatsRepository]())
//
//	// Key == implementation
//	services.AddExactScoped(container.TypeOf[*RequestContext]())
//
//	// Constructor function; names are optional and only needed for aliases
//	services.AddExactTransient(NewCatsController, container.WithParamNames("handler"))
//
//	// Factory; it gets the resolution context and may defer lookups
//	services.AddSingletonFactory(func(ctx *container.ResolutionContext) *Cache {
//	    return NewCache()
//	}, nil)
//
//	// Pre-built value, optionally under another key
//	services.AddInstance(settings)
//	services.AddInstanceAs(&Circle{}, container.TypeOf[Shape]())
//
// # Constructor parameters
//
// For a struct implementation every exported field is a parameter, in
// declaration order. The parameter name is the inject tag, or the
// StandardParamName of the field name; inject:"-" skips a field:
//
//	type CatsController struct {
//	    Handler *GetCatHandler           // by type
//	    Example any `inject:"example"`   // by name or alias
//	    Clock   func() time.Time `inject:"-"`
//	}
//
// A parameter of type *ResolutionContext or *Provider receives the
// container itself. A parameter declared with a UnionType such as
// Optional[T] fails the build: the container does not pick among members.
//
// # Aliases
//
//	services.SetAlias("example", container.TypeOf[*CatsController]())   // any parameter named example
//	services.AddAlias("k", container.TypeOf[*CatsController]())         // untyped parameters and Get("k")
//	services.When(container.TypeOf[*UsingAlias]()).
//	    Needs("example").
//	    Give(container.TypeOf[*CatsController]())                        // one consumer only
//
// Every key also answers to its type name and its StandardParamName, so
// provider.Get("CatsController") and provider.Get("cats_controller") work
// without any alias.
//
// # Cycles
//
// A → B → A between struct or constructor registrations fails BuildProvider
// with a CircularDependencyError. A factory is never analysed, so one
// factory in the loop breaks it: the factory decides what its peer gets.
//
// # Resolution contexts
//
//	err := provider.WithContext(func(ctx *container.ResolutionContext) error {
//	    a, _ := ctx.Get(container.TypeOf[*RequestContext]())
//	    b, _ := ctx.Get(container.TypeOf[*RequestContext]())  // same as a
//	    return nil
//	})  // scoped io.Closers are closed here
//
// # Modules
//
//	registry := container.NewModuleRegistry(container.New())
//	registry.Register(&CatsModule{})
//	provider, err := registry.Build()  // builds, then boots every module
package container
