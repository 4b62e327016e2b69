package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-ioc/framework/container"
)

// ── cats ──────────────────────────────────────────────────────────────────────

type Cat struct {
	Name string
}

type ICatsRepository interface {
	GetByID(id int) *Cat
}

type InMemoryCatsRepository struct {
	cats map[int]*Cat
}

func (r *InMemoryCatsRepository) GetByID(id int) *Cat { return r.cats[id] }

type ServiceSettings struct {
	DBConnectionString string
}

type FooDBContext struct {
	Settings *ServiceSettings
}

func (c *FooDBContext) ConnectionString() string { return c.Settings.DBConnectionString }

type FooDBCatsRepository struct {
	Context *FooDBContext
}

func (r *FooDBCatsRepository) GetByID(id int) *Cat { return &Cat{Name: r.Context.ConnectionString()} }

type IRequestContext interface {
	User() string
}

type RequestContext struct {
	user string
}

func (c *RequestContext) User() string { return c.user }

type GetCatRequestHandler struct {
	Repo    ICatsRepository
	Context IRequestContext
}

type CatsController struct {
	CatRequestHandler *GetCatRequestHandler
}

func arrangeCatsExample(t *testing.T) *container.ServiceCollection {
	t.Helper()
	services := container.New()
	require.NoError(t, services.AddTransient(container.TypeOf[ICatsRepository](), container.TypeOf[*FooDBCatsRepository]()))
	require.NoError(t, services.AddScoped(container.TypeOf[IRequestContext](), container.TypeOf[*RequestContext]()))
	require.NoError(t, services.AddExactTransient(container.TypeOf[*GetCatRequestHandler]()))
	require.NoError(t, services.AddExactTransient(container.TypeOf[*CatsController]()))
	require.NoError(t, services.AddInstance(&ServiceSettings{DBConnectionString: "foodb:example;something;"}))
	require.NoError(t, services.AddExactTransient(container.TypeOf[*FooDBContext]()))
	return services
}

// ── shapes ────────────────────────────────────────────────────────────────────

type ICircle interface {
	Radius() float64
}

// Circle needs an ICircle, so registering it as ICircle loops on itself.
type Circle struct {
	Circle ICircle
}

func (c *Circle) Radius() float64 { return 1 }

type Shape struct {
	Circle *Circle
}

type TrickyCircle struct {
	Circle ICircle
}

// ── cycles ────────────────────────────────────────────────────────────────────

type Jing struct{ Jang *Jang }
type Jang struct{ Jing *Jing }

type W struct{ X *X }
type X struct{ Y *Y }
type Y struct{ Z *Z }
type Z struct{ W *W }

// ── plain graphs ──────────────────────────────────────────────────────────────

type A struct{ n int }

func (a *A) N() int { return a.n }

type B struct{ A *A }

type C struct {
	A *A
	B *B
}

type IdGetter struct{ n int }

func (g *IdGetter) N() int { return g.n }

type P struct{ n int }

func (p *P) N() int { return p.n }

type R struct{ P *P }

type Foo struct{ n int }

func (f *Foo) N() int { return f.n }

type TypeWithOptional struct {
	Foo container.Optional[*Foo]
}

type TypeWithOneOf struct {
	Target container.OneOf[*Foo, *Cat]
}

// ── by name ───────────────────────────────────────────────────────────────────

type ResolveThisByParameterName struct {
	CatsRepository any
}

type IByParamName interface {
	Name() string
}

type FooByParamName struct {
	Foo any
}

func (f *FooByParamName) Name() string { return "foo" }

type UsingAlias struct {
	Example any
}

type UsingAliasAndSettings struct {
	Example  any
	Settings any
}

type AnotherUsingAlias struct {
	CatsController  any
	ServiceSettings any
}

// ── constructors ──────────────────────────────────────────────────────────────

type Greeter struct {
	Repo     ICatsRepository
	Settings *ServiceSettings
}

func NewGreeter(repo ICatsRepository, settings *ServiceSettings) *Greeter {
	return &Greeter{Repo: repo, Settings: settings}
}

var errBroken = errors.New("broken on purpose")

type Broken struct{}

func NewBroken() (*Broken, error) { return nil, errBroken }

type Tagged struct {
	Repo    ICatsRepository `inject:"repository"`
	Skipped *Cat            `inject:"-"`
	hidden  *Cat
}

func (t *Tagged) Hidden() *Cat { return t.hidden }

// ── closers ───────────────────────────────────────────────────────────────────

type closeLog struct{ names []string }

type Connection struct {
	Log  *closeLog
	name string
	err  error
}

func (c *Connection) Close() error {
	c.Log.names = append(c.Log.names, c.name)
	return c.err
}
