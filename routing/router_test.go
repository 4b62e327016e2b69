package routing_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-ioc/framework/container"
	gohttp "github.com/km-arc/go-ioc/framework/http"
	"github.com/km-arc/go-ioc/routing"
)

// ── fixtures ─────────────────────────────────────────────────────────────────

// Visit is scoped: one per request.
type Visit struct {
	Request *gohttp.Request
	closed  *[]string
}

func (v *Visit) Close() error {
	*v.closed = append(*v.closed, v.Request.Path())
	return nil
}

type PhotoController struct {
	Visit *Visit
}

func (c *PhotoController) Index(w http.ResponseWriter, r *http.Request)   { write(w, "index") }
func (c *PhotoController) Store(w http.ResponseWriter, r *http.Request)   { write(w, "store") }
func (c *PhotoController) Show(w http.ResponseWriter, r *http.Request)    { write(w, "show "+routing.Param(r, "id")) }
func (c *PhotoController) Update(w http.ResponseWriter, r *http.Request)  { write(w, "update "+routing.Param(r, "id")) }
func (c *PhotoController) Destroy(w http.ResponseWriter, r *http.Request) { write(w, "destroy "+routing.Param(r, "id")) }

func (c *PhotoController) Path(w http.ResponseWriter, r *http.Request) {
	write(w, c.Visit.Request.Path())
}

type NotAController struct{ n int }

func write(w http.ResponseWriter, body string) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func okHandler(w http.ResponseWriter, r *http.Request) { write(w, "ok") }

// ── helpers ──────────────────────────────────────────────────────────────────

func newRouter(t *testing.T) (*routing.Router, *[]string) {
	t.Helper()
	closed := &[]string{}

	services := container.New()
	require.NoError(t, services.AddScopedFactory(routing.CurrentRequest, nil))
	require.NoError(t, services.AddExactScoped(gohttp.NewRequest, container.WithParamNames("request")))
	require.NoError(t, services.AddScopedFactory(func(ctx *container.ResolutionContext) (*Visit, error) {
		req, err := container.Get[*gohttp.Request](ctx.Provider(), ctx)
		if err != nil {
			return nil, err
		}
		return &Visit{Request: req, closed: closed}, nil
	}, nil))
	require.NoError(t, services.AddExactTransient(container.TypeOf[*PhotoController]()))
	require.NoError(t, services.AddExactTransient(container.TypeOf[*NotAController]()))

	provider, err := services.BuildProvider()
	require.NoError(t, err)
	return routing.New(provider, nil), closed
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r, _ := newRouter(t)
	r.Get("/hello", okHandler)
	r.Post("/users", okHandler)
	r.Put("/users/{id}", okHandler)
	r.Patch("/users/{id}", okHandler)
	r.Delete("/users/{id}", okHandler)

	tests := []struct{ method, path string }{
		{http.MethodGet, "/hello"},
		{http.MethodPost, "/users"},
		{http.MethodPut, "/users/1"},
		{http.MethodPatch, "/users/1"},
		{http.MethodDelete, "/users/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, do(t, r, tt.method, tt.path).Code)
		})
	}

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, r, http.MethodPost, "/hello").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/missing").Code)
}

func TestRouter_Any(t *testing.T) {
	r, _ := newRouter(t)
	r.Any("/ping", okHandler)

	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions} {
		assert.Equal(t, http.StatusOK, do(t, r, m, "/ping").Code, m)
	}
}

// ── Groups & Prefixes ────────────────────────────────────────────────────────

func TestRouter_PrefixAndGroup(t *testing.T) {
	r, _ := newRouter(t)

	var hits []string
	r.Prefix("/api", func(api *routing.Router) {
		api.Get("/users", okHandler)
		api.Group(func(g *routing.Router) {
			g.Middleware(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					hits = append(hits, req.URL.Path)
					next.ServeHTTP(w, req)
				})
			})
			g.Get("/admin", okHandler)
		})
	})

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/users").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/admin").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/users").Code)
	assert.Equal(t, []string{"/api/admin"}, hits)
}

func TestRouter_Param(t *testing.T) {
	r, _ := newRouter(t)
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		write(w, routing.Param(req, "id"))
	})

	assert.Equal(t, "42", do(t, r, http.MethodGet, "/users/42").Body.String())
}

func TestRouter_Static(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cat.txt"), []byte("meow"), 0o600))

	r, _ := newRouter(t)
	r.Static("/public", dir)

	rr := do(t, r, http.MethodGet, "/public/cat.txt")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "meow", rr.Body.String())
}

func TestRouter_Routes(t *testing.T) {
	r, _ := newRouter(t)
	r.Get("/hello", okHandler)
	r.Post("/users", okHandler)

	routes, err := r.Routes()
	require.NoError(t, err)
	assert.ElementsMatch(t, []routing.Route{
		{Method: http.MethodGet, Pattern: "/hello"},
		{Method: http.MethodPost, Pattern: "/users"},
	}, routes)
}

// ── Resource controllers ─────────────────────────────────────────────────────

func TestRouter_Resource(t *testing.T) {
	r, _ := newRouter(t)
	r.Resource("/photos", container.TypeOf[*PhotoController]())

	tests := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/photos", "index"},
		{http.MethodPost, "/photos", "store"},
		{http.MethodGet, "/photos/3", "show 3"},
		{http.MethodPut, "/photos/3", "update 3"},
		{http.MethodPatch, "/photos/3", "update 3"},
		{http.MethodDelete, "/photos/3", "destroy 3"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := do(t, r, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, rr.Body.String())
		})
	}
}

func TestRouter_ResourceWithoutController(t *testing.T) {
	r, _ := newRouter(t)
	r.Resource("/wrong", container.TypeOf[*NotAController]())
	r.Resource("/missing", container.TypeOf[*Visit]().Elem())

	assert.Equal(t, http.StatusInternalServerError, do(t, r, http.MethodGet, "/wrong").Code)
	assert.Equal(t, http.StatusInternalServerError, do(t, r, http.MethodGet, "/missing").Code)
}

func TestController(t *testing.T) {
	r, _ := newRouter(t)
	r.Get("/photos/{id}/path", routing.Controller((*PhotoController).Path))

	rr := do(t, r, http.MethodGet, "/photos/9/path")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/photos/9/path", rr.Body.String())
}

func TestController_NotRegistered(t *testing.T) {
	r, _ := newRouter(t)
	r.Get("/cat", routing.Controller(func(c *httptest.ResponseRecorder, w http.ResponseWriter, req *http.Request) {}))

	assert.Equal(t, http.StatusInternalServerError, do(t, r, http.MethodGet, "/cat").Code)
}
