package routing

import (
	"log/slog"
	"net/http"
	"reflect"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/km-arc/go-ioc/framework/container"
)

// Router wraps chi.Router and resolves controllers from the container, one
// resolution context per request.
type Router struct {
	mux      chi.Router
	provider *container.Provider
	logger   *slog.Logger
}

// New creates a Router serving services from provider. Every request gets
// a request id, a recovered panic handler, a structured access log line and
// its own ResolutionContext.
func New(provider *container.Provider, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(ScopeMiddleware(provider, logger))
	return &Router{mux: r, provider: provider, logger: logger}
}

// Provider returns the provider controllers are resolved from.
func (r *Router) Provider() *container.Provider { return r.provider }

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.mux.Post(pattern, h) }
func (r *Router) Put(pattern string, h http.HandlerFunc)    { r.mux.Put(pattern, h) }
func (r *Router) Patch(pattern string, h http.HandlerFunc)  { r.mux.Patch(pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// Any registers a handler for all common HTTP methods.
func (r *Router) Any(pattern string, h http.HandlerFunc) {
	for _, m := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"} {
		r.mux.Method(m, pattern, h)
	}
}

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group sharing the parent's prefix.
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(r.with(mx))
	})
}

// Prefix creates a sub-router mounted under pattern.
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(r.with(mx))
	})
}

func (r *Router) with(mx chi.Router) *Router {
	return &Router{mux: mx, provider: r.provider, logger: r.logger}
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// accessLog logs one line per request once the handler returns.
func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					"method", req.Method,
					"path", req.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(req.Context()),
				)
			}()
			next.ServeHTTP(ww, req)
		})
	}
}

// ── Resource controllers ─────────────────────────────────────────────────────

// ResourceController handles the standard RESTful routes of a resource.
//
//	GET    /photos           → c.Index
//	POST   /photos           → c.Store
//	GET    /photos/{id}      → c.Show
//	PUT    /photos/{id}      → c.Update
//	DELETE /photos/{id}      → c.Destroy
type ResourceController interface {
	Index(w http.ResponseWriter, r *http.Request)
	Store(w http.ResponseWriter, r *http.Request)
	Show(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Destroy(w http.ResponseWriter, r *http.Request)
}

// Resource registers the RESTful routes for the controller registered under
// key. The controller is resolved from the request scope on every call, so
// it may depend on Scoped and Transient services.
//
//	router.Resource("/cats", container.TypeOf[*app.CatsController]())
func (r *Router) Resource(pattern string, key reflect.Type) {
	action := func(call func(ResourceController, http.ResponseWriter, *http.Request)) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			c, ok := r.resolve(w, req, key)
			if !ok {
				return
			}
			controller, ok := c.(ResourceController)
			if !ok {
				r.logger.Error("service is not a resource controller", "key", key.String())
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			call(controller, w, req)
		}
	}

	r.mux.Get(pattern, action(ResourceController.Index))
	r.mux.Post(pattern, action(ResourceController.Store))
	r.mux.Get(pattern+"/{id}", action(ResourceController.Show))
	r.mux.Put(pattern+"/{id}", action(ResourceController.Update))
	r.mux.Patch(pattern+"/{id}", action(ResourceController.Update))
	r.mux.Delete(pattern+"/{id}", action(ResourceController.Destroy))
}

// Controller adapts a method of a container resolved service into a
// handler. T is resolved from the request scope on every call.
//
//	router.Get("/cats/{id}/owner", routing.Controller((*CatsController).Owner))
func Controller[T any](call func(T, http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		c, err := Resolve[T](req)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		call(c, w, req)
	}
}

func (r *Router) resolve(w http.ResponseWriter, req *http.Request, key reflect.Type) (any, bool) {
	scope := Scope(req)
	if scope == nil {
		r.logger.Error("no resolution context on request", "path", req.URL.Path)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	v, err := scope.Get(key)
	if err == nil && v == nil {
		err = ErrNotRegistered
	}
	if err != nil {
		r.logger.Error("cannot resolve controller", "key", key.String(), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	return v, true
}

// ── Static files ─────────────────────────────────────────────────────────────

// Static serves a filesystem at the given prefix.
// e.g. router.Static("/public", "./public")
func (r *Router) Static(prefix, dir string) {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	r.mux.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		fs.ServeHTTP(w, req)
	})
}

// ── Introspection ────────────────────────────────────────────────────────────

// Route is one registered method and pattern.
type Route struct {
	Method  string `yaml:"method" json:"method"`
	Pattern string `yaml:"pattern" json:"pattern"`
}

// Routes lists the registered routes in chi's walk order.
func (r *Router) Routes() ([]Route, error) {
	var routes []Route
	err := chi.Walk(r.mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, Route{Method: method, Pattern: route})
		return nil
	})
	return routes, err
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL param.
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.Server.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler (for testing etc.).
func (r *Router) Handler() http.Handler {
	return r.mux
}
