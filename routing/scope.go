package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/km-arc/go-ioc/framework/container"
)

var (
	// ErrNoScope is returned by Resolve when the request did not pass
	// through ScopeMiddleware.
	ErrNoScope = errors.New("routing: request has no resolution context")

	// ErrNotRegistered is returned by Resolve when the requested service is
	// not registered.
	ErrNotRegistered = errors.New("routing: service not registered")

	// ErrNoRequest is returned when *http.Request is resolved outside a
	// request scope.
	ErrNoRequest = errors.New("routing: no request in scope")
)

// RequestType is the key the current *http.Request is seeded under.
var RequestType = container.TypeOf[*http.Request]()

type scopeKey struct{}

// ScopeMiddleware opens a ResolutionContext for every request and closes it
// once the handler returns, panics included. The request is seeded into the
// context under RequestType, so a Scoped registration for *http.Request
// yields the current request.
func ScopeMiddleware(provider *container.Provider, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			scope := provider.NewContext()
			defer func() {
				if err := scope.Close(); err != nil {
					logger.Error("closing request scope", "context", scope.ID().String(), "error", err)
				}
			}()

			req = req.WithContext(context.WithValue(req.Context(), scopeKey{}, scope))
			if err := scope.Set(RequestType, req); err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// Scope returns the ResolutionContext of the request, nil outside
// ScopeMiddleware.
func Scope(r *http.Request) *container.ResolutionContext {
	scope, _ := r.Context().Value(scopeKey{}).(*container.ResolutionContext)
	return scope
}

// Resolve resolves T from the request scope.
//
//	handler, err := routing.Resolve[*GetCatHandler](r)
func Resolve[T any](r *http.Request) (T, error) {
	var zero T
	scope := Scope(r)
	if scope == nil {
		return zero, ErrNoScope
	}
	key := container.TypeOf[T]()
	if !scope.Provider().Contains(key) {
		return zero, fmt.Errorf("%w: %s", ErrNotRegistered, key)
	}
	return container.Get[T](scope.Provider(), scope)
}

// CurrentRequest is a factory for *http.Request registrations. The scope
// middleware seeds the real request; outside a request it fails with
// ErrNoRequest.
//
//	services.AddScopedFactory(routing.CurrentRequest, nil)
func CurrentRequest() (*http.Request, error) {
	return nil, ErrNoRequest
}
