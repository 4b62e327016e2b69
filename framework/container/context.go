package container

import (
	"errors"
	"io"
	"reflect"
	"sync/atomic"

	"github.com/google/uuid"
)

// ResolutionContext is the cache boundary for Scoped services: one logical
// request. Every Scoped service is built at most once per context.
//
// A context is owned by its caller and released with Close:
//
//	ctx := provider.NewContext()
//	defer ctx.Close()
//	handler, err := ctx.Get(container.TypeOf[*GetCatHandler]())
type ResolutionContext struct {
	id       uuid.UUID
	provider *Provider
	scoped   *instanceCache
	closed   atomic.Bool
}

// NewContext opens a ResolutionContext on p.
func (p *Provider) NewContext() *ResolutionContext {
	return &ResolutionContext{
		id:       uuid.New(),
		provider: p,
		scoped:   newInstanceCache(),
	}
}

// WithContext runs fn inside a new ResolutionContext and closes it on every
// exit path, panics included. A Close error is returned when fn succeeded.
func (p *Provider) WithContext(fn func(ctx *ResolutionContext) error) (err error) {
	ctx := p.NewContext()
	defer func() {
		if cerr := ctx.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(ctx)
}

// ID identifies the context in logs.
func (c *ResolutionContext) ID() uuid.UUID { return c.id }

// Provider returns the provider the context was opened on. Factories use it
// to look peers up lazily.
func (c *ResolutionContext) Provider() *Provider { return c.provider }

// Get resolves key inside this context.
func (c *ResolutionContext) Get(key any) (any, error) {
	return c.provider.Get(key, c)
}

// Set seeds the scoped cache with a value built outside the container,
// such as the current *http.Request. A Scoped registration for key returns
// it instead of building a new value. Seeded values are not closed by Close.
func (c *ResolutionContext) Set(key reflect.Type, value any) error {
	if c.closed.Load() {
		return ErrContextClosed
	}
	c.scoped.set(key, value)
	return nil
}

// Closed reports whether Close was called.
func (c *ResolutionContext) Closed() bool { return c.closed.Load() }

// Close releases the context. Scoped services it built that implement
// io.Closer are closed, newest first, and their errors joined. Close is
// idempotent; the context cannot be used afterwards.
func (c *ResolutionContext) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	created := c.scoped.drain()
	var errs []error
	for i := len(created) - 1; i >= 0; i-- {
		if closer, ok := created[i].(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	c.provider.logger.Debug("resolution context closed",
		"context", c.id.String(),
		"scoped", len(created),
		"errors", len(errs),
	)
	return errors.Join(errs...)
}
