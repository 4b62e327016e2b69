package container_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-ioc/framework/container"
)

type Session struct {
	Conn *Connection
}

func (s *Session) Close() error {
	s.Conn.Log.names = append(s.Conn.Log.names, "session")
	return nil
}

func arrangeSessions(t *testing.T, log *closeLog, connErr error) *container.Provider {
	t.Helper()
	services := container.New()
	require.NoError(t, services.AddScopedFactory(func() *Connection {
		return &Connection{Log: log, name: "conn", err: connErr}
	}, nil))
	require.NoError(t, services.AddExactScoped(container.TypeOf[*Session]()))
	return build(t, services)
}

// ── Close ─────────────────────────────────────────────────────────────────────

func TestContext_CloseClosesScopedNewestFirst(t *testing.T) {
	log := &closeLog{}
	provider := arrangeSessions(t, log, nil)

	ctx := provider.NewContext()
	_, err := ctx.Get(container.TypeOf[*Session]())
	require.NoError(t, err)
	assert.Empty(t, log.names)

	require.NoError(t, ctx.Close())

	assert.Equal(t, []string{"session", "conn"}, log.names)
	assert.True(t, ctx.Closed())
}

func TestContext_CloseJoinsErrors(t *testing.T) {
	errConn := errors.New("connection reset")
	log := &closeLog{}
	provider := arrangeSessions(t, log, errConn)

	ctx := provider.NewContext()
	_, err := ctx.Get(container.TypeOf[*Session]())
	require.NoError(t, err)

	err = ctx.Close()

	assert.ErrorIs(t, err, errConn)
	assert.Equal(t, []string{"session", "conn"}, log.names)
}

func TestContext_CloseIsIdempotent(t *testing.T) {
	log := &closeLog{}
	provider := arrangeSessions(t, log, errors.New("once"))

	ctx := provider.NewContext()
	_, err := ctx.Get(container.TypeOf[*Connection]())
	require.NoError(t, err)

	assert.Error(t, ctx.Close())
	assert.NoError(t, ctx.Close())
	assert.Equal(t, []string{"conn"}, log.names)
}

func TestContext_SingletonsAreNotClosed(t *testing.T) {
	log := &closeLog{}
	services := container.New()
	require.NoError(t, services.AddSingletonFactory(func() *Connection {
		return &Connection{Log: log, name: "conn"}
	}, nil))
	provider := build(t, services)

	require.NoError(t, provider.WithContext(func(ctx *container.ResolutionContext) error {
		_, err := ctx.Get(container.TypeOf[*Connection]())
		return err
	}))

	assert.Empty(t, log.names)
}

func TestContext_UseAfterClose(t *testing.T) {
	provider := arrangeSessions(t, &closeLog{}, nil)

	ctx := provider.NewContext()
	require.NoError(t, ctx.Close())

	_, err := ctx.Get(container.TypeOf[*Session]())
	assert.ErrorIs(t, err, container.ErrContextClosed)

	err = ctx.Set(container.TypeOf[*Session](), &Session{})
	assert.ErrorIs(t, err, container.ErrContextClosed)
}

func TestContext_ForeignProvider(t *testing.T) {
	first := arrangeSessions(t, &closeLog{}, nil)
	second := arrangeSessions(t, &closeLog{}, nil)

	ctx := first.NewContext()
	defer ctx.Close()

	_, err := second.Get(container.TypeOf[*Session](), ctx)
	assert.ErrorIs(t, err, container.ErrForeignContext)
}

// ── Set ───────────────────────────────────────────────────────────────────────

func TestContext_SetSeedsScopedService(t *testing.T) {
	log := &closeLog{}
	provider := arrangeSessions(t, log, nil)

	seeded := &Connection{Log: log, name: "seeded"}
	ctx := provider.NewContext()
	require.NoError(t, ctx.Set(container.TypeOf[*Connection](), seeded))

	session, err := container.Get[*Session](provider, ctx)
	require.NoError(t, err)
	assert.Same(t, seeded, session.Conn)

	require.NoError(t, ctx.Close())
	assert.Equal(t, []string{"session"}, log.names)
}

// ── WithContext ───────────────────────────────────────────────────────────────

func TestWithContext_ClosesOnSuccess(t *testing.T) {
	log := &closeLog{}
	provider := arrangeSessions(t, log, nil)

	var captured *container.ResolutionContext
	err := provider.WithContext(func(ctx *container.ResolutionContext) error {
		captured = ctx
		_, err := ctx.Get(container.TypeOf[*Connection]())
		return err
	})

	require.NoError(t, err)
	assert.True(t, captured.Closed())
	assert.Equal(t, []string{"conn"}, log.names)
}

func TestWithContext_ReturnsCallbackErrorFirst(t *testing.T) {
	errFn := errors.New("handler failed")
	provider := arrangeSessions(t, &closeLog{}, errors.New("close failed"))

	err := provider.WithContext(func(ctx *container.ResolutionContext) error {
		if _, err := ctx.Get(container.TypeOf[*Connection]()); err != nil {
			return err
		}
		return errFn
	})

	assert.ErrorIs(t, err, errFn)
}

func TestWithContext_ReturnsCloseError(t *testing.T) {
	errClose := errors.New("close failed")
	provider := arrangeSessions(t, &closeLog{}, errClose)

	err := provider.WithContext(func(ctx *container.ResolutionContext) error {
		_, err := ctx.Get(container.TypeOf[*Connection]())
		return err
	})

	assert.ErrorIs(t, err, errClose)
}

func TestWithContext_ClosesOnPanic(t *testing.T) {
	log := &closeLog{}
	provider := arrangeSessions(t, log, nil)

	assert.Panics(t, func() {
		_ = provider.WithContext(func(ctx *container.ResolutionContext) error {
			if _, err := ctx.Get(container.TypeOf[*Connection]()); err != nil {
				return err
			}
			panic("handler exploded")
		})
	})

	assert.Equal(t, []string{"conn"}, log.names)
}

func TestContext_IDsAreUnique(t *testing.T) {
	provider := build(t, container.New())

	a := provider.NewContext()
	b := provider.NewContext()

	assert.NotEqual(t, uuid.Nil, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
