package providers

import (
	"log/slog"
	"os"

	"github.com/km-arc/go-ioc/framework/config"
	"github.com/km-arc/go-ioc/framework/container"
	gohttp "github.com/km-arc/go-ioc/framework/http"
	"github.com/km-arc/go-ioc/framework/logging"
	"github.com/km-arc/go-ioc/routing"
)

// ── ConfigModule ──────────────────────────────────────────────────────────────

// ConfigModule registers the application configuration and the process
// logger as instances.
//
// Registered keys:
//   - *config.Config  (alias "config")
//   - *slog.Logger    (alias "logger")
//
// A nil Config is loaded from EnvFiles; a nil Logger is built from the
// loaded configuration and writes to stderr.
type ConfigModule struct {
	container.BaseModule
	Config   *config.Config
	Logger   *slog.Logger
	EnvFiles []string
}

func (m *ConfigModule) Register(services *container.ServiceCollection) error {
	cfg := m.Config
	if cfg == nil {
		loaded, err := config.Load(m.EnvFiles...)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	logger := m.Logger
	if logger == nil {
		logger = logging.New(cfg.Log, os.Stderr)
	}

	if err := services.AddInstance(cfg); err != nil {
		return err
	}
	if err := services.AddInstance(logger); err != nil {
		return err
	}
	if err := services.AddAlias("config", container.TypeOf[*config.Config]()); err != nil {
		return err
	}
	return services.AddAlias("logger", container.TypeOf[*slog.Logger]())
}

// ── RoutingModule ─────────────────────────────────────────────────────────────

// RoutingModule registers the HTTP router and the request scoped services.
//
// Registered keys:
//   - *routing.Router  singleton (alias "router")
//   - *http.Request    scoped, seeded by the router for every request
//   - *gohttp.Request  scoped, wraps the current request
//
// The router logs through the *slog.Logger registered by ConfigModule, and
// discards its logs when there is none.
type RoutingModule struct {
	container.BaseModule
}

func (m *RoutingModule) Register(services *container.ServiceCollection) error {
	if err := services.AddSingletonFactory(newRouter, nil); err != nil {
		return err
	}
	if err := services.AddScopedFactory(routing.CurrentRequest, nil); err != nil {
		return err
	}
	if err := services.AddExactScoped(gohttp.NewRequest, container.WithParamNames("request")); err != nil {
		return err
	}
	return services.AddAlias("router", container.TypeOf[*routing.Router]())
}

func newRouter(ctx *container.ResolutionContext) (*routing.Router, error) {
	logger, err := container.Get[*slog.Logger](ctx.Provider(), ctx)
	if err != nil {
		return nil, err
	}
	return routing.New(ctx.Provider(), logger), nil
}
