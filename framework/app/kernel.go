package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/km-arc/go-ioc/framework/config"
	"github.com/km-arc/go-ioc/framework/container"
	"github.com/km-arc/go-ioc/framework/logging"
	"github.com/km-arc/go-ioc/framework/providers"
	"github.com/km-arc/go-ioc/routing"
)

const shutdownTimeout = 10 * time.Second

// Application wires configuration, logging and modules into one provider
// and serves the router it builds.
//
//	application, err := app.New()
//	application.Register(&cats.Module{})
//	err = application.Run(ctx)
type Application struct {
	config  *config.Config
	logger  *slog.Logger
	modules *container.ModuleRegistry
}

// Option configures New.
type Option func(*options)

type options struct {
	envFiles  []string
	config    *config.Config
	logOutput io.Writer
}

// WithEnvFiles sets the env files config.Load reads.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = files }
}

// WithConfig skips config.Load and uses cfg.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithLogOutput sends the application log to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// New creates the application and registers the framework modules
// (configuration first, then routing). With APP_DEBUG set the log level is
// forced to debug, so container and request logs are all written.
func New(opts ...Option) (*Application, error) {
	o := options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := o.config
	if cfg == nil {
		loaded, err := config.Load(o.envFiles...)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	a := &Application{config: cfg}

	logCfg := cfg.Log
	if a.IsDebug() {
		logCfg.Level = "debug"
	}
	a.logger = logging.New(logCfg, o.logOutput).With("app", cfg.App.Name)
	a.modules = container.NewModuleRegistry(container.New(container.WithLogger(a.logger)))

	if err := a.modules.Register(&providers.ConfigModule{Config: cfg, Logger: a.logger}); err != nil {
		return nil, err
	}
	if err := a.modules.Register(&providers.RoutingModule{}); err != nil {
		return nil, err
	}
	return a, nil
}

// Register adds a module. Modules must be registered before Build.
func (a *Application) Register(m container.Module) error {
	return a.modules.Register(m)
}

// Build builds the provider and boots every module. It is called by Run
// and may be called earlier to fail fast.
func (a *Application) Build() (*container.Provider, error) {
	return a.modules.Build()
}

// Config returns the application configuration.
func (a *Application) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger { return a.logger }

// Router builds the application if needed and returns its router.
func (a *Application) Router() (*routing.Router, error) {
	provider, err := a.Build()
	if err != nil {
		return nil, err
	}
	return container.Get[*routing.Router](provider, nil)
}

// Run listens on APP_PORT and serves until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.App.Addr())
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve serves the router on ln until ctx is cancelled, then shuts the
// server down gracefully.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	router, err := a.Router()
	if err != nil {
		ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	a.logger.Info("server started",
		"addr", ln.Addr().String(),
		"env", a.Environment(),
		"debug", a.IsDebug(),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.config.App.Env }

// IsDebug reports APP_DEBUG.
func (a *Application) IsDebug() bool { return a.config.App.Debug }
