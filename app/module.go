package app

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/km-arc/go-ioc/framework/container"
	gohttp "github.com/km-arc/go-ioc/framework/http"
	"github.com/km-arc/go-ioc/routing"
)

var errNoRouter = errors.New("app: no router registered; register providers.RoutingModule first")

// Module registers the cats API and mounts it under /api.
//
//	GET    /api/cats, /api/cats/{id}
//	POST   /api/cats
//	PUT    /api/cats/{id}
//	DELETE /api/cats/{id}
//	GET    /api/whoami
type Module struct {
	// Seed names the cats the repository starts with.
	Seed []string
}

func (m *Module) Register(services *container.ServiceCollection) error {
	seed := m.Seed
	newRepository := func(logger *slog.Logger) *InMemoryCatsRepository {
		return NewInMemoryCatsRepository(logger, seed...)
	}

	if err := services.AddSingleton(container.TypeOf[CatsRepository](), newRepository, container.WithParamNames("logger")); err != nil {
		return err
	}
	if err := services.AddExactScoped(container.TypeOf[*RequestContext]()); err != nil {
		return err
	}
	if err := services.AddExactTransient(container.TypeOf[*GetCatHandler]()); err != nil {
		return err
	}
	return services.AddExactTransient(container.TypeOf[*CatsController]())
}

func (m *Module) Boot(provider *container.Provider) error {
	router, err := container.Get[*routing.Router](provider, nil)
	if err != nil {
		return err
	}
	if router == nil {
		return errNoRouter
	}

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{"message": "Welcome to the cats API"})
	})
	router.Prefix("/api", func(api *routing.Router) {
		api.Resource("/cats", container.TypeOf[*CatsController]())
		api.Get("/whoami", routing.Controller((*CatsController).Whoami))
	})
	return nil
}
