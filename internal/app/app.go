// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/vitaltrack-proxy/config"
	"github.com/guttosm/vitaltrack-proxy/internal/http"
	"github.com/guttosm/vitaltrack-proxy/internal/worker"
	"github.com/rs/zerolog/log"
)

// App is the wired proxy.
type App struct {
	Router *gin.Engine
	Worker *worker.Worker

	cfg     config.Config
	storage *StorageComponents
	router  *RouterComponents
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Proxy.CacheName)

	storage := InitializeStorage(cfg.Database, cfg.Proxy)

	proxy, err := InitializeProxy(cfg.Proxy, storage.Storage)
	if err != nil {
		_ = storage.Close(context.Background())
		return nil, err
	}

	routerComponents := InitializeRouter(proxy, storage, cfg)

	return &App{
		Router:  http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config),
		Worker:  proxy.Worker,
		cfg:     cfg,
		storage: storage,
		router:  routerComponents,
	}, nil
}

// Start installs and activates the worker when configured to. A failed
// install is reported, not fatal: the proxy keeps passing requests through
// and install can be retried over the control API.
func (a *App) Start(ctx context.Context) {
	if !a.cfg.Proxy.InstallOnStart {
		log.Info().Msg("Install on start disabled; waiting for POST /sw/install")
		return
	}

	if err := a.Worker.Guard(ctx, "start", a.Worker.Start); err != nil {
		// Guard has already reported panics and Install its own failure.
		if !errors.Is(err, worker.ErrHandlerPanic) && !errors.Is(err, worker.ErrInstallFailed) {
			a.Worker.ReportError(ctx, "start", err)
		}
		return
	}
	log.Info().Str("state", a.Worker.State().String()).Msg("Worker ready")
}

// Close releases background goroutines and the database connection.
func (a *App) Close(ctx context.Context) error {
	a.router.Stop()
	return a.storage.Close(ctx)
}
