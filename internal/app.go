package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
	"vibes/internal/backup/interfaces"
	"vibes/internal/controllers"
	"vibes/internal/live"
	"vibes/internal/providers"
	"vibes/internal/structures"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	WebServer *http.Server
	scheduler interfaces.SchedulerInterface
	hub       *live.Hub
	logger    providers.Logger
	conf      *structures.Config
}

func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, hub *live.Hub, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", providers.MetricsMiddleware(metrics, apiMux))

	return &App{
		WebServer: &http.Server{
			Addr:              conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		scheduler: scheduler,
		hub:       hub,
		logger:    logger,
		conf:      conf,
	}
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
// and writes a final backup.
func (app *App) Run(ctx context.Context) error {
	app.logger.Infof(providers.TypeApp, "Starting %s", app.conf.AppName)
	if err := app.scheduler.Restore(); err != nil {
		app.logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}
	app.scheduler.Init()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", app.WebServer.Addr)
		if err := app.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.logger.Infof(providers.TypeApp, "Shutdown signal received")

		app.scheduler.Stop()
		app.hub.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.WebServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if perr := app.scheduler.Persist(); perr != nil {
		err = errors.Join(err, perr)
	}
	if err != nil {
		return err
	}
	app.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
