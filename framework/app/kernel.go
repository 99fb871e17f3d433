package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-ctx/framework/config"
	"github.com/km-arc/go-ctx/framework/container"
	gohttp "github.com/km-arc/go-ctx/framework/http"
	"github.com/km-arc/go-ctx/framework/logging"
	"github.com/km-arc/go-ctx/framework/metrics"
	"github.com/km-arc/go-ctx/framework/providers"
	"github.com/km-arc/go-ctx/framework/routing"
)

const shutdownTimeout = 5 * time.Second

// Application owns the root container and everything it resolves through:
// the registry, the explicit bindings and the service providers.
//
//	application, err := app.New()
//	container.Register(application.Types, NewLedger)
//	err = application.Run(ctx)
type Application struct {
	Container *container.Container
	Types     *container.Registry
	Bindings  *container.Bindings
	Providers *container.ProviderRegistry

	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Collector

	routesOnce sync.Once
	routes     *routing.Router
	routesErr  error
}

// New loads configuration from envFiles and the environment, then builds
// the application.
func New(envFiles ...string) (*Application, error) {
	cfg, err := config.LoadE(envFiles...)
	if err != nil {
		return nil, fmt.Errorf("app: config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds the application from an already loaded config:
// logger, metrics, root container and the framework providers.
func NewWithConfig(cfg *config.Config) (*Application, error) {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	log = log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	collector := metrics.NewCollector(cfg.Metrics.Namespace)
	types := container.NewRegistry()
	bindings := container.NewBindings()
	root := container.New(types,
		container.WithDelegate(bindings),
		container.WithLogger(log),
		container.WithObserver(collector),
	)

	a := &Application{
		Container: root,
		Types:     types,
		Bindings:  bindings,
		Providers: container.NewProviderRegistry(root, types, bindings, log),
		Config:    cfg,
		Logger:    log,
		Metrics:   collector,
	}

	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: log},
		&providers.MetricsServiceProvider{Collector: collector},
		&providers.RoutingServiceProvider{},
	} {
		if err := a.Providers.Register(p); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Handler boots the application if needed and returns the inspection
// router with its routes mounted.
func (a *Application) Handler() (http.Handler, error) {
	a.routesOnce.Do(func() {
		if err := a.Boot(); err != nil {
			a.routesErr = err
			return
		}
		router, err := container.Get[*routing.Router](a.Container)
		if err != nil {
			a.routesErr = err
			return
		}
		a.mount(router)
		a.routes = router
	})
	return a.routes, a.routesErr
}

// Run serves the inspection router on Debug.Addr until ctx is done, then
// shuts down gracefully. With Debug.Enabled false it only boots.
func (a *Application) Run(ctx context.Context) error {
	if !a.Config.Debug.Enabled {
		a.Logger.Info("inspection server disabled")
		return a.Boot()
	}

	handler, err := a.Handler()
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	srv := &http.Server{
		Addr:              a.Config.Debug.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("inspection server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("app: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Logger.Info("inspection server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	return nil
}

// ── Inspection routes ─────────────────────────────────────────────────────────

func (a *Application) mount(r *routing.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{"status": "ok"})
	})
	r.Get("/types", func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).Success(a.Types.Names())
	})
	r.Handle("/metrics", a.Metrics.Handler())

	r.Prefix("/context", func(ctx *routing.Router) {
		ctx.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			gohttp.NewResponse(w).Success(a.Container.Snapshot())
		})
		ctx.Post("/{name}", a.resolve(a.Container.GetNamed))
		ctx.Post("/{name}/new", a.resolve(a.Container.CreateNamed))
	})
}

func (a *Application) resolve(lookup func(string) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := gohttp.NewResponse(w)
		v, err := lookup(routing.Param(r, "name"))
		if err != nil {
			res.ResolutionError(err, metrics.Kind(err))
			return
		}
		res.Success(Describe(v))
	}
}

// Describe summarizes a resolved instance: its type identity and, for
// pointers, its address, so repeated Gets can be told apart from Creates.
func Describe(v any) map[string]any {
	out := map[string]any{"type": container.TypeKey(v).String()}
	if v != nil && reflect.ValueOf(v).Kind() == reflect.Pointer {
		out["addr"] = fmt.Sprintf("%p", v)
	}
	return out
}
