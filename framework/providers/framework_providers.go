// Package providers holds the service providers every Application
// registers: configuration, logging, metrics and the inspection router.
package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-ctx/framework/config"
	"github.com/km-arc/go-ctx/framework/container"
	"github.com/km-arc/go-ctx/framework/metrics"
	"github.com/km-arc/go-ctx/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration as an instance.
//
// Bound names:
//   - "config" → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(_ *container.Registry, b *container.Bindings) {
	id := container.InstanceOf(b, p.Config)
	b.Alias(id, "config")
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger.
//
// Bound names:
//   - "logger" → *zap.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(_ *container.Registry, b *container.Bindings) {
	id := container.InstanceOf(b, p.Logger)
	b.Alias(id, "logger")
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider binds the Prometheus collector.
//
// Bound names:
//   - "metrics" → *metrics.Collector
type MetricsServiceProvider struct {
	container.BaseProvider
	Collector *metrics.Collector
}

func (p *MetricsServiceProvider) Register(_ *container.Registry, b *container.Bindings) {
	id := container.InstanceOf(b, p.Collector)
	b.Alias(id, "metrics")
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the router constructor, so the router
// is built lazily by the root container on first Get.
//
// Registered names:
//   - "router" → *routing.Router
//
// Boot attaches request logging with the bound logger.
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(types *container.Registry, _ *container.Bindings) {
	id := container.Register(types, routing.New)
	types.Alias(id, "router")
}

func (p *RoutingServiceProvider) Boot(c *container.Container) error {
	log, err := container.Get[*zap.Logger](c)
	if err != nil {
		return err
	}
	router, err := container.Get[*routing.Router](c)
	if err != nil {
		return err
	}
	router.Middleware(routing.RequestLogger(log))
	return nil
}
