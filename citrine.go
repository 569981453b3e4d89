package citrine

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/citrine/internal/logging"
	"github.com/aretw0/citrine/pkg/metrics"
	"github.com/aretw0/citrine/pkg/operation"
	"github.com/aretw0/citrine/pkg/registry"
	"github.com/aretw0/citrine/pkg/schema"
)

// Version is the release of the citrine module.
var Version = "0.1.0"

// Engine is the high-level entry point for the Citrine library. It declares
// operations with a shared logger and hooks, and dispatches calls by name.
type Engine struct {
	registry *registry.Registry
	hooks    operation.Hooks
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks on every operation the engine declares.
func WithLifecycleHooks(hooks operation.Hooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records operation metrics and registers them with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.metrics = metrics.NewCollector(reg)
	}
}

// New initializes a new Citrine Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{registry: registry.NewRegistry()}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.metrics != nil {
		eng.hooks = operation.ComposeHooks(eng.hooks, eng.metrics.Hooks())
	}
	return eng
}

// Operation declares an operation wired to the engine logger and hooks and
// registers it under name. Tasks are added to the returned operation as usual.
func (e *Engine) Operation(name string, opts ...operation.Option) *operation.Operation {
	base := []operation.Option{
		operation.WithLogger(e.logger),
		operation.WithHooks(e.hooks),
	}
	op := operation.New(name, append(base, opts...)...)
	e.registry.Register(op)
	return op
}

// Register adds operations declared elsewhere.
func (e *Engine) Register(ops ...registry.Runner) {
	e.registry.Register(ops...)
}

// Call runs the operation registered under name. It fails with
// registry.ErrOperationNotFound for unknown names and with
// registry.ErrInternalServer, next to the result, when the operation ended
// with its unexpected-failure result.
func (e *Engine) Call(ctx context.Context, name string, params map[string]any) (*operation.Result, error) {
	res, err := e.registry.Call(ctx, name, params)
	if err != nil {
		e.logger.Debug("call failed", "operation", name, "error", err)
	}
	return res, err
}

// Operations returns the registered operation names, sorted.
func (e *Engine) Operations() []string {
	return e.registry.Names()
}

// Validate casts and validates data against a declarative schema.
func Validate(spec schema.Spec, data map[string]any, opts ...schema.Option) (schema.Result, error) {
	return schema.Validate(spec, data, opts...)
}

// Convert is Validate followed by rendering into the output shape.
func Convert(spec schema.Spec, data map[string]any, opts ...schema.Option) (schema.Result, error) {
	return schema.Convert(spec, data, opts...)
}
