// Package registry dispatches calls to operations registered by name.
package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/citrine/pkg/operation"
)

var (
	// ErrOperationNotFound is returned by Call for unknown names.
	ErrOperationNotFound = errors.New("operation not found")
	// ErrInternalServer is returned by Call when the operation ended with its
	// Failure result, that is, an unexpected error rather than a declared outcome.
	ErrInternalServer = errors.New("internal server error")
)

// Runner is the part of an operation the registry needs.
type Runner interface {
	Name() string
	Call(ctx context.Context, params map[string]any) *operation.Result
	FailureResult() *operation.ResultType
}

// Registry manages the available operations.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Runner
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ops: make(map[string]Runner),
	}
}

// Register adds operations under their names.
// If an operation with the same name exists, it is overwritten.
func (r *Registry) Register(ops ...Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, op := range ops {
		r.ops[op.Name()] = op
	}
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (Runner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	return op, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Call looks up an operation by name and runs it.
// The result is returned even when the error is ErrInternalServer.
func (r *Registry) Call(ctx context.Context, name string, params map[string]any) (*operation.Result, error) {
	op, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, name)
	}

	res := op.Call(ctx, params)
	if res.Is(op.FailureResult()) {
		return res, fmt.Errorf("%w: %s", ErrInternalServer, res.Message())
	}
	return res, nil
}
