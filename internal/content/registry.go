package content

import (
	"context"
	"fmt"
	"sort"
)

// Worker generates content for one learning format.
//
// Implementations must honour ctx: the orchestrator cancels it when the run
// deadline elapses and no longer waits for the result.
type Worker interface {
	Generate(ctx context.Context, order WorkOrder, analysis AnalysisContext, user UserContext) (Content, error)
}

// WorkerFunc adapts a plain function to the Worker interface.
type WorkerFunc func(ctx context.Context, order WorkOrder, analysis AnalysisContext, user UserContext) (Content, error)

// Generate calls f.
func (f WorkerFunc) Generate(
	ctx context.Context,
	order WorkOrder,
	analysis AnalysisContext,
	user UserContext,
) (Content, error) {
	return f(ctx, order, analysis, user)
}

// Registry is an immutable set of named workers.
type Registry struct {
	workers map[string]Worker
	names   []string
}

// NewRegistry builds a registry from the given workers. The map is copied, so
// later changes to it do not affect the registry.
func NewRegistry(workers map[string]Worker) (*Registry, error) {
	r := &Registry{
		workers: make(map[string]Worker, len(workers)),
		names:   make([]string, 0, len(workers)),
	}

	for name, w := range workers {
		if name == "" {
			return nil, fmt.Errorf("%w: empty worker name", ErrInvalidRegistration)
		}
		if w == nil {
			return nil, fmt.Errorf("%w: nil worker for %q", ErrInvalidRegistration, name)
		}
		r.workers[name] = w
		r.names = append(r.names, name)
	}

	sort.Strings(r.names)

	return r, nil
}

// Get returns the worker registered under name.
func (r *Registry) Get(name string) (Worker, bool) {
	w, ok := r.workers[name]
	return w, ok
}

// Names returns the registered worker names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered workers.
func (r *Registry) Len() int {
	return len(r.workers)
}
