package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/lumen-api/internal/content"
	"github.com/phrazzld/lumen-api/internal/generation"
	"github.com/phrazzld/lumen-api/internal/platform/logger"
)

// PromptWorker is a content.Worker that renders a prompt and asks a
// generation.Generator for the content.
type PromptWorker struct {
	name   string
	gen    generation.Generator
	logger *slog.Logger
}

var _ content.Worker = (*PromptWorker)(nil)

// New creates the worker registered under name. Only the eight known worker
// names have prompts.
func New(name string, gen generation.Generator, logger *slog.Logger) (*PromptWorker, error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: generator cannot be nil", generation.ErrInvalidConfig)
	}
	if prompts.Lookup(name+".tmpl") == nil {
		return nil, fmt.Errorf("%w: no prompt for worker %q", generation.ErrInvalidConfig, name)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PromptWorker{
		name:   name,
		gen:    gen,
		logger: logger.With("component", "content_worker", "worker", name),
	}, nil
}

// Name returns the worker's registry name.
func (w *PromptWorker) Name() string {
	return w.name
}

// Generate implements content.Worker.
func (w *PromptWorker) Generate(
	ctx context.Context,
	order content.WorkOrder,
	analysis content.AnalysisContext,
	user content.UserContext,
) (content.Content, error) {
	log := logger.FromContextOr(ctx, w.logger).With("worker", w.name)
	start := time.Now()

	data, err := newPromptData(order, analysis, user)
	if err != nil {
		return nil, err
	}

	prompt, err := render(w.name, data)
	if err != nil {
		return nil, err
	}

	text, err := w.gen.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	obj, err := generation.DecodeObject(text)
	if err != nil {
		log.WarnContext(ctx, "discarding unparseable worker response",
			"response_length", len(text),
			"error", err)
		return nil, err
	}

	if w.name == content.Visualization {
		if dropped := normalizeCharts(obj); dropped > 0 {
			log.WarnContext(ctx, "dropped charts without usable data", "dropped", dropped)
		}
	}

	obj["agent"] = w.name

	log.DebugContext(ctx, "worker generated content",
		"prompt_length", len(prompt),
		"keys", len(obj),
		"elapsed", time.Since(start).String())

	return content.Content(obj), nil
}

// NewRegistry builds the registry of all eight workers over gen.
func NewRegistry(gen generation.Generator, logger *slog.Logger) (*content.Registry, error) {
	workers := make(map[string]content.Worker, 8)
	for _, name := range content.WorkerNames() {
		w, err := New(name, gen, logger)
		if err != nil {
			return nil, err
		}
		workers[name] = w
	}

	return content.NewRegistry(workers)
}
