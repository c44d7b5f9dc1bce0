package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/lumen-api/internal/events"
	"github.com/phrazzld/lumen-api/internal/platform/logger"
	"github.com/phrazzld/lumen-api/internal/redact"
)

// DefaultDeadline bounds a whole run when no other deadline is configured.
const DefaultDeadline = 300 * time.Second

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDeadline sets the global run deadline. Non-positive values are ignored.
func WithDeadline(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.deadline = d
		}
	}
}

// WithEmitter publishes progress events for every run.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(o *Orchestrator) {
		o.emitter = emitter
	}
}

// Orchestrator fans work orders out to registered workers.
// It is safe for concurrent use; runs share nothing but the registry.
type Orchestrator struct {
	registry *Registry
	logger   *slog.Logger
	deadline time.Duration
	emitter  events.EventEmitter
}

// NewOrchestrator creates an Orchestrator over the given registry.
func NewOrchestrator(registry *Registry, logger *slog.Logger, opts ...Option) (*Orchestrator, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: registry cannot be nil", ErrInvalidRegistration)
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := &Orchestrator{
		registry: registry,
		logger:   logger.With("component", "content_orchestrator"),
		deadline: DefaultDeadline,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Deadline returns the configured run deadline.
func (o *Orchestrator) Deadline() time.Duration {
	return o.deadline
}

// Info describes the orchestrator and its registered workers.
func (o *Orchestrator) Info() Info {
	return Info{
		Orchestrator:     "ContentOrchestrator",
		AvailableAgents:  o.registry.Names(),
		SupportedFormats: supportedFormats(),
		ExecutionMode:    InfoExecutionMode,
		FallbackStrategy: "graceful_degradation",
		DeadlineSeconds:  o.deadline.Seconds(),
	}
}

type task struct {
	name     string
	worker   Worker
	order    WorkOrder
	launched time.Time
}

// Run executes every work order whose key names a registered worker and
// returns once all of them have finished or the deadline has elapsed,
// whichever comes first. Workers still running at that point are cancelled
// through their context and recorded as failed.
//
// Run never fails as a whole; per-worker failures are reported in the Result.
func (o *Orchestrator) Run(
	ctx context.Context,
	orders WorkOrderSet,
	analysis AnalysisContext,
	user UserContext,
) *Result {
	runID := ulid.Make().String()
	log := logger.FromContextOr(ctx, o.logger).With("run_id", runID)

	tasks := o.plan(ctx, log, runID, orders)

	log.Info("content run started",
		"workers", len(tasks),
		"deadline", o.deadline.String())

	runCtx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	var (
		mu        sync.Mutex
		collected = make(map[string]Outcome, len(tasks))
		closed    bool
		g         errgroup.Group
	)

	start := time.Now()
	for i := range tasks {
		t := &tasks[i]
		t.launched = time.Now()
		o.emit(ctx, log, events.NewProgressEvent(runID, events.WorkerStarted, t.name))
		log.Debug("content worker started", "worker", t.name)

		g.Go(func() error {
			out := o.execute(runCtx, ctx, t, analysis, user)

			mu.Lock()
			defer mu.Unlock()
			if closed {
				// The deadline already recorded this worker as timed out.
				log.Debug("discarding late worker outcome",
					"worker", t.name,
					"status", out.Status,
					"elapsed", time.Since(t.launched).String())
				return nil
			}
			collected[t.name] = out
			o.report(ctx, log, runID, t.name, out, false)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-runCtx.Done():
	}

	mu.Lock()
	closed = true
	finished := time.Now()
	for _, t := range tasks {
		if _, ok := collected[t.name]; ok {
			continue
		}
		err := fmt.Errorf("%w: %s after %s", batchError(ctx), t.name, o.deadline)
		out := failedOutcome(t.name, err, finished.Sub(t.launched))
		collected[t.name] = out
		o.report(ctx, log, runID, t.name, out, true)
	}
	mu.Unlock()

	result := &Result{
		RunID:   runID,
		Summary: summarize(collected, finished.Sub(start)),
		Content: collected,
		Formats: mapFormats(collected),
	}

	log.Info("content run completed",
		"total", result.Summary.Total,
		"succeeded", result.Summary.Succeeded,
		"failed", result.Summary.Failed,
		"failed_workers", result.Summary.FailedNames,
		"elapsed", result.Summary.TotalElapsed.String())

	runEvent := events.NewProgressEvent(runID, events.RunCompleted, "").WithElapsed(result.Summary.TotalElapsed)
	runEvent.Failed = result.Summary.Failed
	o.emit(ctx, log, runEvent)

	return result
}

// RunOne executes a single registered worker under the same deadline,
// fallback and logging rules as Run. Unlike Run it rejects unknown names with
// an error wrapping ErrUnknownWorker.
func (o *Orchestrator) RunOne(
	ctx context.Context,
	name string,
	order WorkOrder,
	analysis AnalysisContext,
	user UserContext,
) (Outcome, error) {
	if _, ok := o.registry.Get(name); !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownWorker, name)
	}

	result := o.Run(ctx, WorkOrderSet{name: order}, analysis, user)
	return result.Content[name], nil
}

// plan selects the registered workers named by orders, in name order.
func (o *Orchestrator) plan(ctx context.Context, log *slog.Logger, runID string, orders WorkOrderSet) []task {
	names := make([]string, 0, len(orders))
	for name := range orders {
		names = append(names, name)
	}
	sort.Strings(names)

	tasks := make([]task, 0, len(names))
	for _, name := range names {
		w, ok := o.registry.Get(name)
		if !ok {
			log.Warn("skipping work order",
				"worker", name,
				"error", ErrUnknownWorker)
			continue
		}
		tasks = append(tasks, task{name: name, worker: w, order: orders[name]})
		o.emit(ctx, log, events.NewProgressEvent(runID, events.WorkerQueued, name))
	}

	return tasks
}

// execute runs one worker, converting errors and panics into failed outcomes.
// runCtx carries the deadline; parent is the caller's context and is used to
// tell a cancellation from a timeout.
func (o *Orchestrator) execute(
	runCtx, parent context.Context,
	t *task,
	analysis AnalysisContext,
	user UserContext,
) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %s: %v", ErrWorkerPanic, t.name, r)
			out = failedOutcome(t.name, err, time.Since(t.launched))
		}
	}()

	c, err := t.worker.Generate(runCtx, t.order, analysis, user)
	elapsed := time.Since(t.launched)

	if err != nil {
		if runCtx.Err() != nil {
			err = fmt.Errorf("%w: %s: %w", batchError(parent), t.name, err)
		} else {
			err = fmt.Errorf("%s: %w", t.name, err)
		}
		return failedOutcome(t.name, err, elapsed)
	}

	if c == nil {
		c = Content{}
	}

	return Outcome{Status: StatusSuccess, Content: c, Elapsed: elapsed}
}

// report logs and emits the terminal state of one worker.
func (o *Orchestrator) report(ctx context.Context, log *slog.Logger, runID, name string, out Outcome, timedOut bool) {
	switch {
	case out.Status == StatusSuccess:
		log.Info("content worker completed",
			"worker", name,
			"elapsed", out.Elapsed.String())
		o.emit(ctx, log, events.NewProgressEvent(runID, events.WorkerCompleted, name).WithElapsed(out.Elapsed))
	case timedOut:
		log.Warn("content worker timed out",
			"worker", name,
			"elapsed", out.Elapsed.String(),
			"error", out.Error)
		o.emit(ctx, log, events.NewProgressEvent(runID, events.WorkerTimedOut, name).
			WithElapsed(out.Elapsed).
			WithError(out.Error))
	default:
		log.Warn("content worker failed",
			"worker", name,
			"elapsed", out.Elapsed.String(),
			"error", out.Error)
		o.emit(ctx, log, events.NewProgressEvent(runID, events.WorkerFailed, name).
			WithElapsed(out.Elapsed).
			WithError(out.Error))
	}
}

func (o *Orchestrator) emit(ctx context.Context, log *slog.Logger, event *events.ProgressEvent) {
	if o.emitter == nil {
		return
	}
	// Handlers must not see the run deadline; the caller context is enough.
	if err := o.emitter.EmitEvent(context.WithoutCancel(ctx), event); err != nil {
		log.Warn("failed to emit progress event",
			"event_type", event.Type,
			"worker", event.Worker,
			"error", err)
	}
}

func batchError(parent context.Context) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return ErrBatchCancelled
	}
	return ErrBatchTimeout
}

func failedOutcome(name string, err error, elapsed time.Duration) Outcome {
	return Outcome{
		Status:          StatusFailed,
		Error:           redact.Error(err),
		Elapsed:         elapsed,
		FallbackContent: Fallback(name),
		err:             err,
	}
}

func summarize(outcomes map[string]Outcome, total time.Duration) Summary {
	s := Summary{
		Total:        len(outcomes),
		FailedNames:  []string{},
		TotalElapsed: total,
	}

	var sum time.Duration
	for name, out := range outcomes {
		sum += out.Elapsed
		if out.Status == StatusSuccess {
			s.Succeeded++
			continue
		}
		s.Failed++
		s.FailedNames = append(s.FailedNames, name)
	}
	sort.Strings(s.FailedNames)

	if s.Total > 0 {
		s.AverageElapsed = sum / time.Duration(s.Total)
	}

	return s
}

func mapFormats(outcomes map[string]Outcome) map[Slot]Outcome {
	formats := make(map[Slot]Outcome, len(formatTable))
	for _, e := range formatTable {
		if out, ok := outcomes[e.worker]; ok {
			formats[e.slot] = out
			continue
		}
		formats[e.slot] = Outcome{Status: StatusNotGenerated, Content: Fallback(e.worker)}
	}
	return formats
}
