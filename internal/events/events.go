package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the lifecycle step a ProgressEvent describes.
type EventType string

// Worker and run lifecycle steps.
const (
	WorkerQueued    EventType = "worker_queued"
	WorkerStarted   EventType = "worker_started"
	WorkerCompleted EventType = "worker_completed"
	WorkerFailed    EventType = "worker_failed"
	WorkerTimedOut  EventType = "worker_timed_out"
	RunCompleted    EventType = "run_completed"
)

// ProgressEvent reports a single step in an orchestration run.
type ProgressEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// RunID identifies the orchestration run the event belongs to
	RunID string `json:"run_id"`

	// Type is the lifecycle step
	Type EventType `json:"type"`

	// Worker is the worker name; empty for run-level events
	Worker string `json:"worker,omitempty"`

	// Elapsed is the time spent so far by the worker (or the run)
	Elapsed time.Duration `json:"elapsed"`

	// Error holds the failure message for failed or timed out workers
	Error string `json:"error,omitempty"`

	// Failed is the number of failed workers, set on RunCompleted only
	Failed int `json:"failed,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewProgressEvent creates a ProgressEvent for the given run, step and worker.
func NewProgressEvent(runID string, eventType EventType, worker string) *ProgressEvent {
	return &ProgressEvent{
		ID:        uuid.New(),
		RunID:     runID,
		Type:      eventType,
		Worker:    worker,
		CreatedAt: time.Now(),
	}
}

// WithElapsed sets the elapsed duration and returns the event for chaining.
func (e *ProgressEvent) WithElapsed(d time.Duration) *ProgressEvent {
	e.Elapsed = d
	return e
}

// WithError sets the error message and returns the event for chaining.
func (e *ProgressEvent) WithError(msg string) *ProgressEvent {
	e.Error = msg
	return e
}

// EventHandler defines an interface for components that can handle events.
// Handlers are called from worker goroutines and must be safe for concurrent use.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ProgressEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows the orchestrator to publish progress without knowing the handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *ProgressEvent) error
}

// HandlerFunc adapts a plain function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *ProgressEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *ProgressEvent) error {
	return f(ctx, event)
}
