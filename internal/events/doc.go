// Package events provides the progress events emitted while content workers run.
//
// The orchestrator publishes one event per lifecycle step of every worker
// (queued, started, completed, failed, timed out) and one when a run finishes.
// Handlers subscribe through an EventEmitter without the orchestrator knowing
// who listens; the metrics recorder is the main consumer.
//
// The primary components are:
// - ProgressEvent: a single lifecycle step of a worker or run
// - EventHandler: interface for components that consume events
// - EventEmitter: interface for components that publish events
package events
