package content

import "errors"

var (
	// ErrWorkerPanic wraps a panic recovered from a worker invocation.
	ErrWorkerPanic = errors.New("content worker panicked")

	// ErrBatchTimeout is recorded for every worker still outstanding when the
	// run deadline elapses.
	ErrBatchTimeout = errors.New("content worker exceeded the run deadline")

	// ErrBatchCancelled is recorded for every worker still outstanding when the
	// caller cancels the run.
	ErrBatchCancelled = errors.New("content run cancelled")

	// ErrUnknownWorker marks a work order whose key names no registered worker.
	// Run only logs it; RunOne returns it.
	ErrUnknownWorker = errors.New("no worker registered for work order")

	// ErrContractViolation indicates a work-order payload that is not a JSON
	// object of objects.
	ErrContractViolation = errors.New("work orders must be an object of objects")

	// ErrInvalidRegistration indicates a registry built with an empty name or
	// a nil worker.
	ErrInvalidRegistration = errors.New("invalid worker registration")
)
