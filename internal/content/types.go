package content

import (
	"encoding/json"
	"time"
)

// WorkOrder holds the generation instructions for one worker. It is opaque to
// the orchestrator and passed through unchanged.
type WorkOrder map[string]any

// WorkOrderSet maps worker names to their work orders.
type WorkOrderSet map[string]WorkOrder

// AnalysisContext is the upstream analysis shared read-only by all workers.
type AnalysisContext map[string]any

// UserContext describes the learner (background, language, accessibility).
type UserContext map[string]any

// Content is the structured output of a worker.
type Content map[string]any

// Status is the state of a single worker or format slot.
type Status string

const (
	StatusSuccess      Status = "success"
	StatusFailed       Status = "failed"
	StatusNotGenerated Status = "not_generated"
)

// Outcome records how one worker invocation ended. Successful outcomes carry
// Content; failed outcomes carry Error and FallbackContent. Format slots whose
// worker was never requested use StatusNotGenerated with the fallback as
// Content.
type Outcome struct {
	Status          Status
	Content         Content
	Error           string
	Elapsed         time.Duration
	FallbackContent Content

	err error
}

// Err returns the unredacted error behind a failed outcome, for errors.Is
// checks inside the process. It is never serialised.
func (o Outcome) Err() error {
	return o.err
}

// MarshalJSON renders the outcome with execution_time in seconds. Fields that
// do not apply to the outcome's status are omitted.
func (o Outcome) MarshalJSON() ([]byte, error) {
	m := map[string]any{"status": o.Status}

	switch o.Status {
	case StatusFailed:
		m["execution_time"] = o.Elapsed.Seconds()
		m["error"] = o.Error
		m["fallback_content"] = nonNil(o.FallbackContent)
	case StatusNotGenerated:
		m["content"] = nonNil(o.Content)
	default:
		m["execution_time"] = o.Elapsed.Seconds()
		m["content"] = nonNil(o.Content)
	}

	return json.Marshal(m)
}

func nonNil(c Content) Content {
	if c == nil {
		return Content{}
	}
	return c
}

// Summary aggregates the outcomes of one run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	// FailedNames is sorted by worker name.
	FailedNames []string
	// TotalElapsed spans from the first launch to the last collected outcome.
	TotalElapsed time.Duration
	// AverageElapsed is the mean of the per-worker elapsed times.
	AverageElapsed time.Duration
}

// MarshalJSON renders the summary with durations in seconds.
func (s Summary) MarshalJSON() ([]byte, error) {
	failed := s.FailedNames
	if failed == nil {
		failed = []string{}
	}

	return json.Marshal(struct {
		Total          int      `json:"total_agents"`
		Succeeded      int      `json:"successful_agents"`
		Failed         int      `json:"failed_agents"`
		FailedNames    []string `json:"failed_agent_names"`
		ExecutionMode  string   `json:"execution_mode"`
		TotalElapsed   float64  `json:"total_execution_time"`
		AverageElapsed float64  `json:"average_agent_time"`
	}{
		Total:          s.Total,
		Succeeded:      s.Succeeded,
		Failed:         s.Failed,
		FailedNames:    failed,
		ExecutionMode:  ExecutionMode,
		TotalElapsed:   s.TotalElapsed.Seconds(),
		AverageElapsed: s.AverageElapsed.Seconds(),
	})
}

// Result is the complete output of a run.
type Result struct {
	RunID   string             `json:"run_id"`
	Summary Summary            `json:"orchestration_summary"`
	Content map[string]Outcome `json:"content"`
	Formats map[Slot]Outcome   `json:"learning_formats"`
}
