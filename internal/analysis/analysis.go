package analysis

import (
	"context"
	"errors"

	"github.com/phrazzld/lumen-api/internal/content"
)

var (
	// ErrEmptyTranscript is returned when there is nothing to analyse.
	ErrEmptyTranscript = errors.New("transcript cannot be empty")

	// ErrInvalidAnalysis is returned when the model's analysis does not carry
	// usable work orders.
	ErrInvalidAnalysis = errors.New("analysis is missing valid work orders")
)

// Analysis is the upstream result handed to the orchestrator.
type Analysis struct {
	// Context is the full analysis, shared read-only by every worker.
	Context content.AnalysisContext
	// WorkOrders holds one entry per requested learning format.
	WorkOrders content.WorkOrderSet
}

// Analyzer produces an Analysis for a transcript and learner.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string, user content.UserContext) (*Analysis, error)
}
