package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/phrazzld/lumen-api/internal/analysis"
	"github.com/phrazzld/lumen-api/internal/content"
	"github.com/phrazzld/lumen-api/internal/domain"
)

// ContentRunner is the orchestration surface used by services and handlers.
// *content.Orchestrator implements it.
type ContentRunner interface {
	Run(
		ctx context.Context,
		orders content.WorkOrderSet,
		analysis content.AnalysisContext,
		user content.UserContext,
	) *content.Result
	RunOne(
		ctx context.Context,
		name string,
		order content.WorkOrder,
		analysis content.AnalysisContext,
		user content.UserContext,
	) (content.Outcome, error)
	Info() content.Info
}

var _ ContentRunner = (*content.Orchestrator)(nil)

// LessonRequest asks for a full lesson from a transcript.
type LessonRequest struct {
	Transcript string
	User       content.UserContext
}

// Lesson is the analysis together with the generated content.
type Lesson struct {
	Analysis content.AnalysisContext `json:"analysis"`
	Result   *content.Result         `json:"result"`
}

// DefaultAnalysisTimeout bounds transcript analysis when no budget is
// configured.
const DefaultAnalysisTimeout = 3 * time.Minute

// LessonOption configures a LessonService.
type LessonOption func(*LessonService)

// WithAnalysisTimeout sets the time budget for transcript analysis,
// including the generator's retries. Non-positive values are ignored.
func WithAnalysisTimeout(d time.Duration) LessonOption {
	return func(s *LessonService) {
		if d > 0 {
			s.analysisTimeout = d
		}
	}
}

// LessonService turns a transcript into a lesson: analysis first, then
// concurrent content generation for every work order.
type LessonService struct {
	analyzer        analysis.Analyzer
	runner          ContentRunner
	analysisTimeout time.Duration
	logger          *slog.Logger
}

// NewLessonService creates a LessonService.
func NewLessonService(
	analyzer analysis.Analyzer,
	runner ContentRunner,
	logger *slog.Logger,
	opts ...LessonOption,
) *LessonService {
	s := &LessonService{
		analyzer:        analyzer,
		runner:          runner,
		analysisTimeout: DefaultAnalysisTimeout,
		logger:          logger.With("component", "lesson_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalysisTimeout returns the transcript analysis budget.
func (s *LessonService) AnalysisTimeout() time.Duration {
	return s.analysisTimeout
}

// Generate analyses the transcript and runs the resulting work orders.
// Analysis failures are returned, wrapping ErrAnalysisTimeout when the
// analysis budget runs out; worker failures are reported inside the result.
// A lesson therefore takes at most the analysis budget plus the run deadline.
func (s *LessonService) Generate(ctx context.Context, req LessonRequest) (*Lesson, error) {
	a, err := s.analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("transcript analysed", "work_orders", len(a.WorkOrders))

	result := s.runner.Run(ctx, a.WorkOrders, a.Context, req.User)

	return &Lesson{Analysis: a.Context, Result: result}, nil
}

func (s *LessonService) analyze(ctx context.Context, req LessonRequest) (*analysis.Analysis, error) {
	actx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
	defer cancel()

	start := time.Now()
	a, err := s.analyzer.Analyze(actx, req.Transcript, req.User)
	if err == nil {
		return a, nil
	}

	// Only our own budget counts as a timeout; caller cancellation is not.
	if ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
		s.logger.Warn("transcript analysis timed out",
			"budget", s.analysisTimeout.String(),
			"elapsed", time.Since(start).String())
		return nil, fmt.Errorf("%w after %s: %w", ErrAnalysisTimeout, s.analysisTimeout, err)
	}

	return nil, fmt.Errorf("failed to analyse transcript: %w", err)
}

// MergeUserContext returns the learner context for a request: the stored
// profile provides defaults and the supplied keys take precedence. Either
// argument may be nil.
func MergeUserContext(profile *domain.User, supplied content.UserContext) content.UserContext {
	merged := content.UserContext{}
	if profile != nil {
		merged = profile.LearnerContext()
	}
	maps.Copy(merged, supplied)
	return merged
}
