package content_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lumen-api/internal/content"
	"github.com/phrazzld/lumen-api/internal/events"
	"github.com/phrazzld/lumen-api/internal/platform/logger"
)

// staticWorker returns its content after an optional delay, honouring ctx.
func staticWorker(c content.Content, delay time.Duration) content.Worker {
	return content.WorkerFunc(func(
		ctx context.Context, _ content.WorkOrder, _ content.AnalysisContext, _ content.UserContext,
	) (content.Content, error) {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return c, nil
	})
}

func failingWorker(err error) content.Worker {
	return content.WorkerFunc(func(
		context.Context, content.WorkOrder, content.AnalysisContext, content.UserContext,
	) (content.Content, error) {
		return nil, err
	})
}

// hungWorker blocks until its context is cancelled.
func hungWorker() content.Worker {
	return content.WorkerFunc(func(
		ctx context.Context, _ content.WorkOrder, _ content.AnalysisContext, _ content.UserContext,
	) (content.Content, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
}

// fullRegistry registers all eight workers, each returning {"agent": name}
// unless overridden.
func fullRegistry(t *testing.T, overrides map[string]content.Worker) *content.Registry {
	t.Helper()

	workers := make(map[string]content.Worker, 8)
	for _, name := range content.WorkerNames() {
		workers[name] = staticWorker(content.Content{"agent": name}, 0)
	}
	for name, w := range overrides {
		workers[name] = w
	}

	r, err := content.NewRegistry(workers)
	require.NoError(t, err)
	return r
}

func allOrders() content.WorkOrderSet {
	orders := make(content.WorkOrderSet, 8)
	for _, name := range content.WorkerNames() {
		orders[name] = content.WorkOrder{"focus": name}
	}
	return orders
}

func newOrchestrator(t *testing.T, r *content.Registry, opts ...content.Option) (*content.Orchestrator, *logger.TestLogBuffer) {
	t.Helper()

	l, buf := logger.GetTestLogger(t)
	o, err := content.NewOrchestrator(r, l, opts...)
	require.NoError(t, err)
	return o, buf
}

func TestNewOrchestrator(t *testing.T) {
	t.Parallel()

	_, err := content.NewOrchestrator(nil, nil)
	assert.ErrorIs(t, err, content.ErrInvalidRegistration)

	o, err := content.NewOrchestrator(fullRegistry(t, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, content.DefaultDeadline, o.Deadline())

	o, err = content.NewOrchestrator(fullRegistry(t, nil), nil, content.WithDeadline(-time.Second))
	require.NoError(t, err)
	assert.Equal(t, content.DefaultDeadline, o.Deadline(), "non-positive deadlines are ignored")

	o, err = content.NewOrchestrator(fullRegistry(t, nil), nil, content.WithDeadline(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, o.Deadline())
}

func TestRunOnlyExplanationRequested(t *testing.T) {
	t.Parallel()

	o, _ := newOrchestrator(t, fullRegistry(t, nil))

	result := o.Run(context.Background(),
		content.WorkOrderSet{content.Explanation: {"depth": "intro"}},
		content.AnalysisContext{}, content.UserContext{})

	require.NotNil(t, result)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.Succeeded)
	assert.Equal(t, 0, result.Summary.Failed)
	assert.Empty(t, result.Summary.FailedNames)

	require.Len(t, result.Content, 1)
	assert.Equal(t, content.StatusSuccess, result.Content[content.Explanation].Status)

	require.Len(t, result.Formats, 8)
	notGenerated := 0
	for slot, out := range result.Formats {
		if slot == content.ConceptExplanation {
			assert.Equal(t, content.StatusSuccess, out.Status)
			assert.Equal(t, content.Content{"agent": content.Explanation}, out.Content)
			continue
		}
		notGenerated++
		assert.Equal(t, content.StatusNotGenerated, out.Status, slot)
		assert.Equal(t, content.Fallback(content.FormatMapping()[slot]), out.Content, slot)
	}
	assert.Equal(t, 7, notGenerated)
}

func TestRunAllWorkersOneFails(t *testing.T) {
	t.Parallel()

	r := fullRegistry(t, map[string]content.Worker{
		content.QuizGeneration: failingWorker(errors.New("bad prompt")),
	})
	o, _ := newOrchestrator(t, r)

	result := o.Run(context.Background(), allOrders(), content.AnalysisContext{}, content.UserContext{})

	assert.Equal(t, 8, result.Summary.Total)
	assert.Equal(t, 7, result.Summary.Succeeded)
	assert.Equal(t, 1, result.Summary.Failed)
	assert.Equal(t, []string{content.QuizGeneration}, result.Summary.FailedNames)

	quiz := result.Formats[content.PracticeProblems]
	assert.Equal(t, content.StatusFailed, quiz.Status)
	assert.Contains(t, quiz.Error, "bad prompt")

	questions, ok := quiz.FallbackContent["questions"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, questions)
	q := questions[0].(map[string]any)
	assert.Contains(t, q, "question")
	assert.Contains(t, q, "options")
	assert.Contains(t, q, "correct")

	for slot, out := range result.Formats {
		if slot != content.PracticeProblems {
			assert.Equal(t, content.StatusSuccess, out.Status, slot)
		}
	}
}

func TestRunEmptyOrders(t *testing.T) {
	t.Parallel()

	o, _ := newOrchestrator(t, fullRegistry(t, nil))

	result := o.Run(context.Background(), content.WorkOrderSet{}, nil, nil)

	assert.Equal(t, 0, result.Summary.Total)
	assert.Equal(t, time.Duration(0), result.Summary.AverageElapsed)
	assert.Empty(t, result.Content)
	require.Len(t, result.Formats, 8)
	for slot, out := range result.Formats {
		assert.Equal(t, content.StatusNotGenerated, out.Status, slot)
	}
}

func TestRunSkipsUnknownWorkers(t *testing.T) {
	t.Parallel()

	o, buf := newOrchestrator(t, fullRegistry(t, nil))

	result := o.Run(context.Background(), content.WorkOrderSet{
		"interpretive_dance": {},
		content.Explanation:  {},
	}, nil, nil)

	assert.Equal(t, 1, result.Summary.Total)
	assert.NotContains(t, result.Content, "interpretive_dance")
	logger.AssertLogContains(t, buf, "skipping work order")
	logger.AssertLogContains(t, buf, "interpretive_dance")
}

func TestRunRecoversPanics(t *testing.T) {
	t.Parallel()

	r := fullRegistry(t, map[string]content.Worker{
		content.Visualization: content.WorkerFunc(func(
			context.Context, content.WorkOrder, content.AnalysisContext, content.UserContext,
		) (content.Content, error) {
			panic("chart library exploded")
		}),
	})
	o, _ := newOrchestrator(t, r)

	result := o.Run(context.Background(), allOrders(), nil, nil)

	out := result.Content[content.Visualization]
	assert.Equal(t, content.StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err(), content.ErrWorkerPanic)
	assert.Contains(t, out.Error, "chart library exploded")
	assert.Equal(t, content.Fallback(content.Visualization), out.FallbackContent)
	assert.Equal(t, 7, result.Summary.Succeeded)
}

func TestRunIsConcurrent(t *testing.T) {
	t.Parallel()

	const delay = 150 * time.Millisecond
	overrides := make(map[string]content.Worker, 8)
	for _, name := range content.WorkerNames() {
		overrides[name] = staticWorker(content.Content{"agent": name}, delay)
	}
	o, _ := newOrchestrator(t, fullRegistry(t, overrides))

	start := time.Now()
	result := o.Run(context.Background(), allOrders(), nil, nil)
	elapsed := time.Since(start)

	assert.Equal(t, 8, result.Summary.Succeeded)
	assert.Less(t, elapsed, 4*delay, "workers should overlap rather than run in sequence")
	assert.GreaterOrEqual(t, result.Summary.TotalElapsed, delay)
	assert.GreaterOrEqual(t, result.Summary.AverageElapsed, delay)
}

func TestRunDeadline(t *testing.T) {
	t.Parallel()

	const deadline = 50 * time.Millisecond
	r := fullRegistry(t, map[string]content.Worker{
		content.VideoGeneration: hungWorker(),
	})
	o, buf := newOrchestrator(t, r, content.WithDeadline(deadline))

	start := time.Now()
	result := o.Run(context.Background(), allOrders(), nil, nil)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, deadline)
	assert.Less(t, elapsed, time.Second)

	video := result.Content[content.VideoGeneration]
	assert.Equal(t, content.StatusFailed, video.Status)
	assert.ErrorIs(t, video.Err(), content.ErrBatchTimeout)
	assert.Equal(t, content.Fallback(content.VideoGeneration), video.FallbackContent)
	assert.Equal(t, video, result.Formats[content.HookVideo])

	assert.Equal(t, 7, result.Summary.Succeeded)
	assert.Equal(t, []string{content.VideoGeneration}, result.Summary.FailedNames)
	logger.AssertLogContains(t, buf, content.VideoGeneration)
}

func TestRunWorkerIgnoringContext(t *testing.T) {
	t.Parallel()

	const deadline = 50 * time.Millisecond

	release := make(chan struct{})
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }
	t.Cleanup(unblock)

	// Never looks at ctx and only returns once the test lets it.
	stubborn := content.WorkerFunc(func(
		context.Context, content.WorkOrder, content.AnalysisContext, content.UserContext,
	) (content.Content, error) {
		<-release
		return content.Content{"agent": content.SummaryWorker, "late": true}, nil
	})

	r := fullRegistry(t, map[string]content.Worker{content.SummaryWorker: stubborn})
	o, buf := newOrchestrator(t, r, content.WithDeadline(deadline))

	start := time.Now()
	result := o.Run(context.Background(), allOrders(), nil, nil)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, deadline)
	assert.Less(t, elapsed, time.Second, "Run must not wait for a worker that ignores cancellation")

	summary := result.Content[content.SummaryWorker]
	assert.Equal(t, content.StatusFailed, summary.Status)
	assert.ErrorIs(t, summary.Err(), content.ErrBatchTimeout)
	assert.Equal(t, content.Fallback(content.SummaryWorker), summary.FallbackContent)
	assert.Equal(t, 7, result.Summary.Succeeded)
	assert.Equal(t, 1, result.Summary.Failed)
	assert.Equal(t, []string{content.SummaryWorker}, result.Summary.FailedNames)

	unblock()
	assert.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "discarding late worker outcome")
	}, time.Second, 5*time.Millisecond)

	after := result.Content[content.SummaryWorker]
	assert.Equal(t, content.StatusFailed, after.Status, "late success must not replace the timeout")
	assert.ErrorIs(t, after.Err(), content.ErrBatchTimeout)
	assert.Nil(t, after.Content)
	assert.Equal(t, 7, result.Summary.Succeeded)
	assert.Equal(t, result.Content[content.SummaryWorker], result.Formats[content.SummaryCards])
}

func TestRunCallerCancellation(t *testing.T) {
	t.Parallel()

	r := fullRegistry(t, map[string]content.Worker{
		content.Application: hungWorker(),
	})
	o, _ := newOrchestrator(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	result := o.Run(ctx, allOrders(), nil, nil)

	assert.Less(t, time.Since(start), time.Second)
	out := result.Content[content.Application]
	assert.Equal(t, content.StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err(), content.ErrBatchCancelled)
}

func TestRunPassesInputsThrough(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		got []any
	)
	capture := content.WorkerFunc(func(
		_ context.Context, order content.WorkOrder, analysis content.AnalysisContext, user content.UserContext,
	) (content.Content, error) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, order, analysis, user)
		return nil, nil
	})

	o, _ := newOrchestrator(t, fullRegistry(t, map[string]content.Worker{content.SummaryWorker: capture}))

	order := content.WorkOrder{"length": "short"}
	analysis := content.AnalysisContext{"subject": "physics"}
	user := content.UserContext{"major": "History"}

	result := o.Run(context.Background(), content.WorkOrderSet{content.SummaryWorker: order}, analysis, user)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 3)
	assert.Equal(t, order, got[0])
	assert.Equal(t, analysis, got[1])
	assert.Equal(t, user, got[2])

	out := result.Content[content.SummaryWorker]
	assert.Equal(t, content.StatusSuccess, out.Status)
	assert.NotNil(t, out.Content, "nil content is normalised to an empty object")
}

func TestRunRedactsErrors(t *testing.T) {
	t.Parallel()

	secret := "AIzaSyA1234567890abcdefghijklmnopqrstu"
	r := fullRegistry(t, map[string]content.Worker{
		content.Explanation: failingWorker(errors.New("request to ?key=" + secret + " failed")),
	})
	o, _ := newOrchestrator(t, r)

	result := o.Run(context.Background(), content.WorkOrderSet{content.Explanation: {}}, nil, nil)

	out := result.Content[content.Explanation]
	assert.NotContains(t, out.Error, secret)
	assert.Contains(t, out.Error, "[REDACTED_KEY]")
	assert.Contains(t, out.Err().Error(), secret)
}

func TestRunEmitsProgressEvents(t *testing.T) {
	t.Parallel()

	l, _ := logger.GetTestLogger(t)
	emitter := events.NewInMemoryEventEmitter(l)

	var (
		mu    sync.Mutex
		types = map[events.EventType]int{}
		final *events.ProgressEvent
	)
	emitter.RegisterHandler(events.HandlerFunc(func(_ context.Context, e *events.ProgressEvent) error {
		mu.Lock()
		defer mu.Unlock()
		types[e.Type]++
		if e.Type == events.RunCompleted {
			final = e
		}
		return nil
	}))

	r := fullRegistry(t, map[string]content.Worker{
		content.CodeEquation: failingWorker(errors.New("no equations")),
	})
	o, _ := newOrchestrator(t, r, content.WithEmitter(emitter))

	result := o.Run(context.Background(), allOrders(), nil, nil)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 8, types[events.WorkerQueued])
	assert.Equal(t, 8, types[events.WorkerStarted])
	assert.Equal(t, 7, types[events.WorkerCompleted])
	assert.Equal(t, 1, types[events.WorkerFailed])
	assert.Equal(t, 1, types[events.RunCompleted])
	require.NotNil(t, final)
	assert.Equal(t, result.RunID, final.RunID)
	assert.Equal(t, 1, final.Failed)
}

func TestRunEmitterErrorsDoNotFailRun(t *testing.T) {
	t.Parallel()

	l, _ := logger.GetTestLogger(t)
	emitter := events.NewInMemoryEventEmitter(l)
	emitter.RegisterHandler(events.HandlerFunc(func(context.Context, *events.ProgressEvent) error {
		return errors.New("sink unavailable")
	}))

	o, buf := newOrchestrator(t, fullRegistry(t, nil), content.WithEmitter(emitter))
	result := o.Run(context.Background(), allOrders(), nil, nil)

	assert.Equal(t, 8, result.Summary.Succeeded)
	logger.AssertLogContains(t, buf, "failed to emit progress event")
}

func TestRunResultJSON(t *testing.T) {
	t.Parallel()

	r := fullRegistry(t, map[string]content.Worker{
		content.QuizGeneration: failingWorker(errors.New("bad prompt")),
	})
	o, _ := newOrchestrator(t, r)

	result := o.Run(context.Background(), content.WorkOrderSet{
		content.Explanation:    {},
		content.QuizGeneration: {},
	}, nil, nil)

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, result.RunID, decoded["run_id"])

	summary := decoded["orchestration_summary"].(map[string]any)
	assert.Equal(t, float64(2), summary["total_agents"])
	assert.Equal(t, float64(1), summary["successful_agents"])
	assert.Equal(t, float64(1), summary["failed_agents"])
	assert.Equal(t, []any{"quiz_generation"}, summary["failed_agent_names"])
	assert.Equal(t, "parallel", summary["execution_mode"])
	assert.Contains(t, summary, "total_execution_time")
	assert.Contains(t, summary, "average_agent_time")

	contentMap := decoded["content"].(map[string]any)
	explanation := contentMap["explanation"].(map[string]any)
	assert.Equal(t, "success", explanation["status"])
	assert.Contains(t, explanation, "execution_time")
	assert.Contains(t, explanation, "content")

	quiz := contentMap["quiz_generation"].(map[string]any)
	assert.Equal(t, "failed", quiz["status"])
	assert.Contains(t, quiz["error"], "bad prompt")
	assert.Contains(t, quiz, "fallback_content")
	assert.NotContains(t, quiz, "content")

	formats := decoded["learning_formats"].(map[string]any)
	assert.Len(t, formats, 8)
	hook := formats["hook_video"].(map[string]any)
	assert.Equal(t, "not_generated", hook["status"])
	assert.NotContains(t, hook, "execution_time")
	assert.Contains(t, hook, "content")
}

func TestSummaryJSONWithoutFailures(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(content.Summary{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"failed_agent_names":[]`)
}

func TestInfo(t *testing.T) {
	t.Parallel()

	o, _ := newOrchestrator(t, fullRegistry(t, nil), content.WithDeadline(90*time.Second))
	info := o.Info()

	assert.Equal(t, "ContentOrchestrator", info.Orchestrator)
	assert.Len(t, info.AvailableAgents, 8)
	assert.Equal(t, "Hook Video", info.SupportedFormats[0])
	assert.Len(t, info.SupportedFormats, 8)
	assert.Equal(t, "parallel_async", info.ExecutionMode)
	assert.Equal(t, content.InfoExecutionMode, info.ExecutionMode)
	assert.Equal(t, "graceful_degradation", info.FallbackStrategy)
	assert.Equal(t, float64(90), info.DeadlineSeconds)
}

func TestRunOne(t *testing.T) {
	t.Parallel()

	r := fullRegistry(t, map[string]content.Worker{
		content.QuizGeneration: failingWorker(errors.New("bad prompt")),
	})
	o, _ := newOrchestrator(t, r)

	out, err := o.RunOne(context.Background(), content.Explanation, content.WorkOrder{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, content.StatusSuccess, out.Status)
	assert.Equal(t, content.Content{"agent": content.Explanation}, out.Content)

	out, err = o.RunOne(context.Background(), content.QuizGeneration, content.WorkOrder{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, content.StatusFailed, out.Status)
	assert.Equal(t, content.Fallback(content.QuizGeneration), out.FallbackContent)

	_, err = o.RunOne(context.Background(), "interpretive_dance", content.WorkOrder{}, nil, nil)
	assert.ErrorIs(t, err, content.ErrUnknownWorker)
}
