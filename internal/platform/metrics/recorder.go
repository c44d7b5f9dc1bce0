package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/phrazzld/lumen-api/internal/events"
)

const (
	namespace = "lumen"
	unmatched = "unmatched"
)

// Worker outcome label values.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeTimedOut  = "timed_out"
)

// Recorder collects run and request metrics. It implements
// events.EventHandler so it can be registered on the orchestrator's emitter.
type Recorder struct {
	workerOutcomes  *prometheus.CounterVec
	workerDuration  *prometheus.HistogramVec
	runsTotal       prometheus.Counter
	runDuration     prometheus.Histogram
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ events.EventHandler = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		workerOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "worker_outcomes_total",
				Help:      "Content worker outcomes by worker and result.",
			},
			[]string{"worker", "outcome"},
		),
		workerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "worker_duration_seconds",
				Help:      "Content worker execution time in seconds.",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"worker"},
		),
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed content runs.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Content run wall-clock time in seconds.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	for _, c := range []prometheus.Collector{
		r.workerOutcomes, r.workerDuration, r.runsTotal, r.runDuration, r.requestsTotal, r.requestDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// HandleEvent implements events.EventHandler.
func (r *Recorder) HandleEvent(_ context.Context, event *events.ProgressEvent) error {
	switch event.Type {
	case events.WorkerCompleted:
		r.observeWorker(event, OutcomeCompleted)
	case events.WorkerFailed:
		r.observeWorker(event, OutcomeFailed)
	case events.WorkerTimedOut:
		r.observeWorker(event, OutcomeTimedOut)
	case events.RunCompleted:
		r.runsTotal.Inc()
		r.runDuration.Observe(event.Elapsed.Seconds())
	}
	return nil
}

func (r *Recorder) observeWorker(event *events.ProgressEvent, outcome string) {
	r.workerOutcomes.WithLabelValues(event.Worker, outcome).Inc()
	r.workerDuration.WithLabelValues(event.Worker).Observe(event.Elapsed.Seconds())
}

// Middleware records request count and duration, labelled with the chi
// route pattern rather than the raw path to bound cardinality.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(ww, req)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		path := routePattern(req)
		r.requestsTotal.WithLabelValues(req.Method, path, strconv.Itoa(status)).Inc()
		r.requestDuration.WithLabelValues(req.Method, path).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return unmatched
}
