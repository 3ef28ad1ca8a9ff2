package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var pipelineResults = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pipeline_results_total",
	Help: "Number of completed export requests labelled by result",
}, []string{"result"})

var renderedPages = promauto.NewCounter(prometheus.CounterOpts{
	Name: "rendered_pages_total",
	Help: "Number of PDF pages rendered",
})

var stepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_step_duration_seconds",
	Help:    "Time spent in each export step (validate, fetch, render, publish).",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"step"})

// StatusRecorder captures the response status for the request counter.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *StatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func CaptureStep(step string, elapsed time.Duration) {
	stepDuration.WithLabelValues(step).Observe(elapsed.Seconds())
}

func CaptureResult(result string) {
	pipelineResults.WithLabelValues(result).Inc()
}

func AddPages(n int) {
	renderedPages.Add(float64(n))
}
