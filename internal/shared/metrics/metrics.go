package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	documentsUploadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docqa",
		Name:      "documents_uploaded_total",
		Help:      "Total documents uploaded.",
	})
	documentsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docqa",
		Name:      "documents_processed_total",
		Help:      "Total documents that finished processing, by outcome.",
	}, []string{"status"})
	questionsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docqa",
		Name:      "questions_started_total",
		Help:      "Total questions submitted for answering.",
	})
	questionsAnsweredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docqa",
		Name:      "questions_answered_total",
		Help:      "Total questions answered successfully.",
	})
	questionsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docqa",
		Name:      "questions_failed_total",
		Help:      "Total questions that failed answering, by error code.",
	}, []string{"code"})
	workerJobsReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docqa",
		Name:      "worker_jobs_received_total",
		Help:      "Total queue jobs received by the worker.",
	})
	workerJobsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docqa",
		Name:      "worker_jobs_completed_total",
		Help:      "Total queue jobs processed successfully.",
	})
	workerJobsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docqa",
		Name:      "worker_jobs_failed_total",
		Help:      "Total queue jobs that failed processing.",
	})
	workerJobsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docqa",
		Name:      "worker_jobs_dropped_total",
		Help:      "Total malformed queue jobs dropped without processing.",
	})
	answerDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "docqa",
		Name:      "answer_duration_seconds",
		Help:      "Time from answering start to completion.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})
)

// IncDocumentUploaded increments the upload counter.
func IncDocumentUploaded() {
	documentsUploadedTotal.Inc()
}

// IncDocumentProcessed records a finished document processing outcome.
func IncDocumentProcessed(status string) {
	documentsProcessedTotal.WithLabelValues(status).Inc()
}

// IncQuestionStarted increments the started counter.
func IncQuestionStarted() {
	questionsStartedTotal.Inc()
}

// IncQuestionAnswered increments the answered counter.
func IncQuestionAnswered() {
	questionsAnsweredTotal.Inc()
}

// IncQuestionFailed records a failed answering attempt.
func IncQuestionFailed(code string) {
	questionsFailedTotal.WithLabelValues(code).Inc()
}

// IncWorkerJobReceived increments the worker received counter.
func IncWorkerJobReceived() {
	workerJobsReceivedTotal.Inc()
}

// IncWorkerJobCompleted increments the worker completed counter.
func IncWorkerJobCompleted() {
	workerJobsCompletedTotal.Inc()
}

// IncWorkerJobFailed increments the worker failed counter.
func IncWorkerJobFailed() {
	workerJobsFailedTotal.Inc()
}

// IncWorkerJobDropped increments the worker dropped counter.
func IncWorkerJobDropped() {
	workerJobsDroppedTotal.Inc()
}

// ObserveAnswerDuration records an answering duration in seconds.
func ObserveAnswerDuration(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	answerDuration.Observe(seconds)
}

// Handler exposes metrics in Prometheus exposition format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
