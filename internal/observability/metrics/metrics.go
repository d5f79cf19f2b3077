// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "babymode"

// Metrics holds all Prometheus metrics for the pipeline.
type Metrics struct {
	// Run metrics
	RunsTotal   prometheus.Counter
	RunsFailed  prometheus.Counter
	RunDuration prometheus.Histogram

	// Detection metrics
	TokensProcessed prometheus.Counter
	DetectionsTotal prometheus.Counter

	// Segment metrics
	SegmentsCensored prometheus.Counter
	CensoredSeconds  prometheus.Counter

	// Strategy metrics
	StrategyApplications *prometheus.CounterVec
	StrategyErrors       *prometheus.CounterVec

	// Collaborator metrics
	TranscribeDuration *prometheus.HistogramVec
	MediaToolDuration  *prometheus.HistogramVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of censoring runs started",
		}),
		RunsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_failed_total",
			Help:      "Total number of censoring runs that failed",
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of censoring runs in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		}),

		TokensProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_processed_total",
			Help:      "Total number of transcript tokens classified",
		}),
		DetectionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detections_total",
			Help:      "Total number of tokens flagged by the classifier",
		}),

		SegmentsCensored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_censored_total",
			Help:      "Total number of merged segments handed to a strategy",
		}),
		CensoredSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "censored_seconds_total",
			Help:      "Total seconds of audio rewritten by censoring strategies",
		}),

		StrategyApplications: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strategy_applications_total",
			Help:      "Total strategy applications by strategy name",
		}, []string{"strategy"}),
		StrategyErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strategy_errors_total",
			Help:      "Total strategy application failures by strategy name",
		}, []string{"strategy"}),

		TranscribeDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcribe_duration_seconds",
			Help:      "Duration of transcription engine calls in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		}, []string{"engine"}),
		MediaToolDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "media_tool_duration_seconds",
			Help:      "Duration of ffmpeg/ffprobe invocations in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}, []string{"operation"}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total events published to Kafka by topic",
		}, []string{"topic"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total Kafka publish failures by topic",
		}, []string{"topic"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Latency of Kafka publishes in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"topic"}),
	}
}

// RecordKafkaPublish records the outcome of one publish attempt.
func (m *Metrics) RecordKafkaPublish(topic string, err error, seconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic).Inc()
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic).Inc()
	}
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(seconds)
}

// ObserveMediaTool records one ffmpeg/ffprobe invocation.
func (m *Metrics) ObserveMediaTool(operation string, start time.Time) {
	m.MediaToolDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
