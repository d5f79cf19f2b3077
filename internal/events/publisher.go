// Package events publishes censoring run events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/elci-group/babymode/internal/observability/metrics"
)

// DetectionEvent describes one flagged word within a run.
type DetectionEvent struct {
	EventType  string  `json:"eventType"`
	RunID      string  `json:"runId"`
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
	Timestamp  int64   `json:"timestamp"`
}

// RunEvent summarizes one completed (or failed) censoring run.
type RunEvent struct {
	EventType       string  `json:"eventType"`
	RunID           string  `json:"runId"`
	Input           string  `json:"input"`
	Output          string  `json:"output"`
	Strategy        string  `json:"strategy"`
	Detections      int     `json:"detections"`
	Segments        int     `json:"segments"`
	CensoredSeconds float64 `json:"censoredSeconds"`
	AudioSeconds    float64 `json:"audioSeconds"`
	Success         bool    `json:"success"`
	Error           string  `json:"error,omitempty"`
	Timestamp       int64   `json:"timestamp"`
}

// Event types carried in the eventType field.
const (
	TypeDetection = "censor.detection"
	TypeRun       = "censor.run"
)

// Publisher publishes censor events to separate Kafka topics. When disabled
// it degrades to log-only mode so the pipeline runs without a broker.
type Publisher struct {
	writerDetections *kafka.Writer
	writerRuns       *kafka.Writer
	principal        string
	topicDetections  string
	topicRuns        string
	enabled          bool
	metrics          *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Enabled         bool
	Brokers         []string
	TopicDetections string
	TopicRuns       string
	Principal       string
}

// New creates a Kafka publisher with separate topics for per-word detections
// and run summaries.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{enabled: false, metrics: m}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:       cfg.Principal,
			topicDetections: cfg.TopicDetections,
			topicRuns:       cfg.TopicRuns,
			enabled:         false,
			metrics:         m,
		}
	}

	// Longer dial timeout for DNS resolution in containerized brokers.
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{Dial: dialer.DialFunc}

	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
			RequiredAcks: kafka.RequireOne,
			Transport:    transport,
		}
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicDetections", cfg.TopicDetections).
		Str("topicRuns", cfg.TopicRuns).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerDetections: newWriter(cfg.TopicDetections),
		writerRuns:       newWriter(cfg.TopicRuns),
		principal:        cfg.Principal,
		topicDetections:  cfg.TopicDetections,
		topicRuns:        cfg.TopicRuns,
		enabled:          true,
		metrics:          m,
	}
}

// PublishDetection publishes one detection event, keyed by run ID.
func (p *Publisher) PublishDetection(ctx context.Context, ev DetectionEvent) error {
	ev.EventType = TypeDetection
	return p.publish(ctx, p.writerDetections, p.topicDetections, ev.RunID, ev)
}

// PublishRun publishes a run summary event, keyed by run ID.
func (p *Publisher) PublishRun(ctx context.Context, ev RunEvent) error {
	ev.EventType = TypeRun
	return p.publish(ctx, p.writerRuns, p.topicRuns, ev.RunID, ev)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerDetections != nil {
		if e := p.writerDetections.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing detections writer")
			err = e
		}
	}
	if p.writerRuns != nil {
		if e := p.writerRuns.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing runs writer")
			err = e
		}
	}
	return err
}
