// Package pipeline orchestrates a censoring run from transcript tokens to a
// rewritten audio track, with event publishing and audit recording.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/elci-group/babymode/internal/classify"
	"github.com/elci-group/babymode/internal/config"
	"github.com/elci-group/babymode/internal/events"
	"github.com/elci-group/babymode/internal/models"
	"github.com/elci-group/babymode/internal/observability/logging"
	"github.com/elci-group/babymode/internal/observability/metrics"
	"github.com/elci-group/babymode/internal/report"
	"github.com/elci-group/babymode/internal/segment"
	"github.com/elci-group/babymode/internal/strategy"
)

// MalformedTranscriptError reports a transcript token the pipeline refuses to
// process. Index is the token's position in the input.
type MalformedTranscriptError struct {
	Index  int
	Reason string
}

func (e *MalformedTranscriptError) Error() string {
	return fmt.Sprintf("malformed transcript token at index %d: %s", e.Index, e.Reason)
}

// Pipeline runs the classify, merge, pad, apply sequence for one
// configuration.
type Pipeline struct {
	cfg       config.Config
	registry  *strategy.Registry
	publisher *events.Publisher
	store     *report.Store
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

// New builds a pipeline. publisher and store may be nil; the corresponding
// side effects are skipped.
func New(cfg config.Config, registry *strategy.Registry, publisher *events.Publisher, store *report.Store) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if registry == nil {
		registry = strategy.NewRegistry()
	}
	return &Pipeline{
		cfg:       cfg,
		registry:  registry,
		publisher: publisher,
		store:     store,
		metrics:   metrics.DefaultMetrics,
		log:       logging.WithComponent("pipeline"),
	}, nil
}

// Result summarizes one run.
type Result struct {
	RunID      string
	Detections []models.Detection
	Segments   []segment.Segment
	Stats      segment.Stats
}

// validateTokens rejects transcripts the pipeline cannot trust. Any bad
// token fails the whole run; there is no partial processing.
func validateTokens(tokens []models.Token) error {
	for i, t := range tokens {
		switch {
		case math.IsNaN(t.Start) || math.IsInf(t.Start, 0) ||
			math.IsNaN(t.End) || math.IsInf(t.End, 0):
			return &MalformedTranscriptError{Index: i, Reason: "non-finite timestamp"}
		case t.Start < 0:
			return &MalformedTranscriptError{Index: i, Reason: fmt.Sprintf("negative start %v", t.Start)}
		case t.End < t.Start:
			return &MalformedTranscriptError{Index: i, Reason: fmt.Sprintf("end %v before start %v", t.End, t.Start)}
		}
	}
	return nil
}

// Plan classifies tokens and computes the padded censor segments without
// touching any audio.
func (p *Pipeline) Plan(tokens []models.Token, audioSeconds float64) (*Result, error) {
	if err := validateTokens(tokens); err != nil {
		return nil, err
	}

	detections := classify.Annotate(tokens, p.cfg.BlockList)
	blocked := classify.Blocked(detections)
	segments := segment.Merge(blocked, p.cfg.MergeGap)
	segments = segment.Pad(segments, p.cfg.Padding)

	p.metrics.TokensProcessed.Add(float64(len(tokens)))
	p.metrics.DetectionsTotal.Add(float64(len(blocked)))

	stats := segment.ComputeStats(len(blocked), segments, audioSeconds)

	p.log.Info().
		Int("tokens", len(tokens)).
		Int("detections", len(blocked)).
		Int("segments", len(segments)).
		Float64("censoredSeconds", stats.CensoredSeconds).
		Msg("Censor plan computed")

	return &Result{
		Detections: blocked,
		Segments:   segments,
		Stats:      stats,
	}, nil
}

// Run plans and then rewrites inputPath into outputPath with the configured
// strategy. Event publishing and audit recording are best effort; their
// failures are logged but do not fail the run.
func (p *Pipeline) Run(ctx context.Context, tokens []models.Token, inputPath, outputPath string, audioSeconds float64) (*Result, error) {
	start := time.Now()
	runID := newRunID()
	p.metrics.RunsTotal.Inc()

	result, err := p.Plan(tokens, audioSeconds)
	if err != nil {
		p.finish(ctx, runID, inputPath, outputPath, nil, audioSeconds, err)
		return nil, err
	}
	result.RunID = runID

	log := logging.WithStrategy(runID, p.cfg.Strategy)
	log.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Int("segments", len(result.Segments)).
		Msg("Applying censoring strategy")

	if err := p.registry.Apply(p.cfg.Strategy, inputPath, outputPath, result.Segments, p.cfg.Censor); err != nil {
		p.metrics.StrategyErrors.WithLabelValues(p.cfg.Strategy).Inc()
		p.finish(ctx, runID, inputPath, outputPath, result, audioSeconds, err)
		return nil, err
	}
	p.metrics.StrategyApplications.WithLabelValues(p.cfg.Strategy).Inc()
	p.metrics.SegmentsCensored.Add(float64(len(result.Segments)))
	p.metrics.CensoredSeconds.Add(result.Stats.CensoredSeconds)
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())

	p.publishDetections(ctx, runID, result.Detections)
	p.finish(ctx, runID, inputPath, outputPath, result, audioSeconds, nil)
	return result, nil
}

func (p *Pipeline) publishDetections(ctx context.Context, runID string, detections []models.Detection) {
	if p.publisher == nil {
		return
	}
	now := time.Now().UnixMilli()
	for _, d := range detections {
		ev := events.DetectionEvent{
			RunID:      runID,
			Word:       d.Text,
			Start:      d.Start,
			End:        d.End,
			Confidence: d.Confidence,
			Timestamp:  now,
		}
		if err := p.publisher.PublishDetection(ctx, ev); err != nil {
			p.log.Warn().Err(err).Str("runId", runID).Msg("Detection event publish failed")
		}
	}
}

// finish emits the run summary event and audit row for both success and
// failure paths.
func (p *Pipeline) finish(ctx context.Context, runID, inputPath, outputPath string, result *Result, audioSeconds float64, runErr error) {
	if runErr != nil {
		p.metrics.RunsFailed.Inc()
	}

	var detections, segCount int
	var censoredSeconds float64
	var segments []segment.Segment
	if result != nil {
		detections = len(result.Detections)
		segCount = len(result.Segments)
		censoredSeconds = result.Stats.CensoredSeconds
		segments = result.Segments
	}
	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}

	if p.publisher != nil {
		ev := events.RunEvent{
			RunID:           runID,
			Input:           inputPath,
			Output:          outputPath,
			Strategy:        p.cfg.Strategy,
			Detections:      detections,
			Segments:        segCount,
			CensoredSeconds: censoredSeconds,
			AudioSeconds:    audioSeconds,
			Success:         runErr == nil,
			Error:           errText,
			Timestamp:       time.Now().UnixMilli(),
		}
		if err := p.publisher.PublishRun(ctx, ev); err != nil {
			p.log.Warn().Err(err).Str("runId", runID).Msg("Run event publish failed")
		}
	}

	if p.store != nil {
		run := report.Run{
			Input:           inputPath,
			Output:          outputPath,
			Strategy:        p.cfg.Strategy,
			Engine:          p.cfg.Engine,
			Detections:      detections,
			Segments:        segCount,
			CensoredSeconds: censoredSeconds,
			AudioSeconds:    audioSeconds,
			Success:         runErr == nil,
			Error:           errText,
		}
		if _, err := p.store.RecordRun(run, segments); err != nil {
			p.log.Warn().Err(err).Str("runId", runID).Msg("Audit record failed")
		}
	}
}

func newRunID() string {
	return fmt.Sprintf("run-%d", time.Now().UnixNano())
}
