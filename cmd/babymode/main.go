// Command babymode censors profanity in a video's audio track. It
// transcribes the audio with word-level timestamps, flags words against a
// block list, merges and pads the flagged spans, rewrites the audio with the
// chosen strategy, and muxes it back into the video.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/elci-group/babymode/internal/app"
	"github.com/elci-group/babymode/internal/config"
	"github.com/elci-group/babymode/internal/media"
	"github.com/elci-group/babymode/internal/models"
	"github.com/elci-group/babymode/internal/observability/logging"
	"github.com/elci-group/babymode/internal/observability/metrics"
	"github.com/elci-group/babymode/internal/pipeline"
	"github.com/elci-group/babymode/internal/strategy"
	"github.com/elci-group/babymode/internal/transcribe"
	"github.com/elci-group/babymode/internal/transcribe/google"
)

type flags struct {
	input        string
	output       string
	model        string
	strategyName string
	volume       float64
	fade         float64
	words        string
	gap          float64
	padding      float64
	engine       string
	configFile   string
	profile      string

	listStrategies bool
	listProfiles   bool
	preview        bool
	verbose        bool

	metricsAddr  string
	reportDB     string
	kafkaBrokers string
}

func parseFlags() (*flags, map[string]bool) {
	f := &flags{}

	flag.StringVar(&f.input, "input", "", "Input video file")
	flag.StringVar(&f.input, "i", "", "Input video file (shorthand)")
	flag.StringVar(&f.output, "output", "", "Output video file (default: <input>_censored.<ext>)")
	flag.StringVar(&f.output, "o", "", "Output video file (shorthand)")
	flag.StringVar(&f.model, "model", "base", "Whisper model size: tiny, base, small, medium, large")
	flag.StringVar(&f.model, "m", "base", "Whisper model size (shorthand)")
	flag.StringVar(&f.strategyName, "strategy", "silence", "Censoring strategy")
	flag.StringVar(&f.strategyName, "s", "silence", "Censoring strategy (shorthand)")
	flag.Float64Var(&f.volume, "volume", 0.1, "Target volume for volume_reduction, 0.0 to 1.0")
	flag.Float64Var(&f.volume, "v", 0.1, "Target volume (shorthand)")
	flag.Float64Var(&f.fade, "fade", 0.2, "Fade duration in seconds, 0.0 to 5.0")
	flag.Float64Var(&f.fade, "f", 0.2, "Fade duration (shorthand)")
	flag.StringVar(&f.words, "words", "", "Comma-separated block list, overrides the default")
	flag.StringVar(&f.words, "w", "", "Comma-separated block list (shorthand)")
	flag.Float64Var(&f.gap, "gap", 0.5, "Merge gap in seconds between nearby detections")
	flag.Float64Var(&f.padding, "padding", 0.1, "Padding in seconds added around each censored segment")
	flag.StringVar(&f.engine, "engine", config.EngineWhisper, "Transcription engine: whisper or google")
	flag.StringVar(&f.configFile, "config", "", "Config file (.yaml, .yml or .json)")
	flag.StringVar(&f.configFile, "c", "", "Config file (shorthand)")
	flag.StringVar(&f.profile, "profile", "", "Named profile to apply")
	flag.StringVar(&f.profile, "p", "", "Named profile (shorthand)")

	flag.BoolVar(&f.listStrategies, "list-strategies", false, "List available censoring strategies and exit")
	flag.BoolVar(&f.listProfiles, "list-profiles", false, "List available profiles and exit")
	flag.BoolVar(&f.preview, "preview", false, "Print the censor plan without writing any output")
	flag.BoolVar(&f.verbose, "verbose", false, "Enable debug logging")

	flag.StringVar(&f.metricsAddr, "metrics-addr", "", "Address for the Prometheus metrics server (e.g. :9090)")
	flag.StringVar(&f.reportDB, "report-db", "", "SQLite file for the run audit trail")
	flag.StringVar(&f.kafkaBrokers, "kafka-brokers", "", "Comma-separated Kafka brokers for censor events")

	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, set
}

// buildConfig resolves precedence: defaults, then config file, then profile,
// then explicit flags.
func buildConfig(f *flags, set map[string]bool) (*config.Config, *config.File, error) {
	cfg := config.Default()

	var file *config.File
	var err error
	if f.configFile != "" {
		file, err = config.LoadFile(f.configFile)
	} else {
		file, err = config.LoadDefaultFile()
	}
	if err != nil {
		return nil, nil, err
	}
	if file == nil {
		file = config.Builtin()
	} else if len(file.Profiles) == 0 {
		file.Profiles = config.Builtin().Profiles
	}
	file.Apply(&cfg)

	if f.profile != "" {
		if err := file.ApplyProfile(f.profile, &cfg); err != nil {
			return nil, nil, err
		}
	}

	cfg.InputFile = f.input
	cfg.OutputFile = f.output
	if set["model"] || set["m"] {
		cfg.WhisperModel = f.model
	}
	if set["strategy"] || set["s"] {
		cfg.Strategy = f.strategyName
	}
	if set["volume"] || set["v"] {
		cfg.Censor.Volume = f.volume
	}
	if set["fade"] || set["f"] {
		cfg.Censor.FadeDuration = f.fade
	}
	if set["gap"] {
		cfg.MergeGap = f.gap
	}
	if set["padding"] {
		cfg.Padding = f.padding
	}
	if set["engine"] {
		cfg.Engine = f.engine
	}
	if f.words != "" {
		cfg.BlockList = config.NormalizeBlockList(strings.Split(f.words, ","))
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}
	cfg.MetricsAddr = f.metricsAddr
	cfg.ReportDB = f.reportDB
	if f.kafkaBrokers != "" {
		cfg.Kafka.Enabled = true
		cfg.Kafka.Brokers = strings.Split(f.kafkaBrokers, ",")
	}

	return &cfg, file, nil
}

func main() {
	f, set := parseFlags()

	logCfg := logging.DefaultConfig()
	if f.verbose {
		logCfg.Level = "debug"
	}
	logging.Init(logCfg)

	registry := strategy.NewRegistry()

	if f.listStrategies {
		fmt.Println("Available censoring strategies:")
		for _, d := range registry.List() {
			fmt.Printf("  %-18s %s\n", d.Name, d.Description)
		}
		return
	}

	cfg, file, err := buildConfig(f, set)
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration failed")
	}

	if f.listProfiles {
		fmt.Println("Available profiles:")
		for _, name := range file.ProfileNames() {
			fmt.Printf("  %-10s %s\n", name, file.Profiles[name].Description)
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if _, ok := registry.Get(cfg.Strategy); !ok {
		log.Fatal().Str("strategy", cfg.Strategy).Msg("Unknown censoring strategy")
	}
	cfg.EnsureOutputFile()
	logCfg.Level = cfg.LogLevel
	logging.Init(logCfg)

	if err := run(cfg, registry, f.preview); err != nil {
		log.Fatal().Err(err).Msg("Censoring run failed")
	}
}

func run(cfg *config.Config, registry *strategy.Registry, preview bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := media.ValidateTools(ctx); err != nil {
		return err
	}
	if err := media.ValidateVideoFile(cfg.InputFile); err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Shutdown()
	a.Start()

	tmpDir, err := os.MkdirTemp("", "babymode-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	log.Info().Str("input", cfg.InputFile).Msg("Extracting audio track")
	audioPath, err := media.ExtractAudio(ctx, cfg.InputFile, tmpDir)
	if err != nil {
		return err
	}

	audioSeconds, err := media.ProbeDuration(ctx, audioPath)
	if err != nil {
		return err
	}

	tokens, err := transcribeAudio(ctx, cfg, audioPath)
	if err != nil {
		return err
	}
	log.Info().Int("tokens", len(tokens)).Msg("Transcription complete")

	p, err := pipeline.New(*cfg, registry, a.Publisher, a.Store)
	if err != nil {
		return err
	}

	if preview {
		result, err := p.Plan(tokens, audioSeconds)
		if err != nil {
			return err
		}
		printPlan(result)
		return nil
	}

	censoredPath := tmpDir + "/censored_audio.wav"
	result, err := p.Run(ctx, tokens, audioPath, censoredPath, audioSeconds)
	if err != nil {
		return err
	}

	if len(result.Segments) == 0 {
		// Nothing was censored: the output is a verbatim copy of the input,
		// avoiding a pointless audio re-encode.
		log.Info().Str("output", cfg.OutputFile).Msg("No profanity detected, copying input unchanged")
		if err := copyInput(cfg.InputFile, cfg.OutputFile); err != nil {
			return err
		}
	} else {
		log.Info().Str("output", cfg.OutputFile).Msg("Muxing censored audio into video")
		if err := media.Mux(ctx, cfg.InputFile, censoredPath, cfg.OutputFile); err != nil {
			return err
		}
	}

	log.Info().
		Str("runId", result.RunID).
		Int("detections", result.Stats.TotalDetections).
		Int("segments", result.Stats.MergedSegments).
		Float64("censoredSeconds", result.Stats.CensoredSeconds).
		Float64("percentCensored", result.Stats.PercentCensored).
		Str("output", cfg.OutputFile).
		Msg("Censoring complete")
	return nil
}

func transcribeAudio(ctx context.Context, cfg *config.Config, audioPath string) ([]models.Token, error) {
	var engine transcribe.Engine
	switch cfg.Engine {
	case config.EngineGoogle:
		g, err := google.New(ctx)
		if err != nil {
			return nil, err
		}
		defer g.Close()
		engine = g
	default:
		engine = transcribe.NewWhisperEngine(cfg.WhisperModel)
	}

	log.Info().Str("engine", cfg.Engine).Msg("Transcribing audio")
	start := time.Now()
	words, err := engine.Transcribe(ctx, audioPath)
	metrics.DefaultMetrics.TranscribeDuration.
		WithLabelValues(cfg.Engine).
		Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	tokens := make([]models.Token, len(words))
	for i, w := range words {
		tokens[i] = models.Token{
			Text:       w.Text,
			Start:      w.Start,
			End:        w.End,
			Confidence: w.Confidence,
		}
	}
	return tokens, nil
}

func copyInput(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func printPlan(result *pipeline.Result) {
	fmt.Printf("Detections: %d\n", result.Stats.TotalDetections)
	for _, d := range result.Detections {
		fmt.Printf("  %8.2fs - %8.2fs  %q (confidence %.2f)\n", d.Start, d.End, d.Text, d.Confidence)
	}
	fmt.Printf("Censor segments: %d\n", result.Stats.MergedSegments)
	for _, s := range result.Segments {
		fmt.Printf("  %8.2fs - %8.2fs  (%.2fs)\n", s.Start, s.End, s.Duration())
	}
	fmt.Printf("Censored audio: %.2fs (%.1f%%)\n",
		result.Stats.CensoredSeconds, result.Stats.PercentCensored)
}
