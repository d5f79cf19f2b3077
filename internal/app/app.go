// Package app wires the process-wide state for one babymode invocation.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/elci-group/babymode/internal/config"
	"github.com/elci-group/babymode/internal/events"
	"github.com/elci-group/babymode/internal/observability"
	"github.com/elci-group/babymode/internal/observability/logging"
	"github.com/elci-group/babymode/internal/report"
)

// Application holds process-wide state for a run: the resolved
// configuration, the event publisher, the optional metrics server, and the
// optional audit store.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config

	Publisher *events.Publisher
	Store     *report.Store

	metricsServer *observability.Server
}

// New constructs an Application from validated configuration and opens its
// collaborators.
func New(cfg *config.Config) (*Application, error) {
	a := &Application{
		Cfg:    cfg,
		Logger: logging.WithComponent("application"),
	}

	a.Publisher = events.New(&events.Config{
		Enabled:         cfg.Kafka.Enabled,
		Brokers:         cfg.Kafka.Brokers,
		TopicDetections: cfg.Kafka.TopicDetections,
		TopicRuns:       cfg.Kafka.TopicRuns,
		Principal:       cfg.Kafka.Principal,
	})

	if cfg.ReportDB != "" {
		store, err := report.Open(cfg.ReportDB)
		if err != nil {
			a.Publisher.Close()
			return nil, err
		}
		a.Store = store
	}

	a.Logger.Info().Msg("babymode application created")
	return a, nil
}

// Start records the startup time and brings up the metrics server when one
// is configured.
func (a *Application) Start() {
	a.StartupTime = time.Now().UTC()

	if a.Cfg.MetricsAddr != "" {
		a.metricsServer = observability.NewServer(a.Cfg.MetricsAddr)
		a.metricsServer.Start()
	}

	a.Logger.Info().
		Time("startupTime", a.StartupTime).
		Str("strategy", a.Cfg.Strategy).
		Str("engine", a.Cfg.Engine).
		Msg("babymode starting")
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Metrics server shutdown error")
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			log.Error().Err(err).Msg("Report store close error")
		}
	}
	if a.Publisher != nil {
		a.Publisher.Close()
	}
	a.Logger.Info().Msg("babymode shutting down")
}
