package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"whisper-api/internal/app/api/provider"
	"whisper-api/internal/app/audio"
	"whisper-api/internal/app/logging"
	"whisper-api/internal/app/metrics"
	"whisper-api/internal/app/transcriber"
	"whisper-api/internal/config"
)

// App holds the components built once at process start. The provider is
// never replaced while the process runs.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Provider provider.TranscriptionProvider
	Pipeline *transcriber.Chunked
}

// Options control Bootstrap
type Options struct {
	ConfigPath string
	Verbose    bool
	// LogLevel overrides the configured level when set
	LogLevel    string
	Transcriber []transcriber.Option
}

// Bootstrap loads configuration and builds the App.
func Bootstrap(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	logger, err := provideLogger(cfg, opts)
	if err != nil {
		return nil, err
	}

	a, err := Initialize(cfg, logger, opts.Transcriber...)
	if err != nil {
		logger.Sync()
		return nil, err
	}
	return a, nil
}

// Initialize wires the backend, normalizer and pipeline from cfg.
func Initialize(cfg *config.Config, logger *zap.Logger, opts ...transcriber.Option) (*App, error) {
	registry := provideRegistry()
	m := metrics.NewMetrics(registry)

	model, err := provideTranscriptionProvider(cfg, logger)
	if err != nil {
		return nil, err
	}

	normalizer := audio.NewNormalizer(
		audio.WithFFmpegPath(cfg.Audio.FFmpegPath),
		audio.WithLogger(logger.Named("audio")),
	)

	pipelineOpts := append([]transcriber.Option{
		transcriber.WithLogger(logger.Named("transcriber")),
		transcriber.WithMetrics(m),
	}, opts...)
	pipeline, err := transcriber.NewChunked(normalizer, model, pipelineOpts...)
	if err != nil {
		return nil, err
	}

	info := model.GetProviderInfo()
	logger.Info("transcription backend ready",
		zap.String("provider", info.Name),
		zap.String("model", info.Model),
		zap.Bool("concurrency_safe", info.ConcurrencySafe),
		zap.Duration("input_frame", info.InputFrame),
		zap.Duration("window", pipeline.Window()))

	return &App{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Metrics:  m,
		Provider: model,
		Pipeline: pipeline,
	}, nil
}

func provideLogger(cfg *config.Config, opts Options) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if opts.Verbose {
		level = "debug"
	}
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	return logging.New(logging.Options{
		Development: cfg.Logging.Development,
		Level:       level,
	})
}

func provideRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// provideTranscriptionProvider builds the configured backend, pads its
// input to the model frame and serializes it when it is not safe for
// concurrent use.
func provideTranscriptionProvider(cfg *config.Config, logger *zap.Logger) (provider.TranscriptionProvider, error) {
	provider.SetLogger(logger.Named("provider"))

	p, err := provider.NewProvider(cfg.Backend, provider.Settings(cfg.Settings))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s backend (registered: %v): %w",
			cfg.Backend, provider.ListRegisteredProviders(), err)
	}
	return provider.Guard(provider.Framed(p)), nil
}
