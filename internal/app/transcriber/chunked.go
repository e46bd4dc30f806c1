package transcriber

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"whisper-api/internal/app/api/provider"
	"whisper-api/internal/app/audio"
	apperrors "whisper-api/internal/app/errors"
	"whisper-api/internal/app/metrics"
)

// Normalizer turns an arbitrary encoded upload into canonical PCM.
type Normalizer interface {
	Normalize(ctx context.Context, r io.Reader) (*audio.Buffer, error)
}

// Transcript is the outcome of a whole upload.
type Transcript struct {
	Text     string
	Chunks   []Result
	Duration time.Duration
}

// ProgressFunc is called after each chunk finishes, with the number of
// chunks done so far and the total.
type ProgressFunc func(done, total int, chunk audio.Chunk)

// Chunked normalizes an upload, splits it into fixed windows and sends the
// windows to the provider one after another.
type Chunked struct {
	normalizer Normalizer
	provider   provider.TranscriptionProvider
	window     time.Duration
	logger     *zap.Logger
	metrics    *metrics.Metrics
	progress   ProgressFunc
}

// Option configures a Chunked transcriber
type Option func(*Chunked)

// WithWindow overrides the default 30 second chunk window.
func WithWindow(window time.Duration) Option {
	return func(c *Chunked) {
		c.window = window
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Chunked) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Chunked) {
		c.metrics = m
	}
}

// WithProgress registers a callback invoked after every chunk.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Chunked) {
		c.progress = fn
	}
}

// NewChunked builds the pipeline. The window is checked against the
// provider's input frame up front.
func NewChunked(n Normalizer, p provider.TranscriptionProvider, opts ...Option) (*Chunked, error) {
	c := &Chunked{
		normalizer: n,
		provider:   p,
		window:     audio.DefaultWindow,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := provider.ValidateWindow(p.GetProviderInfo(), c.window); err != nil {
		return nil, apperrors.E(apperrors.KindInternal, "configure transcriber", err)
	}
	return c, nil
}

// Window returns the configured chunk length.
func (c *Chunked) Window() time.Duration {
	return c.window
}

// Transcribe runs the full pipeline on r. The first failing chunk aborts the
// request and no partial text is returned.
func (c *Chunked) Transcribe(ctx context.Context, r io.Reader) (Transcript, error) {
	start := time.Now()

	transcript, err := c.transcribe(ctx, r)
	kind := ""
	if err != nil {
		kind = string(apperrors.KindOf(err))
	}
	c.metrics.RecordTranscription(time.Since(start), transcript.Duration, kind)

	return transcript, err
}

func (c *Chunked) transcribe(ctx context.Context, r io.Reader) (Transcript, error) {
	pcm, err := c.normalizer.Normalize(ctx, r)
	if err != nil {
		return Transcript{}, err
	}

	chunks, err := audio.Split(pcm, c.window)
	if err != nil {
		return Transcript{}, apperrors.E(apperrors.KindInternal, "split audio", err)
	}

	info := c.provider.GetProviderInfo()
	c.logger.Info("transcribing audio",
		zap.Duration("duration", pcm.Duration()),
		zap.Int("chunks", len(chunks)),
		zap.String("provider", info.Name),
		zap.String("model", info.Model))

	results := make([]Result, 0, len(chunks))
	for i, chunk := range chunks {
		text, err := c.transcribeChunk(ctx, info.Name, chunk)
		if err != nil {
			return Transcript{}, apperrors.E(apperrors.KindTranscription,
				fmt.Sprintf("transcribe chunk %d", chunk.Index), err)
		}
		results = append(results, Result{Index: chunk.Index, Text: text})

		if c.progress != nil {
			c.progress(i+1, len(chunks), chunk)
		}
	}

	transcript := Transcript{
		Text:     Join(results),
		Chunks:   results,
		Duration: pcm.Duration(),
	}
	c.logger.Info("transcription complete",
		zap.Int("chunks", len(results)),
		zap.String("transcription", transcript.Text))
	return transcript, nil
}

func (c *Chunked) transcribeChunk(ctx context.Context, providerName string, chunk audio.Chunk) (string, error) {
	start := time.Now()
	text, err := c.provider.Transcribe(ctx, chunk.Buffer)
	latency := time.Since(start)
	c.metrics.RecordChunk(providerName, latency, err)

	if err != nil {
		c.logger.Error("chunk transcription failed",
			zap.Stringer("chunk", chunk),
			zap.Duration("latency", latency),
			zap.Error(err))
		return "", err
	}

	c.logger.Debug("chunk transcribed",
		zap.Stringer("chunk", chunk),
		zap.Duration("latency", latency),
		zap.Int("chars", len(text)))
	return text, nil
}
