package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus collectors for the transcription pipeline
type Metrics struct {
	// Request-level metrics
	Transcriptions        *prometheus.CounterVec
	TranscriptionDuration prometheus.Histogram
	AudioDuration         prometheus.Histogram

	// Chunk-level metrics
	ChunksTranscribed *prometheus.CounterVec
	ChunkLatency      *prometheus.HistogramVec

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates all collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Transcriptions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "whisper_transcriptions_total",
			Help: "Total number of transcription requests by outcome",
		}, []string{"outcome"}),
		TranscriptionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "whisper_transcription_duration_seconds",
			Help:    "Wall time spent normalizing and transcribing one upload",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 12), // 250ms to ~8.5 minutes
		}),
		AudioDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "whisper_audio_duration_seconds",
			Help:    "Duration of normalized uploads",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~68 minutes
		}),

		ChunksTranscribed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "whisper_chunks_transcribed_total",
			Help: "Total number of chunks sent to the transcription backend by outcome",
		}, []string{"provider", "outcome"}),
		ChunkLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "whisper_chunk_latency_seconds",
			Help:    "Backend latency for a single chunk",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
		}, []string{"provider"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "whisper_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "whisper_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// RecordChunk records the outcome of one backend call.
func (m *Metrics) RecordChunk(provider string, latency time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.ChunksTranscribed.WithLabelValues(provider, outcome).Inc()
	m.ChunkLatency.WithLabelValues(provider).Observe(latency.Seconds())
}

// RecordTranscription records a finished request; kind is empty on success.
func (m *Metrics) RecordTranscription(elapsed, audio time.Duration, kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		m.Transcriptions.WithLabelValues("success").Inc()
		m.AudioDuration.Observe(audio.Seconds())
	} else {
		m.Transcriptions.WithLabelValues(kind).Inc()
	}
	m.TranscriptionDuration.Observe(elapsed.Seconds())
}
