package provider

import (
	"context"
	"time"

	"whisper-api/internal/app/audio"
)

// TranscriptionProvider is a speech-to-text backend. The core treats it as an
// opaque function from one canonical PCM chunk to text.
type TranscriptionProvider interface {
	// Transcribe returns the text spoken in pcm, which is always canonical
	// (mono, 16kHz, 16-bit). Latency is unbounded and backend dependent.
	Transcribe(ctx context.Context, pcm *audio.Buffer) (string, error)

	// GetProviderInfo describes the backend and its invocation constraints.
	GetProviderInfo() ProviderInfo
}

// ProviderInfo describes a configured backend.
type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model,omitempty"`

	// ConcurrencySafe reports whether Transcribe may be called from several
	// goroutines at once. Unsafe providers are wrapped by Guard.
	ConcurrencySafe bool `json:"concurrency_safe"`

	// InputFrame is the fixed input window of the underlying model, zero when
	// the backend accepts arbitrary lengths. Chunks longer than the frame
	// would be truncated by the model, so windows are validated against it.
	InputFrame time.Duration `json:"input_frame,omitempty"`
}

// WhisperFrame is the 30 second input window of whisper models.
const WhisperFrame = 30 * time.Second
