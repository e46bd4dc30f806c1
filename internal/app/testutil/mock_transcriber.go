package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"whisper-api/internal/app/api/provider"
	"whisper-api/internal/app/audio"
)

// MockTranscriber is a testify mock of provider.TranscriptionProvider.
// Expectations are set on Transcribe; the provider info is a plain field.
type MockTranscriber struct {
	mock.Mock
	Info provider.ProviderInfo

	mu        sync.Mutex
	durations []float64
}

// NewMockTranscriber creates a concurrency-safe mock named "mock".
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{
		Info: provider.ProviderInfo{Name: "mock", Model: "mock-model", ConcurrencySafe: true},
	}
}

// Transcribe implements provider.TranscriptionProvider
func (m *MockTranscriber) Transcribe(ctx context.Context, pcm *audio.Buffer) (string, error) {
	m.mu.Lock()
	m.durations = append(m.durations, pcm.Duration().Seconds())
	m.mu.Unlock()

	args := m.Called(ctx, pcm)
	return args.String(0), args.Error(1)
}

// GetProviderInfo implements provider.TranscriptionProvider
func (m *MockTranscriber) GetProviderInfo() provider.ProviderInfo {
	return m.Info
}

// ChunkSeconds returns the duration in seconds of every buffer received, in
// call order.
func (m *MockTranscriber) ChunkSeconds() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.durations...)
}

// MockNormalizer is a testify mock of the transcriber's normalization stage.
type MockNormalizer struct {
	mock.Mock
}

func (m *MockNormalizer) Normalize(ctx context.Context, r io.Reader) (*audio.Buffer, error) {
	args := m.Called(ctx, r)
	buf, _ := args.Get(0).(*audio.Buffer)
	return buf, args.Error(1)
}
