package provider

import (
	"context"
	"sync"

	"whisper-api/internal/app/audio"
)

// guardedProvider serializes every call into a provider whose model state
// cannot be shared between concurrent inferences.
type guardedProvider struct {
	TranscriptionProvider
	mu sync.Mutex
}

// Guard returns p unchanged when it reports itself concurrency safe and
// otherwise wraps it so at most one Transcribe runs at a time.
func Guard(p TranscriptionProvider) TranscriptionProvider {
	if p.GetProviderInfo().ConcurrencySafe {
		return p
	}
	return &guardedProvider{TranscriptionProvider: p}
}

func (g *guardedProvider) Transcribe(ctx context.Context, pcm *audio.Buffer) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.TranscriptionProvider.Transcribe(ctx, pcm)
}
