package provider

import (
	"context"
	"fmt"
	"time"

	"whisper-api/internal/app/audio"
)

// ValidateWindow rejects chunk windows the model would silently truncate.
func ValidateWindow(info ProviderInfo, window time.Duration) error {
	if window <= 0 {
		return fmt.Errorf("chunk window must be positive, got %s", window)
	}
	if info.InputFrame > 0 && window > info.InputFrame {
		return fmt.Errorf("chunk window %s exceeds the %s input frame of %s", window, info.InputFrame, info.Name)
	}
	return nil
}

// framedProvider zero-pads every chunk to the model's fixed input frame.
type framedProvider struct {
	TranscriptionProvider
	frame time.Duration
}

// Framed pads chunks shorter than the provider's input frame before
// inference. Chunks longer than the frame are refused rather than trimmed,
// so no audio is ever dropped. Providers without a fixed frame are returned
// unchanged.
func Framed(p TranscriptionProvider) TranscriptionProvider {
	frame := p.GetProviderInfo().InputFrame
	if frame <= 0 {
		return p
	}
	return &framedProvider{TranscriptionProvider: p, frame: frame}
}

func (f *framedProvider) Transcribe(ctx context.Context, pcm *audio.Buffer) (string, error) {
	if d := pcm.Duration(); d > f.frame {
		return "", fmt.Errorf("chunk of %s exceeds the %s model input frame", d, f.frame)
	}
	return f.TranscriptionProvider.Transcribe(ctx, audio.PadOrTrim(pcm, f.frame))
}
