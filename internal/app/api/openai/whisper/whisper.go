package whisper

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"whisper-api/internal/app/api/provider"
	"whisper-api/internal/app/audio"
)

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client   *openai.Client
	model    string
	language string
	prompt   string
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, model, language, prompt string) *RemoteTranscriber {
	if model == "" {
		model = openai.Whisper1
	}
	return &RemoteTranscriber{
		client:   client,
		model:    model,
		language: language,
		prompt:   prompt,
	}
}

// Transcribe uploads one chunk to the OpenAI transcription endpoint.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, pcm *audio.Buffer) (string, error) {
	wav, err := audio.EncodeWAV(pcm)
	if err != nil {
		return "", err
	}

	req := openai.AudioRequest{
		Model: rt.model,
		// FilePath only names the upload when Reader is set.
		FilePath: "chunk.wav",
		Reader:   bytes.NewReader(wav),
		Language: rt.language,
		Prompt:   rt.prompt,
		Format:   openai.AudioResponseFormatJSON,
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("createTranscription failed: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}

// GetProviderInfo returns provider information
func (rt *RemoteTranscriber) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:            "openai",
		Model:           rt.model,
		ConcurrencySafe: true,
	}
}
