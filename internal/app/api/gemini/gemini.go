package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"whisper-api/internal/app/api/provider"
	"whisper-api/internal/app/audio"
)

const (
	defaultModel  = "gemini-2.0-flash"
	defaultPrompt = "Transcribe the speech in this audio verbatim. Reply with the transcript only, no commentary. Reply with nothing if there is no speech."
)

// Transcriber sends each chunk to Gemini as inline audio.
type Transcriber struct {
	client *genai.Client
	model  string
	prompt string
}

// Config holds the Gemini backend settings.
type Config struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Prompt  string `yaml:"prompt"`
}

// NewTranscriber creates the Gemini API client once for the process.
func NewTranscriber(ctx context.Context, config Config) (*Transcriber, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini provider requires 'api_key' setting or GEMINI_API_KEY")
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Prompt == "" {
		config.Prompt = defaultPrompt
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      config.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: config.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Transcriber{client: client, model: config.Model, prompt: config.Prompt}, nil
}

// Transcribe asks the model for a verbatim transcript of one chunk.
func (g *Transcriber) Transcribe(ctx context.Context, pcm *audio.Buffer) (string, error) {
	wav, err := audio.EncodeWAV(pcm)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(g.prompt),
			genai.NewPartFromBytes(wav, "audio/wav"),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generateContent failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// GetProviderInfo returns provider information
func (g *Transcriber) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:            "gemini",
		Model:           g.model,
		ConcurrencySafe: true,
	}
}
