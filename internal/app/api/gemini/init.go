package gemini

import (
	"context"
	"os"

	"whisper-api/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("gemini", createGeminiProvider)
}

func createGeminiProvider(settings provider.Settings) (provider.TranscriptionProvider, error) {
	return NewTranscriber(context.Background(), Config{
		APIKey:  settings.String("api_key", os.Getenv("GEMINI_API_KEY")),
		BaseURL: settings.String("base_url", ""),
		Model:   settings.String("model", ""),
		Prompt:  settings.String("prompt", ""),
	})
}
