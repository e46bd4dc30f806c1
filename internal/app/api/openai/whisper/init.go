package whisper

import (
	"whisper-api/internal/app/api/openai"
	"whisper-api/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("openai", createOpenAIProvider)
}

func createOpenAIProvider(settings provider.Settings) (provider.TranscriptionProvider, error) {
	client, err := openai.NewClient(settings.String("api_key", ""), settings.String("base_url", ""))
	if err != nil {
		return nil, err
	}
	return NewRemoteTranscriber(
		client,
		settings.String("model", ""),
		settings.String("language", ""),
		settings.String("prompt", ""),
	), nil
}
