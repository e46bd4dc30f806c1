package elevenlabs

import (
	"fmt"
	"os"

	"whisper-api/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("elevenlabs", createElevenLabsProvider)
}

func createElevenLabsProvider(settings provider.Settings) (provider.TranscriptionProvider, error) {
	apiKey := settings.String("api_key", os.Getenv("ELEVENLABS_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("elevenlabs provider requires 'api_key' setting or ELEVENLABS_API_KEY")
	}

	timeout, err := settings.Duration("timeout", 0)
	if err != nil {
		return nil, err
	}

	return NewElevenLabsSTTProvider(ElevenLabsConfig{
		APIKey:   apiKey,
		BaseURL:  settings.String("base_url", ""),
		Model:    settings.String("model", ""),
		Language: settings.String("language", ""),
		Timeout:  timeout,
	}, provider.Logger()), nil
}
