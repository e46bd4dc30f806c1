package whisper_server

import (
	"fmt"

	"whisper-api/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("whisper_server", createWhisperServerProvider)
}

func createWhisperServerProvider(settings provider.Settings) (provider.TranscriptionProvider, error) {
	baseURL := settings.String("base_url", "")
	if baseURL == "" {
		return nil, fmt.Errorf("whisper_server provider requires 'base_url' setting")
	}

	timeout, err := settings.Duration("timeout", 0)
	if err != nil {
		return nil, err
	}

	format := settings.String("response_format", "json")
	if format != "json" && format != "text" {
		return nil, fmt.Errorf("whisper_server response_format must be json or text, got %q", format)
	}

	return NewWhisperServerProvider(WhisperServerConfig{
		BaseURL:        baseURL,
		InferencePath:  settings.String("inference_path", ""),
		Timeout:        timeout,
		Language:       settings.String("language", ""),
		ResponseFormat: format,
		Temperature:    settings.Float("temperature", 0),
		CustomHeaders:  settings.StringMap("custom_headers"),
	}, provider.Logger()), nil
}
