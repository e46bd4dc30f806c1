package whisper_cpp

import (
	"fmt"
	"os"

	"whisper-api/internal/app/api/provider"
)

func init() {
	// Register whisper_cpp provider with the factory
	provider.RegisterProvider("whisper_cpp", createWhisperCppProvider)
}

// createWhisperCppProvider creates a whisper.cpp provider from configuration
func createWhisperCppProvider(settings provider.Settings) (provider.TranscriptionProvider, error) {
	binaryPath := settings.String("binary_path", "")
	if binaryPath == "" {
		return nil, fmt.Errorf("whisper_cpp provider requires 'binary_path' setting")
	}

	modelPath := settings.String("model_path", "")
	if modelPath == "" {
		return nil, fmt.Errorf("whisper_cpp provider requires 'model_path' setting")
	}
	// The model is loaded by the binary on every run; fail at startup
	// rather than on the first request if it is missing.
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("whisper_cpp model: %w", err)
	}

	return NewLocalTranscriber(LocalProviderConfig{
		BinaryPath: binaryPath,
		ModelPath:  modelPath,
		Language:   settings.String("language", "auto"),
		Prompt:     settings.String("prompt", ""),
		Threads:    settings.Int("threads", 0),
		TempDir:    settings.String("temp_dir", ""),
	}, provider.Logger()), nil
}
