package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct constraints and the backend-specific settings
// that can be verified without touching the network.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make([]string, 0, len(validationErrs))
			for _, fe := range validationErrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(fields, "; "))
		}
		return err
	}

	switch cfg.Backend {
	case "openai":
		return ValidateAPIKey(stringSetting(cfg.Settings, "api_key"), "OpenAI")
	case "gemini":
		return ValidateAPIKey(stringSetting(cfg.Settings, "api_key"), "Gemini")
	case "elevenlabs":
		return ValidateAPIKey(stringSetting(cfg.Settings, "api_key"), "ElevenLabs")
	case "whisper_server":
		return ValidateURL(stringSetting(cfg.Settings, "base_url"), "whisper server")
	}
	return nil
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format: must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return fmt.Errorf("invalid OpenAI API key format: too short")
		}
	case "Gemini":
		if !strings.HasPrefix(apiKey, "AIza") {
			return fmt.Errorf("invalid Gemini API key format: must start with 'AIza'")
		}
		if len(apiKey) < 30 {
			return fmt.Errorf("invalid Gemini API key format: too short")
		}
	case "ElevenLabs":
		if len(apiKey) < 32 {
			return fmt.Errorf("invalid ElevenLabs API key format: too short")
		}
	}

	return nil
}

// ValidateURL validates URL format
func ValidateURL(url string, name string) error {
	if url == "" {
		return fmt.Errorf("%s URL is required", name)
	}
	if err := validate.Var(url, "url"); err != nil {
		return fmt.Errorf("%s URL is invalid: %q", name, url)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}
	return nil
}

func stringSetting(settings map[string]interface{}, key string) string {
	s, _ := settings[key].(string)
	return s
}
