package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBackend is used when neither the config file nor WHISPER_BACKEND
// names one.
const DefaultBackend = "whisper_cpp"

// Config selects and configures the transcription backend for the process.
// It is read once at startup.
type Config struct {
	// Backend is a registered provider type (whisper_cpp, whisper_server, openai, gemini, elevenlabs)
	Backend string `yaml:"backend" validate:"required"`

	// Settings are passed verbatim to the provider factory after ${VAR} expansion
	Settings map[string]interface{} `yaml:"settings"`

	Audio   AudioConfig   `yaml:"audio"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// AudioConfig configures normalization
type AudioConfig struct {
	FFmpegPath string `yaml:"ffmpeg_path" validate:"required"`
}

// LoggingConfig configures the process logger
type LoggingConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// ServerConfig holds the HTTP settings that are allowed to vary. The listen
// address is fixed.
type ServerConfig struct {
	Environment string `yaml:"environment" validate:"omitempty,oneof=development production test"`
}

// backendDefaults are used when a backend is selected without settings.
var backendDefaults = map[string]map[string]interface{}{
	"whisper_cpp": {
		"binary_path": "${WHISPER_CPP_BINARY:-whisper-cli}",
		"model_path":  "${WHISPER_CPP_MODEL:-models/ggml-base.bin}",
		"language":    "${WHISPER_LANGUAGE:-auto}",
	},
	"whisper_server": {
		"base_url": "${WHISPER_SERVER_URL:-http://localhost:8080}",
		"language": "${WHISPER_LANGUAGE:-auto}",
	},
	"openai": {
		"api_key": "${OPENAI_API_KEY}",
		"model":   "${OPENAI_WHISPER_MODEL:-whisper-1}",
	},
	"gemini": {
		"api_key": "${GEMINI_API_KEY}",
		"model":   "${GEMINI_MODEL:-gemini-2.0-flash}",
	},
	"elevenlabs": {
		"api_key": "${ELEVENLABS_API_KEY}",
	},
}

// Default returns the configuration used without a config file. Every value
// can be overridden through the environment.
func Default() *Config {
	cfg := &Config{
		Backend: "${WHISPER_BACKEND:-" + DefaultBackend + "}",
		Audio: AudioConfig{
			FFmpegPath: "${FFMPEG_PATH:-ffmpeg}",
		},
		Logging: LoggingConfig{
			Level: "${LOG_LEVEL:-info}",
		},
		Server: ServerConfig{
			Environment: "${APP_ENV:-production}",
		},
	}
	cfg.expand()
	cfg.Settings = defaultSettings(cfg.Backend)
	return cfg
}

// Load reads a YAML config file on top of Default. An empty path returns
// the defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.parse(data); err != nil {
			return nil, err
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) parse(data []byte) error {
	// settings from the file replace the defaults of the default backend
	c.Settings = nil
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}

	c.expand()
	if len(c.Settings) == 0 {
		c.Settings = defaultSettings(c.Backend)
	} else {
		c.Settings = expandValue(c.Settings).(map[string]interface{})
	}
	return nil
}

func (c *Config) expand() {
	c.Backend = expandEnv(c.Backend)
	c.Audio.FFmpegPath = expandEnv(c.Audio.FFmpegPath)
	c.Logging.Level = expandEnv(c.Logging.Level)
	c.Server.Environment = expandEnv(c.Server.Environment)
}

func defaultSettings(backend string) map[string]interface{} {
	defaults, ok := backendDefaults[backend]
	if !ok {
		return map[string]interface{}{}
	}
	return expandValue(defaults).(map[string]interface{})
}

// expandEnv replaces ${VAR} and ${VAR:-default} references.
func expandEnv(s string) string {
	return os.Expand(s, func(ref string) string {
		name, fallback, hasDefault := strings.Cut(ref, ":-")
		if value, ok := os.LookupEnv(name); ok && value != "" {
			return value
		}
		if hasDefault {
			return fallback
		}
		return ""
	})
}

// expandValue returns a deep copy of v with every string expanded.
func expandValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return expandEnv(val)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = expandValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = expandValue(item)
		}
		return out
	default:
		return v
	}
}
