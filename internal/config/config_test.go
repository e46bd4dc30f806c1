package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"WHISPER_BACKEND", "WHISPER_CPP_BINARY", "WHISPER_CPP_MODEL", "WHISPER_LANGUAGE",
		"WHISPER_SERVER_URL", "OPENAI_API_KEY", "GEMINI_API_KEY", "FFMPEG_PATH",
		"LOG_LEVEL", "APP_ENV",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "whisper_cpp", cfg.Backend)
	assert.Equal(t, "ffmpeg", cfg.Audio.FFmpegPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, "whisper-cli", cfg.Settings["binary_path"])
	assert.Equal(t, "models/ggml-base.bin", cfg.Settings["model_path"])
}

func TestDefault_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("WHISPER_BACKEND", "whisper_server")
	t.Setenv("WHISPER_SERVER_URL", "http://gpu-box:9000")
	t.Setenv("FFMPEG_PATH", "/opt/bin/ffmpeg")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "whisper_server", cfg.Backend)
	assert.Equal(t, "http://gpu-box:9000", cfg.Settings["base_url"])
	assert.Equal(t, "/opt/bin/ffmpeg", cfg.Audio.FFmpegPath)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test-0123456789abcdef")

	path := writeConfig(t, `
backend: openai
settings:
  api_key: ${OPENAI_API_KEY}
  model: whisper-1
  language: en
  headers:
    X-Team: ${TEAM:-speech}
logging:
  level: debug
  development: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Backend)
	assert.Equal(t, "sk-test-0123456789abcdef", cfg.Settings["api_key"])
	assert.Equal(t, "en", cfg.Settings["language"])
	assert.Equal(t, map[string]interface{}{"X-Team": "speech"}, cfg.Settings["headers"])
	assert.NotContains(t, cfg.Settings, "binary_path")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "ffmpeg", cfg.Audio.FFmpegPath)
}

func TestLoad_BackendWithoutSettingsUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "AIza-test-key-0123456789012345")

	cfg, err := Load(writeConfig(t, "backend: gemini\n"))
	require.NoError(t, err)
	assert.Equal(t, "AIza-test-key-0123456789012345", cfg.Settings["api_key"])
	assert.Equal(t, "gemini-2.0-flash", cfg.Settings["model"])
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "backend: [", "failed to parse config YAML"},
		{"bad log level", "logging:\n  level: chatty\n", "Level"},
		{"bad environment", "server:\n  environment: staging\n", "Environment"},
		{"missing openai key", "backend: openai\n", "OpenAI API key is required"},
		{"bad gemini key", "backend: gemini\nsettings:\n  api_key: nope\n", "must start with 'AIza'"},
		{"bad server url", "backend: whisper_server\nsettings:\n  base_url: gpu-box\n", "whisper server URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("SET_VAR", "value")
	t.Setenv("EMPTY_VAR", "")

	assert.Equal(t, "value", expandEnv("${SET_VAR}"))
	assert.Equal(t, "value", expandEnv("${SET_VAR:-other}"))
	assert.Equal(t, "other", expandEnv("${EMPTY_VAR:-other}"))
	assert.Equal(t, "", expandEnv("${UNSET_VAR_FOR_TEST}"))
	assert.Equal(t, "a/value/b", expandEnv("a/$SET_VAR/b"))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOTENV_TEST_VAR=loaded\n"), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("DOTENV_TEST_VAR", "")
	os.Unsetenv("DOTENV_TEST_VAR")

	path, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", path)
	assert.Equal(t, "loaded", os.Getenv("DOTENV_TEST_VAR"))
}
