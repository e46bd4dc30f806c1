package whisper_server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisper-api/internal/app/api/provider"
	"whisper-api/internal/app/audio"
)

// Mock HTTP server for testing
func createMockWhisperServer(t *testing.T, format string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inference" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("missing key"))
			return
		}

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("No file uploaded"))
			return
		}
		defer file.Close()

		data, _ := io.ReadAll(file)
		buf, err := audio.DecodeWAV(data)
		if err != nil || !buf.IsCanonical() {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, format, r.FormValue("response_format"))
		assert.Equal(t, "en", r.FormValue("language"))

		if format == "text" {
			w.Write([]byte("  plain text result \n"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(WhisperServerResponse{
			Text:     " This is a test transcription.",
			Language: "en",
			Duration: buf.Duration().Seconds(),
		})
	}))
}

func testChunk() *audio.Buffer {
	return &audio.Buffer{Format: audio.Canonical, Data: make([]byte, 16000)}
}

func TestWhisperServerProvider_Transcribe(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", "This is a test transcription."},
		{"text", "plain text result"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			server := createMockWhisperServer(t, tt.format)
			defer server.Close()

			p := NewWhisperServerProvider(WhisperServerConfig{
				BaseURL:        server.URL + "/",
				Language:       "en",
				ResponseFormat: tt.format,
				CustomHeaders:  map[string]string{"X-Api-Key": "secret"},
			}, nil)

			text, err := p.Transcribe(context.Background(), testChunk())
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestWhisperServerProvider_Errors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		server := createMockWhisperServer(t, "json")
		defer server.Close()

		p := NewWhisperServerProvider(WhisperServerConfig{BaseURL: server.URL, Language: "en"}, nil)
		_, err := p.Transcribe(context.Background(), testChunk())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
		assert.Contains(t, err.Error(), "missing key")
	})

	t.Run("error payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"failed to read WAV file"}`))
		}))
		defer server.Close()

		p := NewWhisperServerProvider(WhisperServerConfig{BaseURL: server.URL}, nil)
		_, err := p.Transcribe(context.Background(), testChunk())
		assert.ErrorContains(t, err, "failed to read WAV file")
	})

	t.Run("invalid json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		}))
		defer server.Close()

		p := NewWhisperServerProvider(WhisperServerConfig{BaseURL: server.URL}, nil)
		_, err := p.Transcribe(context.Background(), testChunk())
		assert.ErrorContains(t, err, "failed to parse JSON response")
	})

	t.Run("unreachable", func(t *testing.T) {
		p := NewWhisperServerProvider(WhisperServerConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, nil)
		_, err := p.Transcribe(context.Background(), testChunk())
		assert.ErrorContains(t, err, "HTTP request failed")
	})
}

func TestCreateWhisperServerProvider(t *testing.T) {
	p, err := provider.NewProvider("whisper_server", provider.Settings{
		"base_url": "http://localhost:8080",
		"timeout":  "90s",
	})
	require.NoError(t, err)
	info := p.GetProviderInfo()
	assert.Equal(t, "whisper_server", info.Name)
	assert.True(t, info.ConcurrencySafe)
	assert.Equal(t, 90*time.Second, p.(*WhisperServerProvider).config.Timeout)

	_, err = provider.NewProvider("whisper_server", provider.Settings{})
	assert.ErrorContains(t, err, "base_url")

	_, err = provider.NewProvider("whisper_server", provider.Settings{
		"base_url":        "http://localhost:8080",
		"response_format": "srt",
	})
	assert.ErrorContains(t, err, "response_format")
}
