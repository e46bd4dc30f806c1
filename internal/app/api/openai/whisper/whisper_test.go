package whisper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisper-api/internal/app/api/provider"
	"whisper-api/internal/app/audio"
)

func newMockOpenAI(t *testing.T, status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test-key-0123456789", r.Header.Get("Authorization"))

		if !assert.NoError(t, r.ParseMultipartForm(10<<20)) {
			return
		}
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "en", r.FormValue("language"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		assert.Equal(t, "chunk.wav", header.Filename)

		data, _ := io.ReadAll(file)
		buf, err := audio.DecodeWAV(data)
		if assert.NoError(t, err) {
			assert.True(t, buf.IsCanonical())
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
}

func newTestProvider(t *testing.T, url string) provider.TranscriptionProvider {
	p, err := provider.NewProvider("openai", provider.Settings{
		"api_key":  "sk-test-key-0123456789",
		"base_url": url + "/v1",
		"language": "en",
	})
	require.NoError(t, err)
	return p
}

func TestRemoteTranscriber_Transcribe(t *testing.T) {
	server := newMockOpenAI(t, http.StatusOK, `{"text":" ask not what your country can do for you "}`)
	defer server.Close()

	p := newTestProvider(t, server.URL)
	text, err := p.Transcribe(context.Background(), &audio.Buffer{Format: audio.Canonical, Data: make([]byte, 3200)})
	require.NoError(t, err)
	assert.Equal(t, "ask not what your country can do for you", text)
}

func TestRemoteTranscriber_APIError(t *testing.T) {
	server := newMockOpenAI(t, http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached","type":"requests"}}`)
	defer server.Close()

	p := newTestProvider(t, server.URL)
	_, err := p.Transcribe(context.Background(), &audio.Buffer{Format: audio.Canonical, Data: make([]byte, 3200)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "createTranscription failed")
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestCreateOpenAIProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := provider.NewProvider("openai", provider.Settings{})
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	t.Setenv("OPENAI_API_KEY", "sk-from-env-0123456789")
	p, err := provider.NewProvider("openai", provider.Settings{"model": "gpt-4o-mini-transcribe"})
	require.NoError(t, err)
	info := p.GetProviderInfo()
	assert.Equal(t, "openai", info.Name)
	assert.Equal(t, "gpt-4o-mini-transcribe", info.Model)
	assert.True(t, info.ConcurrencySafe)
	assert.Zero(t, info.InputFrame)
}
