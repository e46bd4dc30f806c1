package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"whisper-api/internal/app/api/provider"
	"whisper-api/internal/app/audio"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io/v1"
	defaultModel   = "scribe_v1"
)

// ElevenLabsSTTProvider transcribes chunks with the ElevenLabs speech-to-text API
type ElevenLabsSTTProvider struct {
	config ElevenLabsConfig
	client *http.Client
	logger *zap.Logger
}

type ElevenLabsConfig struct {
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Model    string        `yaml:"model"`
	Language string        `yaml:"language"` // ISO-639 code; empty lets the API detect it
	Timeout  time.Duration `yaml:"timeout"`
}

type ElevenLabsResponse struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code,omitempty"`
}

type errorResponse struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

func NewElevenLabsSTTProvider(config ElevenLabsConfig, logger *zap.Logger) *ElevenLabsSTTProvider {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ElevenLabsSTTProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.With(zap.String("provider", "elevenlabs")),
	}
}

func (el *ElevenLabsSTTProvider) Transcribe(ctx context.Context, pcm *audio.Buffer) (string, error) {
	wav, err := audio.EncodeWAV(pcm)
	if err != nil {
		return "", err
	}

	httpReq, err := el.createHTTPRequest(ctx, wav)
	if err != nil {
		return "", err
	}

	startTime := time.Now()
	resp, err := el.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call ElevenLabs API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ElevenLabs response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ElevenLabs API returned status %d: %s", resp.StatusCode, errorMessage(data))
	}

	var result ElevenLabsResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("failed to parse ElevenLabs response: %w", err)
	}

	el.logger.Debug("chunk transcribed",
		zap.Duration("audio", pcm.Duration()),
		zap.String("language", result.LanguageCode),
		zap.Duration("latency", time.Since(startTime)))
	return strings.TrimSpace(result.Text), nil
}

func (el *ElevenLabsSTTProvider) createHTTPRequest(ctx context.Context, wav []byte) (*http.Request, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "chunk.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return nil, fmt.Errorf("failed to write audio: %w", err)
	}

	if err := writer.WriteField("model_id", el.config.Model); err != nil {
		return nil, fmt.Errorf("failed to add model field: %w", err)
	}
	if el.config.Language != "" {
		if err := writer.WriteField("language_code", el.config.Language); err != nil {
			return nil, fmt.Errorf("failed to add language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	url := strings.TrimRight(el.config.BaseURL, "/") + "/speech-to-text"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("xi-api-key", el.config.APIKey)
	return req, nil
}

// errorMessage extracts detail.message from an API error body, falling back
// to the raw body.
func errorMessage(data []byte) string {
	var apiErr errorResponse
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Detail.Message != "" {
		return apiErr.Detail.Message
	}
	return strings.TrimSpace(string(data))
}

func (el *ElevenLabsSTTProvider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:            "elevenlabs",
		Model:           el.config.Model,
		ConcurrencySafe: true,
	}
}
