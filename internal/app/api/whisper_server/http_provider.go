package whisper_server

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

// WhisperServerProvider implements transcription via HTTP to a whisper-server instance
type WhisperServerProvider struct {
	config WhisperServerConfig
	client *http.Client
	logger *zap.Logger
}

// WhisperServerConfig represents configuration for whisper-server HTTP API
type WhisperServerConfig struct {
	BaseURL        string            `yaml:"base_url"`        // Base URL of whisper-server (e.g., "http://192.168.1.100:8080")
	InferencePath  string            `yaml:"inference_path"`  // Inference endpoint path (default: "/inference")
	Timeout        time.Duration     `yaml:"timeout"`         // Request timeout
	Language       string            `yaml:"language"`        // Default language code
	ResponseFormat string            `yaml:"response_format"` // json or text
	Temperature    float64           `yaml:"temperature"`     // Decoding temperature (0.0-1.0)
	CustomHeaders  map[string]string `yaml:"custom_headers"`  // Custom HTTP headers
}

// WhisperServerResponse represents the response from whisper-server
type WhisperServerResponse struct {
	Text     string  `json:"text,omitempty"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// NewWhisperServerProvider creates a new whisper-server HTTP provider
func NewWhisperServerProvider(config WhisperServerConfig, logger *zap.Logger) *WhisperServerProvider {
	if config.InferencePath == "" {
		config.InferencePath = "/inference"
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Minute
	}
	if config.ResponseFormat == "" {
		config.ResponseFormat = "json"
	}
	if config.CustomHeaders == nil {
		config.CustomHeaders = make(map[string]string)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WhisperServerProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.With(zap.String("provider", "whisper_server")),
	}
}

// Transcribe uploads one chunk as an in-memory WAV file.
func (wsp *WhisperServerProvider) Transcribe(ctx context.Context, pcm *audio.Buffer) (string, error) {
	wav, err := audio.EncodeWAV(pcm)
	if err != nil {
		return "", err
	}

	body, contentType, err := wsp.createMultipartForm(wav)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart form: %w", err)
	}

	url := strings.TrimRight(wsp.config.BaseURL, "/") + wsp.config.InferencePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	for key, value := range wsp.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}

	startTime := time.Now()
	resp, err := wsp.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whisper-server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseData)))
	}

	text, err := wsp.parseResponse(responseData)
	if err != nil {
		return "", err
	}

	wsp.logger.Debug("chunk transcribed",
		zap.Duration("audio", pcm.Duration()),
		zap.Duration("latency", time.Since(startTime)))
	return text, nil
}

// createMultipartForm creates the multipart form for the API request
func (wsp *WhisperServerProvider) createMultipartForm(wav []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "chunk.wav")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return nil, "", fmt.Errorf("failed to write audio: %w", err)
	}

	params := map[string]string{
		"response_format": wsp.config.ResponseFormat,
		"temperature":     fmt.Sprintf("%.2f", wsp.config.Temperature),
	}
	if wsp.config.Language != "" {
		params["language"] = wsp.config.Language
	}
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

// parseResponse parses the response based on the response format
func (wsp *WhisperServerProvider) parseResponse(data []byte) (string, error) {
	switch wsp.config.ResponseFormat {
	case "text":
		return strings.TrimSpace(string(data)), nil
	default:
		var resp WhisperServerResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return "", fmt.Errorf("failed to parse JSON response: %w", err)
		}
		if resp.Error != "" {
			return "", fmt.Errorf("whisper-server error: %s", resp.Error)
		}
		return strings.TrimSpace(resp.Text), nil
	}
}

// GetProviderInfo returns provider information
func (wsp *WhisperServerProvider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:            "whisper_server",
		Model:           "whisper-server",
		ConcurrencySafe: true,
		InputFrame:      provider.WhisperFrame,
	}
}
