package whisper_cpp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"whisper-api/internal/app/api/provider"
	"whisper-api/internal/app/audio"
)

// commandRunner runs the whisper.cpp binary; replaced in tests.
type commandRunner interface {
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// LocalProviderConfig represents configuration specific to local whisper.cpp provider
type LocalProviderConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
	TempDir    string `yaml:"temp_dir"`
}

// LocalTranscriber implements local transcription, using local binary commands.
// Each chunk is written to a scratch WAV file because the binary only reads
// from disk; the file is removed before Transcribe returns.
type LocalTranscriber struct {
	config LocalProviderConfig
	runner commandRunner
	logger *zap.Logger
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
func NewLocalTranscriber(config LocalProviderConfig, logger *zap.Logger) *LocalTranscriber {
	if config.Language == "" {
		config.Language = "auto"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalTranscriber{
		config: config,
		runner: execRunner{},
		logger: logger.With(zap.String("provider", "whisper_cpp")),
	}
}

// Transcribe runs the whisper.cpp binary over one chunk and returns its text.
func (lt *LocalTranscriber) Transcribe(ctx context.Context, pcm *audio.Buffer) (string, error) {
	scratch, err := os.MkdirTemp(lt.config.TempDir, "whisper-chunk-*")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	wav, err := audio.EncodeWAV(pcm)
	if err != nil {
		return "", err
	}
	inputFilePath := filepath.Join(scratch, "chunk.wav")
	if err := os.WriteFile(inputFilePath, wav, 0o600); err != nil {
		return "", fmt.Errorf("failed to write scratch audio: %w", err)
	}

	args := lt.args(inputFilePath)
	var stdout, stderr bytes.Buffer

	lt.logger.Debug("running transcription command",
		zap.String("binary", lt.config.BinaryPath),
		zap.Strings("args", args),
		zap.Duration("audio", pcm.Duration()))

	if err := lt.runner.Run(ctx, lt.config.BinaryPath, args, &stdout, &stderr); err != nil {
		return "", fmt.Errorf("command execution error: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	return joinSegments(stdout.String()), nil
}

func (lt *LocalTranscriber) args(inputFilePath string) []string {
	args := []string{
		"-m", lt.config.ModelPath,
		"-f", inputFilePath,
		"-l", lt.config.Language,
		"--no-timestamps",
		"--no-prints",
	}
	if lt.config.Prompt != "" {
		args = append(args, "--prompt", lt.config.Prompt)
	}
	if lt.config.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(lt.config.Threads))
	}
	return args
}

// GetProviderInfo returns provider information
func (lt *LocalTranscriber) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:       "whisper_cpp",
		Model:      filepath.Base(lt.config.ModelPath),
		InputFrame: provider.WhisperFrame,
		// One model instance per process; concurrent runs would
		// oversubscribe the CPU the model is tuned for.
		ConcurrencySafe: false,
	}
}

// joinSegments flattens the one-segment-per-line output of whisper.cpp.
func joinSegments(output string) string {
	var segments []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			segments = append(segments, line)
		}
	}
	return strings.Join(segments, " ")
}
