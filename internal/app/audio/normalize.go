package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	apperrors "whisper-api/internal/app/errors"
)

const defaultFFmpegPath = "ffmpeg"

// commandRunner runs an external program with the given stdio.
type commandRunner interface {
	Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Normalizer converts arbitrary audio containers into canonical PCM. Decoding,
// down-mixing and resampling are delegated to ffmpeg over stdin/stdout so no
// intermediate file is written.
type Normalizer struct {
	ffmpegPath string
	runner     commandRunner
	logger     *zap.Logger
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithFFmpegPath overrides the ffmpeg executable.
func WithFFmpegPath(path string) NormalizerOption {
	return func(n *Normalizer) {
		if path != "" {
			n.ffmpegPath = path
		}
	}
}

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(logger *zap.Logger) NormalizerOption {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// withCommandRunner replaces process execution in tests.
func withCommandRunner(r commandRunner) NormalizerOption {
	return func(n *Normalizer) {
		n.runner = r
	}
}

// NewNormalizer creates a Normalizer that shells out to ffmpeg.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		ffmpegPath: defaultFFmpegPath,
		runner:     execRunner{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize reads the whole input and returns it as canonical PCM. Input that
// is already a canonical WAV is returned as-is without invoking ffmpeg. Every
// failure is tagged KindDecode.
func (n *Normalizer) Normalize(ctx context.Context, r io.Reader) (*Buffer, error) {
	const op = "normalize"

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.E(apperrors.KindDecode, op, fmt.Errorf("read input: %w", err))
	}
	if len(data) == 0 {
		return nil, apperrors.E(apperrors.KindDecode, op, apperrors.ErrEmptyInput)
	}

	if buf, err := DecodeWAV(data); err == nil && buf.IsCanonical() {
		n.logger.Debug("input already canonical, skipping ffmpeg",
			zap.Duration("duration", buf.Duration()))
		return buf, nil
	}

	var stdout, stderr bytes.Buffer
	args := ffmpegArgs(Canonical)
	if err := n.runner.Run(ctx, n.ffmpegPath, args, bytes.NewReader(data), &stdout, &stderr); err != nil {
		msg := strings.TrimSpace(stderr.String())
		n.logger.Warn("ffmpeg failed to decode input",
			zap.Error(err),
			zap.Int("input_bytes", len(data)),
			zap.String("stderr", msg))
		if msg == "" {
			return nil, apperrors.E(apperrors.KindDecode, op, fmt.Errorf("ffmpeg: %w", err))
		}
		return nil, apperrors.E(apperrors.KindDecode, op, fmt.Errorf("ffmpeg: %s: %w", msg, err))
	}

	pcm := stdout.Bytes()
	pcm = pcm[:len(pcm)-len(pcm)%Canonical.FrameSize()]
	if len(pcm) == 0 {
		n.logger.Warn("ffmpeg produced no audio", zap.Int("input_bytes", len(data)))
		return nil, apperrors.E(apperrors.KindDecode, op, fmt.Errorf("ffmpeg produced no audio: %w", apperrors.ErrEmptyInput))
	}
	buf, err := NewBuffer(Canonical, pcm)
	if err != nil {
		return nil, apperrors.E(apperrors.KindDecode, op, err)
	}

	n.logger.Debug("normalized audio",
		zap.Int("input_bytes", len(data)),
		zap.Duration("duration", buf.Duration()))
	return buf, nil
}

// ffmpegArgs builds a pipe-to-pipe conversion into raw little-endian PCM.
func ffmpegArgs(target Format) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-vn",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", strconv.Itoa(target.Channels),
		"-ar", strconv.Itoa(target.SampleRate),
		"pipe:1",
	}
}
