package transcriber

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"whisper-api/internal/app/api/provider"
	"whisper-api/internal/app/audio"
	apperrors "whisper-api/internal/app/errors"
	"whisper-api/internal/app/metrics"
	mocks "whisper-api/internal/app/testutil"
)

func newPipeline(t *testing.T, pcm *audio.Buffer, opts ...Option) (*Chunked, *mocks.MockTranscriber) {
	t.Helper()
	normalizer := &mocks.MockNormalizer{}
	normalizer.On("Normalize", mock.Anything, mock.Anything).Return(pcm, nil)

	transcriber := mocks.NewMockTranscriber()
	c, err := NewChunked(normalizer, transcriber, opts...)
	require.NoError(t, err)
	return c, transcriber
}

func TestChunked_SixtyFiveSeconds(t *testing.T) {
	c, transcriber := newPipeline(t, mocks.Tone(65*time.Second, 440))
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return(" first ", nil).Once()
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("second", nil).Once()
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("third\n", nil).Once()

	transcript, err := c.Transcribe(context.Background(), strings.NewReader("upload"))
	require.NoError(t, err)

	assert.Equal(t, "first second third", transcript.Text)
	assert.Equal(t, 65*time.Second, transcript.Duration)
	assert.Equal(t, []float64{30, 30, 5}, transcriber.ChunkSeconds())
	assert.Equal(t, []Result{{0, " first "}, {1, "second"}, {2, "third\n"}}, transcript.Chunks)
	transcriber.AssertNumberOfCalls(t, "Transcribe", 3)
}

func TestChunked_EmptyAudio(t *testing.T) {
	c, transcriber := newPipeline(t, mocks.Silence(0))

	transcript, err := c.Transcribe(context.Background(), strings.NewReader("upload"))
	require.NoError(t, err)

	assert.Equal(t, "", transcript.Text)
	assert.Empty(t, transcript.Chunks)
	transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
}

func TestChunked_ChunkFailureAbortsRequest(t *testing.T) {
	c, transcriber := newPipeline(t, mocks.Silence(70*time.Second))
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("ok", nil).Once()
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("", errors.New("model crashed")).Once()

	transcript, err := c.Transcribe(context.Background(), strings.NewReader("upload"))
	require.Error(t, err)

	assert.Equal(t, apperrors.KindTranscription, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "transcribe chunk 1")
	assert.Contains(t, err.Error(), "model crashed")
	assert.Empty(t, transcript.Text)
	// the third chunk is never attempted
	transcriber.AssertNumberOfCalls(t, "Transcribe", 2)
}

func TestChunked_DecodeErrorPassesThrough(t *testing.T) {
	normalizer := &mocks.MockNormalizer{}
	decodeErr := apperrors.E(apperrors.KindDecode, "normalize", errors.New("ffmpeg: invalid data found"))
	normalizer.On("Normalize", mock.Anything, mock.Anything).Return(nil, decodeErr)

	transcriber := mocks.NewMockTranscriber()
	c, err := NewChunked(normalizer, transcriber)
	require.NoError(t, err)

	_, err = c.Transcribe(context.Background(), strings.NewReader("garbage"))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindDecode, apperrors.KindOf(err))
	transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
}

func TestChunked_SequentialOrder(t *testing.T) {
	var order []float64
	pcm := mocks.Silence(95 * time.Second)
	c, transcriber := newPipeline(t, pcm, WithWindow(20*time.Second))
	transcriber.On("Transcribe", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			order = append(order, args.Get(1).(*audio.Buffer).Duration().Seconds())
		}).
		Return("x", nil)

	transcript, err := c.Transcribe(context.Background(), strings.NewReader("upload"))
	require.NoError(t, err)

	assert.Equal(t, []float64{20, 20, 20, 20, 15}, order)
	assert.Equal(t, "x x x x x", transcript.Text)
	for i, r := range transcript.Chunks {
		assert.Equal(t, i, r.Index)
	}
}

func TestChunked_Progress(t *testing.T) {
	var calls [][2]int
	c, transcriber := newPipeline(t, mocks.Silence(61*time.Second),
		WithProgress(func(done, total int, _ audio.Chunk) {
			calls = append(calls, [2]int{done, total})
		}))
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("word", nil)

	_, err := c.Transcribe(context.Background(), strings.NewReader("upload"))
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestChunked_Metrics(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	c, transcriber := newPipeline(t, mocks.Silence(40*time.Second), WithMetrics(m))
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("word", nil)

	_, err := c.Transcribe(context.Background(), strings.NewReader("upload"))
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChunksTranscribed.WithLabelValues("mock", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transcriptions.WithLabelValues("success")))
}

func TestNewChunked_RejectsWindowLongerThanFrame(t *testing.T) {
	transcriber := mocks.NewMockTranscriber()
	transcriber.Info.InputFrame = provider.WhisperFrame

	_, err := NewChunked(&mocks.MockNormalizer{}, transcriber, WithWindow(45*time.Second))
	assert.ErrorContains(t, err, "exceeds")

	c, err := NewChunked(&mocks.MockNormalizer{}, transcriber)
	require.NoError(t, err)
	assert.Equal(t, audio.DefaultWindow, c.Window())
}
