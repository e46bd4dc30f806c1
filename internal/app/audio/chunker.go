package audio

import (
	"fmt"
	"time"

	apperrors "whisper-api/internal/app/errors"
)

// DefaultWindow is the fixed chunk length submitted to the transcription backend.
const DefaultWindow = 30 * time.Second

// Chunk is a contiguous, non-overlapping slice of a normalized buffer.
type Chunk struct {
	Index  int           // Zero-based position in the source buffer.
	Start  time.Duration // Offset of the first frame in the source.
	End    time.Duration // Offset one past the last frame.
	Buffer *Buffer
}

// Duration returns the length of this chunk.
func (c Chunk) Duration() time.Duration {
	return c.End - c.Start
}

// String returns a human-readable representation for logging.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d: %s-%s", c.Index, c.Start, c.End)
}

// Split partitions buf into windows of the given length. Chunk i covers
// [i*window, min((i+1)*window, duration)); only the last chunk may be
// shorter, and an empty buffer yields no chunks. The window is measured in
// whole frames of buf's sample rate.
func Split(buf *Buffer, window time.Duration) ([]Chunk, error) {
	if window <= 0 {
		return nil, apperrors.ErrInvalidWindow
	}
	windowFrames := buf.Format.FramesFor(window)
	if windowFrames <= 0 {
		return nil, fmt.Errorf("%w: %s is shorter than one frame at %dHz", apperrors.ErrInvalidWindow, window, buf.Format.SampleRate)
	}

	total := buf.Frames()
	chunks := make([]Chunk, 0, (total+windowFrames-1)/windowFrames)
	for start := 0; start < total; start += windowFrames {
		end := min(start+windowFrames, total)
		chunks = append(chunks, Chunk{
			Index:  len(chunks),
			Start:  frameOffset(start, buf.Format.SampleRate),
			End:    frameOffset(end, buf.Format.SampleRate),
			Buffer: buf.Slice(start, end),
		})
	}
	return chunks, nil
}

func frameOffset(frame, rate int) time.Duration {
	return time.Duration(int64(frame) * int64(time.Second) / int64(rate))
}
