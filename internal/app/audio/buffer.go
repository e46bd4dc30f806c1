package audio

import (
	"fmt"
	"time"
)

// Format describes the sample layout of raw PCM audio.
type Format struct {
	Channels    int
	SampleRate  int
	SampleWidth int // bytes per sample
}

// Canonical is the layout every transcription backend receives:
// mono, 16kHz, 16-bit little-endian PCM.
var Canonical = Format{Channels: 1, SampleRate: 16000, SampleWidth: 2}

// FrameSize returns the number of bytes holding one sample of every channel.
func (f Format) FrameSize() int {
	return f.Channels * f.SampleWidth
}

func (f Format) String() string {
	return fmt.Sprintf("%dch/%dHz/%dbit", f.Channels, f.SampleRate, f.SampleWidth*8)
}

// FramesFor converts a duration into a whole number of frames, rounding down.
func (f Format) FramesFor(d time.Duration) int {
	return int(int64(d) * int64(f.SampleRate) / int64(time.Second))
}

// Buffer is an in-memory block of interleaved PCM frames.
type Buffer struct {
	Format Format
	Data   []byte
}

// NewBuffer validates that data holds whole frames of the given format.
func NewBuffer(format Format, data []byte) (*Buffer, error) {
	if format.Channels <= 0 || format.SampleRate <= 0 || format.SampleWidth <= 0 {
		return nil, fmt.Errorf("invalid audio format %s", format)
	}
	if len(data)%format.FrameSize() != 0 {
		return nil, fmt.Errorf("pcm data length %d is not a multiple of frame size %d", len(data), format.FrameSize())
	}
	return &Buffer{Format: format, Data: data}, nil
}

// Frames returns the number of frames in the buffer.
func (b *Buffer) Frames() int {
	fs := b.Format.FrameSize()
	if fs == 0 {
		return 0
	}
	return len(b.Data) / fs
}

// Duration returns the playback length of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.Format.SampleRate == 0 {
		return 0
	}
	return time.Duration(int64(b.Frames()) * int64(time.Second) / int64(b.Format.SampleRate))
}

// Slice returns the frames in [start, end) sharing the underlying storage.
func (b *Buffer) Slice(start, end int) *Buffer {
	fs := b.Format.FrameSize()
	return &Buffer{Format: b.Format, Data: b.Data[start*fs : end*fs]}
}

// IsCanonical reports whether the buffer already has the canonical layout.
func (b *Buffer) IsCanonical() bool {
	return b.Format == Canonical
}

// Samples decodes 16-bit samples. The buffer must have a 2-byte sample width.
func (b *Buffer) Samples() []int16 {
	samples := make([]int16, len(b.Data)/2)
	for i := range samples {
		samples[i] = int16(uint16(b.Data[2*i]) | uint16(b.Data[2*i+1])<<8)
	}
	return samples
}

// PadOrTrim returns a copy of b holding exactly the number of frames in
// frame, zero-padded at the end or truncated.
func PadOrTrim(b *Buffer, frame time.Duration) *Buffer {
	target := b.Format.FramesFor(frame) * b.Format.FrameSize()
	data := make([]byte, target)
	copy(data, b.Data)
	return &Buffer{Format: b.Format, Data: data}
}
