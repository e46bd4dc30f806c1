package testutil

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"whisper-api/internal/app/audio"
)

// Silence returns d of canonical zero-valued PCM.
func Silence(d time.Duration) *audio.Buffer {
	frames := audio.Canonical.FramesFor(d)
	return &audio.Buffer{Format: audio.Canonical, Data: make([]byte, frames*audio.Canonical.FrameSize())}
}

// Tone returns d of a canonical sine wave at freq Hz and half amplitude.
func Tone(d time.Duration, freq float64) *audio.Buffer {
	frames := audio.Canonical.FramesFor(d)
	data := make([]byte, frames*audio.Canonical.FrameSize())
	for i := 0; i < frames; i++ {
		v := 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(audio.Canonical.SampleRate))
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(v*math.MaxInt16)))
	}
	return &audio.Buffer{Format: audio.Canonical, Data: data}
}

// WAV encodes buf as a WAV file and fails the test on error.
func WAV(t testing.TB, buf *audio.Buffer) []byte {
	t.Helper()
	data, err := audio.EncodeWAV(buf)
	require.NoError(t, err)
	return data
}
