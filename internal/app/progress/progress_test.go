package progress

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"whisper-api/internal/app/audio"
)

func TestTracker_Disabled(t *testing.T) {
	m := NewManager(Config{Enabled: false})
	tracker := m.Track("clip.mp3")

	assert.NotPanics(t, func() {
		tracker.Update(1, 3, audio.Chunk{})
		tracker.Abort()
		m.Wait()
	})
	assert.Nil(t, tracker.bar)
}

func TestTracker_CompletesBar(t *testing.T) {
	var out bytes.Buffer
	m := NewManager(Config{Enabled: true, Writer: &out})

	tracker := m.Track("clip.mp3")
	for i := 1; i <= 3; i++ {
		tracker.Update(i, 3, audio.Chunk{Index: i - 1})
	}
	m.Wait()

	assert.True(t, tracker.bar.Completed())
	assert.Contains(t, out.String(), "clip.mp3")
}

func TestTracker_AbortUnblocksWait(t *testing.T) {
	var out bytes.Buffer
	m := NewManager(Config{Enabled: true, Writer: &out})

	tracker := m.Track("broken.wav")
	tracker.Update(1, 4, audio.Chunk{})
	tracker.Abort()
	m.Wait()

	assert.Len(t, m.bars, 1)
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(nil))
	assert.False(t, IsTTY(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	assert.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTTY(f))
	assert.True(t, ShouldShowProgress(true))
}
