package progress

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"whisper-api/internal/app/audio"
)

type Config struct {
	Enabled bool
	Writer  io.Writer
}

// Manager renders one bar per transcribed file. A disabled manager accepts
// every call and draws nothing.
type Manager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
	bars      []*mpb.Bar
}

func NewManager(config Config) *Manager {
	if !config.Enabled {
		return &Manager{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	return &Manager{
		container: mpb.New(
			mpb.WithOutput(writer),
			mpb.WithRefreshRate(120*time.Millisecond),
			mpb.WithAutoRefresh(),
		),
		enabled: true,
	}
}

// Tracker follows the chunks of one file. Its bar is created on the first
// update because the chunk count is only known after normalization.
type Tracker struct {
	manager     *Manager
	description string
	bar         *mpb.Bar
}

// Track starts tracking a file.
func (m *Manager) Track(description string) *Tracker {
	return &Tracker{manager: m, description: description}
}

// Update has the signature of transcriber.ProgressFunc.
func (t *Tracker) Update(done, total int, _ audio.Chunk) {
	if !t.manager.enabled {
		return
	}
	if t.bar == nil {
		t.bar = t.manager.addBar(total, t.description)
	}
	t.bar.SetCurrent(int64(done))
}

// Abort removes an unfinished bar so Wait does not block on it.
func (t *Tracker) Abort() {
	if t.bar != nil && !t.bar.Completed() {
		t.bar.Abort(false)
	}
}

func (m *Manager) addBar(total int, description string) *mpb.Bar {
	m.mu.Lock()
	defer m.mu.Unlock()

	bar := m.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d chunks)", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%.1f", decor.WCSyncSpace),
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " ✓ ",
			),
		),
	)
	m.bars = append(m.bars, bar)
	return bar
}

// Wait flushes the bars. Every bar must be complete or aborted.
func (m *Manager) Wait() {
	if m.enabled && m.container != nil {
		m.container.Wait()
	}
}

func IsTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	if file, ok := writer.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// ShouldShowProgress draws bars only on an interactive stderr unless forced.
func ShouldShowProgress(forced bool) bool {
	if forced {
		return true
	}
	return IsTTY(os.Stderr)
}
