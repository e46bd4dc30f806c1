package transcribe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whisper-api/internal/app"
	"whisper-api/internal/app/audio"
	"whisper-api/internal/app/progress"
	"whisper-api/internal/app/transcriber"
)

var (
	jsonOutput    bool
	forceProgress bool
	noProgress    bool
)

func init() {
	Cmd.Flags().BoolVar(&jsonOutput, "json", false, `print {"transcription": "..."} per file, as the API does`)
	Cmd.Flags().BoolVar(&forceProgress, "progress", false, "draw progress bars even when stderr is not a terminal")
	Cmd.Flags().BoolVar(&noProgress, "no-progress", false, "never draw progress bars")
	Cmd.MarkFlagsMutuallyExclusive("progress", "no-progress")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <audio file>...",
	Short: "Transcribe local audio files with the configured backend",
	Long: `Transcribe local audio files with the configured backend.

Each file goes through the same pipeline as an upload to POST /transcribe.
Files are processed one after another; the first failure stops the run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")

		bars := progress.NewManager(progress.Config{
			Enabled: !noProgress && progress.ShouldShowProgress(forceProgress),
			Writer:  cmd.ErrOrStderr(),
		})
		defer bars.Wait()

		var tracker *progress.Tracker
		logLevel := "warn"
		if verbose {
			logLevel = "debug"
		}

		a, err := app.Bootstrap(app.Options{
			ConfigPath: configPath,
			LogLevel:   logLevel,
			Transcriber: []transcriber.Option{
				transcriber.WithProgress(func(done, total int, chunk audio.Chunk) {
					tracker.Update(done, total, chunk)
				}),
			},
		})
		if err != nil {
			return err
		}
		defer a.Logger.Sync()

		for _, path := range args {
			tracker = bars.Track(filepath.Base(path))
			text, err := transcribeFile(cmd, a, path)
			if err != nil {
				tracker.Abort()
				a.Logger.Error("transcription failed", zap.String("file", path), zap.Error(err))
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := printTranscript(cmd, path, text, len(args) > 1); err != nil {
				return err
			}
		}
		return nil
	},
}

func transcribeFile(cmd *cobra.Command, a *app.App, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	transcript, err := a.Pipeline.Transcribe(cmd.Context(), f)
	if err != nil {
		return "", err
	}
	return transcript.Text, nil
}

func printTranscript(cmd *cobra.Command, path, text string, labeled bool) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		return json.NewEncoder(out).Encode(map[string]string{"transcription": text})
	}
	if labeled {
		_, err := fmt.Fprintf(out, "%s: %s\n", path, text)
		return err
	}
	_, err := fmt.Fprintln(out, text)
	return err
}
