package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"whisper-api/cmd/whisper-api/cmd/serve"
	"whisper-api/cmd/whisper-api/cmd/transcribe"
	"whisper-api/cmd/whisper-api/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "whisper-api",
	Short: "Speech-to-text HTTP service backed by a Whisper model",
	Long: `Speech-to-text HTTP service backed by a Whisper model.

- Uploaded audio of any format ffmpeg understands is converted to 16kHz mono PCM
- The audio is cut into 30 second chunks and transcribed in order
- The chunk texts are joined into a single transcript

The model backend (whisper_cpp, whisper_server, openai, gemini or elevenlabs)
is selected once at startup from the environment or a YAML config file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML config file selecting the transcription backend")
	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "verbose output")
}
