package main

import (
	"fmt"
	"os"

	"whisper-api/cmd/whisper-api/cmd"
	"whisper-api/internal/config"

	// Import providers to register them
	_ "whisper-api/internal/app/api/elevenlabs"
	_ "whisper-api/internal/app/api/gemini"
	_ "whisper-api/internal/app/api/openai/whisper"
	_ "whisper-api/internal/app/api/whisper_cpp"
	_ "whisper-api/internal/app/api/whisper_server"
)

func main() {
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	}

	cmd.Execute()
}
