package main

import (
	"fmt"
	"os"

	"audio-scribe/cmd/scribe/cmd"
	"audio-scribe/internal/config"

	// Import engines to register them
	_ "audio-scribe/internal/app/engine/gemini"
	_ "audio-scribe/internal/app/engine/openai"
	_ "audio-scribe/internal/app/engine/whispercpp"
	_ "audio-scribe/internal/app/engine/whisperserver"
)

func main() {
	// Initialize configuration (non-blocking - only warns about missing keys)
	apiKeys, err := config.InitializeConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Configuration Warning: %v\n", err)
		fmt.Fprintf(os.Stderr, "💡 To enable hosted engines, copy .env.example to .env and add your API keys\n")
		// Continue execution - don't exit
	} else {
		// Re-export the validated keys so engine creators can read them
		if apiKeys.OpenAI != "" {
			os.Setenv("OPENAI_API_KEY", apiKeys.OpenAI)
		}
		if apiKeys.Gemini != "" {
			os.Setenv("GEMINI_API_KEY", apiKeys.Gemini)
		}
	}

	// Execute the CLI command
	cmd.Execute()
}
