package transcribe

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"audio-scribe/internal/app"
	"audio-scribe/internal/app/batch"
	"audio-scribe/internal/config"
)

var (
	inputDir      string
	outputDir     string
	engineName    string
	modelName     string
	transcription string
	language      string
	limit         int
	parallel      int
	progress      bool
)

func init() {
	Cmd.Flags().StringVarP(&inputDir, "input", "i", "",
		"directory containing the audio files to transcribe")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "",
		"directory for transcript files, one per input file")
	Cmd.Flags().StringVarP(&engineName, "engine", "e", "", "engine to use (default from engines.yaml)")
	Cmd.Flags().StringVarP(&modelName, "model", "m", "", "model variant to request")
	Cmd.Flags().StringVarP(&transcription, "transcription", "t", "plain_text",
		"output selector: plain_text, formatted_text, srt, vtt or json")
	Cmd.Flags().StringVarP(&language, "language", "l", "", "spoken language hint, e.g. en")
	Cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many files, 0 means all")
	Cmd.Flags().IntVarP(&parallel, "parallel", "p", config.DefaultBatchConcurrency, "concurrent transcriptions")
	Cmd.Flags().BoolVar(&progress, "progress", false, "force progress bars even without a TTY")

	Cmd.MarkFlagRequired("input")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe the audio files in a directory",
	Long: `Transcribe the audio files in a directory

- Scans for known audio containers (wav, mp3, flac, ogg, m4a, webm)
- Runs each file through the configured engine
- Records every attempt in the job ledger; completed files are skipped on re-runs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateConcurrency(parallel, "batch"); err != nil {
			return err
		}

		runner, err := app.InitializeRunner(batch.Config{
			Parallel: parallel,
			Progress: batch.ProgressConfig{Enabled: batch.ShouldShowProgress(progress)},
		})
		if err != nil {
			return err
		}
		defer runner.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		summary, err := runner.Run(ctx, batch.Request{
			InputDir:      inputDir,
			OutputDir:     outputDir,
			Limit:         limit,
			Engine:        engineName,
			Model:         modelName,
			Transcription: transcription,
			Language:      language,
		})
		if err != nil {
			return err
		}

		fmt.Printf("transcription finished: %d processed, %d succeeded, %d failed, %d skipped\n",
			summary.Processed, summary.Succeeded, summary.Failed, summary.Skipped)
		if summary.Failed > 0 {
			return fmt.Errorf("%d files failed", summary.Failed)
		}
		return nil
	},
}
