package submit

import (
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"audio-scribe/internal/app/handler"
	"audio-scribe/internal/app/temporal/pkg/command"
	"audio-scribe/internal/app/temporal/pkg/common"
	"audio-scribe/internal/app/temporal/workflows"
)

var (
	inputFilePath  string
	outputFilePath string
	engineName     string
	modelName      string
	transcription  string
	language       string
	taskQueue      string
	detach         bool
	timeout        time.Duration
)

func init() {
	Cmd.Flags().StringVarP(&inputFilePath, "input", "i", "", "audio file to transcribe")
	Cmd.Flags().StringVarP(&outputFilePath, "output", "o", "", "write the result payload to this file instead of stdout")
	Cmd.Flags().StringVarP(&engineName, "engine", "e", "", "transcription engine (default engine when empty)")
	Cmd.Flags().StringVarP(&modelName, "model", "m", "", "model identifier passed to the engine")
	Cmd.Flags().StringVarP(&transcription, "transcription", "t", "plain_text", "output format: plain_text, formatted_text, srt, vtt, json, verbose_json")
	Cmd.Flags().StringVarP(&language, "language", "l", "", "spoken language hint")
	Cmd.Flags().StringVarP(&taskQueue, "task-queue", "q", "", "Temporal task queue (default from TEMPORAL_TASK_QUEUE)")
	Cmd.Flags().BoolVar(&detach, "detach", false, "submit without waiting for the result")
	Cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "how long to wait for the result")
	Cmd.MarkFlagRequired("input")
}

var Cmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit one file to a Temporal transcription worker",
	Long: `Submit sends a single audio file to the transcription workflow and waits
for the finished job envelope. Use --detach to fire and forget; a running
'scribe worker' on the same task queue picks the job up either way.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(inputFilePath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", inputFilePath, err)
		}

		cfg := common.DefaultTemporalConfig()
		if taskQueue != "" {
			cfg.TaskQueue = taskQueue
		}

		c, err := common.NewTemporalClient(cfg, nil)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		req := workflows.TranscriptionRequest{
			JobID: uuid.NewString(),
			Input: handler.Input{
				AudioBase64:   base64.StdEncoding.EncodeToString(data),
				Engine:        engineName,
				Model:         modelName,
				Transcription: transcription,
				Language:      language,
			},
		}

		run, err := command.SubmitTranscription(ctx, c, cfg.TaskQueue, req)
		if err != nil {
			return err
		}
		fmt.Printf("submitted %s as job %s (workflow %s)\n", filepath.Base(inputFilePath), req.JobID, run.GetID())

		if detach {
			return nil
		}

		result, err := command.AwaitResult(ctx, run, timeout)
		if err != nil {
			return err
		}
		if result.Error != nil {
			return fmt.Errorf("job failed: %s: %s", result.Error.Kind, result.Error.Message)
		}

		if outputFilePath != "" {
			if err := os.WriteFile(outputFilePath, result.Output, 0644); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
			fmt.Printf("result written to %s (%d ms on %s)\n", outputFilePath, result.ExecutionMS, result.Engine)
			return nil
		}

		fmt.Println(string(result.Output))
		return nil
	},
}
