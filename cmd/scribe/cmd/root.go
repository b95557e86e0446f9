package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"audio-scribe/cmd/scribe/cmd/export"
	"audio-scribe/cmd/scribe/cmd/serve"
	"audio-scribe/cmd/scribe/cmd/submit"
	"audio-scribe/cmd/scribe/cmd/transcribe"
	"audio-scribe/cmd/scribe/cmd/version"
	"audio-scribe/cmd/scribe/cmd/worker"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "An audio transcription worker with a serverless-style API",
	Long: `An audio transcription worker with a serverless-style API.
- Run the HTTP surface with 'scribe serve'
- Run a Temporal worker with 'scribe worker'
- Transcribe local files with 'scribe transcribe'
- Jobs are recorded in a local ledger and exportable to excel`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(worker.Cmd)
	rootCmd.AddCommand(submit.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
