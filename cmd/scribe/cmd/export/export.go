package export

import (
	"fmt"
	"log"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"audio-scribe/internal/app"
	"audio-scribe/internal/app/export"
	"audio-scribe/internal/app/model"
)

var (
	outputFilePath string
	engineName     string
	status         string
	limit          int
)

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "output", "o", "", "set output xlsx path")
	Cmd.Flags().StringVarP(&engineName, "engine", "e", "", "only export jobs run by this engine")
	Cmd.Flags().StringVarP(&status, "status", "s", "", "only export jobs with this status")
	Cmd.Flags().IntVar(&limit, "limit", 10000, "maximum rows to export")

	Cmd.MarkFlagRequired("output")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the job ledger to excel",
	Long: `Export the job ledger to excel

- Writes one row per recorded job, newest first
- Filter by engine or status with -e and -s`,
	Run: func(cmd *cobra.Command, args []string) {
		ledger, err := app.InitializeLedger()
		if err != nil {
			log.Fatalf("Failed to open ledger: %v\n", err)
		}
		defer ledger.Close()

		jobs, err := ledger.List(limit, 0)
		if err != nil {
			log.Fatal(err)
		}

		if engineName != "" {
			jobs = lo.Filter(jobs, func(job model.Job, _ int) bool { return job.Engine == engineName })
		}
		if status != "" {
			jobs = lo.Filter(jobs, func(job model.Job, _ int) bool { return job.Status == status })
		}

		if err := export.ToExcel(jobs, outputFilePath); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("export finished, %d jobs, exported file path: %v\n", len(jobs), outputFilePath)
	},
}
