package export

import (
	"fmt"
	"io"
	"time"

	"github.com/tealeg/xlsx"

	"audio-scribe/internal/app/model"
)

// ToExcel writes the given ledger rows to an xlsx workbook file.
func ToExcel(jobs []model.Job, outputFilePath string) error {
	file, err := buildWorkbook(jobs)
	if err != nil {
		return err
	}
	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("failed to save workbook: %v", err)
	}
	return nil
}

// WriteTo streams the ledger rows as an xlsx workbook, for HTTP downloads.
func WriteTo(jobs []model.Job, w io.Writer) error {
	file, err := buildWorkbook(jobs)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %v", err)
	}
	return nil
}

func buildWorkbook(jobs []model.Job) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet: %v", err)
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "Job ID"
	headerRow.AddCell().Value = "Status"
	headerRow.AddCell().Value = "Engine"
	headerRow.AddCell().Value = "Model"
	headerRow.AddCell().Value = "Format"
	headerRow.AddCell().Value = "Source"
	headerRow.AddCell().Value = "Audio Seconds"
	headerRow.AddCell().Value = "Execution (ms)"
	headerRow.AddCell().Value = "Created"
	headerRow.AddCell().Value = "Transcript"
	headerRow.AddCell().Value = "Error"

	for _, job := range jobs {
		row := sheet.AddRow()
		row.AddCell().Value = job.ID
		row.AddCell().Value = job.Status
		row.AddCell().Value = job.Engine
		row.AddCell().Value = job.Model
		row.AddCell().Value = job.AudioFormat
		row.AddCell().Value = job.SourceName
		row.AddCell().Value = fmt.Sprintf("%.2f", job.AudioSeconds)
		row.AddCell().Value = fmt.Sprint(job.ExecutionMS)
		row.AddCell().Value = job.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = job.Transcript
		row.AddCell().Value = formatError(job)
	}
	return file, nil
}

func formatError(job model.Job) string {
	if job.ErrorKind == "" && job.ErrorMessage == "" {
		return ""
	}
	if job.ErrorKind == "" {
		return job.ErrorMessage
	}
	return fmt.Sprintf("%s: %s", job.ErrorKind, job.ErrorMessage)
}
