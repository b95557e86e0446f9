package batch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"audio-scribe/internal/app/audio"
	"audio-scribe/internal/app/handler"
	"audio-scribe/internal/app/model"
	"audio-scribe/internal/app/repository"
	"audio-scribe/internal/app/util/files"
)

// Runner pushes local audio files through the same pipeline the serverless
// worker runs, recording every attempt in the job ledger.
type Runner struct {
	handler  *handler.Handler
	jobs     repository.JobDAO
	progress *ProgressManager
	parallel int
}

// Config controls batch execution.
type Config struct {
	// Parallel caps concurrent transcriptions. Zero means one at a time.
	Parallel int
	Progress ProgressConfig
}

// Request describes one batch submission.
type Request struct {
	// InputDir is scanned non-recursively for audio files.
	InputDir string

	// Extensions filters the scan. Empty means every sniffable container.
	Extensions []string

	// OutputDir, when set, receives one transcript file per input file.
	OutputDir string

	// Limit stops after this many unprocessed files. Zero means all.
	Limit int

	Engine        string
	Model         string
	Transcription string
	Language      string
}

// Summary tallies a finished batch.
type Summary struct {
	Processed int
	Succeeded int
	Failed    int
	Skipped   int
}

// NewRunner wires a batch runner. jobs may be nil, in which case nothing is
// recorded and nothing is skipped.
func NewRunner(h *handler.Handler, jobs repository.JobDAO, cfg Config) *Runner {
	parallel := cfg.Parallel
	if parallel < 1 {
		parallel = 1
	}
	return &Runner{
		handler:  h,
		jobs:     jobs,
		progress: NewProgressManager(cfg.Progress),
		parallel: parallel,
	}
}

func (r *Runner) Close() error {
	if r.progress != nil {
		r.progress.Shutdown()
	}
	if r.jobs != nil {
		return r.jobs.Close()
	}
	return nil
}

// Run transcribes every unprocessed audio file under req.InputDir.
func (r *Runner) Run(ctx context.Context, req Request) (*Summary, error) {
	inputDir, err := files.GetAbsolutePath(req.InputDir)
	if err != nil {
		return nil, err
	}

	extensions := req.Extensions
	if len(extensions) == 0 {
		for _, f := range audio.KnownFormats() {
			extensions = append(extensions, f.Extension())
		}
	}

	entries, err := files.ListByExtension(inputDir, extensions)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	toProcess := r.filterProcessed(entries, req.Limit, summary)
	if len(toProcess) == 0 {
		return summary, nil
	}

	if req.OutputDir != "" {
		if err := files.EnsureDir(req.OutputDir); err != nil {
			return nil, err
		}
	}

	log.Printf("Found %d files to transcribe in %s\n", len(toProcess), inputDir)

	bar := r.progress.CreateBar(len(toProcess), "Transcribing")
	defer r.progress.Wait()

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan bool, r.parallel)

	for _, entry := range toProcess {
		if ctx.Err() != nil {
			bar.Complete()
			break
		}

		wg.Add(1)
		go func(entry files.Entry) {
			defer wg.Done()
			defer bar.Increment()

			sem <- true
			err := r.processFile(ctx, entry, req)
			<-sem

			mu.Lock()
			summary.Processed++
			if err != nil {
				summary.Failed++
			} else {
				summary.Succeeded++
			}
			mu.Unlock()

			if err != nil {
				log.Printf("Error transcribing file %s: %v\n", entry.Name, err)
			} else {
				log.Printf("Successfully transcribed file %s\n", entry.Name)
			}
		}(entry)
	}
	wg.Wait()
	return summary, nil
}

// filterProcessed drops files whose most recent ledger entry completed.
// Failed attempts run again.
func (r *Runner) filterProcessed(entries []files.Entry, limit int, summary *Summary) []files.Entry {
	toProcess := make([]files.Entry, 0, len(entries))
	for _, entry := range entries {
		if r.jobs != nil {
			prior, err := r.jobs.FindBySource(entry.Name)
			if err == nil && prior.Status == model.StatusCompleted {
				fmt.Printf("File '%s' already transcribed as job '%s', skipping...\n", entry.Name, prior.ID)
				summary.Skipped++
				continue
			}
		}
		toProcess = append(toProcess, entry)
		if limit > 0 && len(toProcess) >= limit {
			break
		}
	}
	return toProcess
}

func (r *Runner) processFile(ctx context.Context, entry files.Entry, req Request) error {
	data, err := os.ReadFile(entry.FullPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", entry.FullPath, err)
	}

	jobID := uuid.NewString()
	started := time.Now()
	if r.jobs != nil {
		job := &model.Job{
			ID:         jobID,
			Status:     model.StatusInProgress,
			Engine:     req.Engine,
			Model:      req.Model,
			SourceName: entry.Name,
			CreatedAt:  started,
			UpdatedAt:  started,
		}
		if err := r.jobs.Insert(job); err != nil {
			return fmt.Errorf("failed to record job: %v", err)
		}
	}

	out := r.handler.Handle(ctx, &handler.Input{
		AudioBase64:   base64.StdEncoding.EncodeToString(data),
		Engine:        req.Engine,
		Model:         req.Model,
		Transcription: req.Transcription,
		Language:      req.Language,
	})

	elapsedMS := out.Elapsed.Milliseconds()
	if out.Failed() {
		r.recordFailure(jobID, out.Error, elapsedMS)
		return fmt.Errorf("%s: %s", out.Error.Kind, out.Error.Message)
	}

	if r.jobs != nil {
		if err := r.jobs.Complete(jobID, string(out.Result), out.Text, out.DurationSec, elapsedMS); err != nil {
			log.Printf("Failed to record result for %s: %v\n", entry.Name, err)
		}
	}

	if req.OutputDir != "" {
		if err := writeTranscript(req.OutputDir, entry.Name, req.Transcription, out); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) recordFailure(jobID string, info *handler.ErrorInfo, elapsedMS int64) {
	if r.jobs == nil {
		return
	}
	if err := r.jobs.Fail(jobID, info.Kind, info.Message, elapsedMS); err != nil {
		log.Printf("Failed to record error for job %s: %v\n", jobID, err)
	}
}

func writeTranscript(outputDir, sourceName, selector string, out *handler.Output) error {
	ext := transcriptExtension(selector)
	path := filepath.Join(outputDir, files.ReplaceExtension(sourceName, ext))

	content := []byte(out.Result)
	switch ext {
	case ".txt":
		content = []byte(out.Text)
	case ".srt", ".vtt":
		// Subtitle payloads are JSON strings; unwrap them for the file.
		var doc string
		if err := json.Unmarshal(out.Result, &doc); err == nil {
			content = []byte(doc)
		}
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write transcript %s: %v", path, err)
	}
	return nil
}

// transcriptExtension maps an output selector to a transcript file
// extension.
func transcriptExtension(selector string) string {
	switch selector {
	case "srt":
		return ".srt"
	case "vtt":
		return ".vtt"
	case "text", "plain_text", "formatted_text":
		return ".txt"
	default:
		return ".json"
	}
}
