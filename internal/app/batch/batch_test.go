package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"audio-scribe/internal/app/engine"
	"audio-scribe/internal/app/handler"
	"audio-scribe/internal/app/model"
	"audio-scribe/internal/app/testutil"
)

func newTestRunner(t *testing.T, mock *testutil.MockEngine, jobs *testutil.MockJobDAO) *Runner {
	t.Helper()
	registry := engine.NewRegistry()
	if err := registry.Add("mock", mock); err != nil {
		t.Fatalf("failed to register mock engine: %v", err)
	}
	h := handler.New(registry, handler.WithTempDir(t.TempDir()))
	return NewRunner(h, jobs, Config{Parallel: 2})
}

func writeAudio(t *testing.T, dir, name string, when time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, testutil.WavBytes(), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
}

func TestRunTranscribesDirectory(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeAudio(t, dir, "a.wav", now.Add(-2*time.Hour))
	writeAudio(t, dir, "b.wav", now.Add(-1*time.Hour))

	mock := testutil.NewMockEngine("mock")
	jobs := testutil.NewMockJobDAO()
	runner := newTestRunner(t, mock, jobs)

	summary, err := runner.Run(context.Background(), Request{InputDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Processed != 2 || summary.Succeeded != 2 {
		t.Errorf("summary = %+v, want 2 processed, 2 succeeded", summary)
	}
	if mock.CallCount() != 2 {
		t.Errorf("engine called %d times, want 2", mock.CallCount())
	}

	completed, err := jobs.ListByStatus(model.StatusCompleted, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(completed) != 2 {
		t.Fatalf("ledger has %d completed jobs, want 2", len(completed))
	}
	for _, job := range completed {
		if job.ResultJSON == "" {
			t.Errorf("job %s recorded without a result", job.ID)
		}
	}
}

func TestRunSkipsCompletedSources(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeAudio(t, dir, "done.wav", now.Add(-2*time.Hour))
	writeAudio(t, dir, "fresh.wav", now.Add(-1*time.Hour))

	jobs := testutil.NewMockJobDAO()
	if err := jobs.Insert(&model.Job{
		ID:         "prior",
		Status:     model.StatusCompleted,
		SourceName: "done.wav",
		CreatedAt:  now.Add(-24 * time.Hour),
		UpdatedAt:  now.Add(-24 * time.Hour),
	}); err != nil {
		t.Fatal(err)
	}

	mock := testutil.NewMockEngine("mock")
	runner := newTestRunner(t, mock, jobs)

	summary, err := runner.Run(context.Background(), Request{InputDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", summary.Skipped)
	}
	if summary.Processed != 1 {
		t.Errorf("Processed = %d, want 1", summary.Processed)
	}
	if req := mock.LastRequest(); req == nil {
		t.Fatal("engine never called")
	}
}

func TestRunRetriesFailedSources(t *testing.T) {
	dir := t.TempDir()
	writeAudio(t, dir, "flaky.wav", time.Now())

	jobs := testutil.NewMockJobDAO()
	if err := jobs.Insert(&model.Job{
		ID:         "prior-failure",
		Status:     model.StatusFailed,
		SourceName: "flaky.wav",
		CreatedAt:  time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatal(err)
	}

	mock := testutil.NewMockEngine("mock")
	runner := newTestRunner(t, mock, jobs)

	summary, err := runner.Run(context.Background(), Request{InputDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Skipped != 0 || summary.Succeeded != 1 {
		t.Errorf("summary = %+v, want the failed source retried", summary)
	}
}

func TestRunRecordsEngineFailures(t *testing.T) {
	dir := t.TempDir()
	writeAudio(t, dir, "bad.wav", time.Now())

	mock := testutil.NewMockEngine("mock").
		WithError(engine.NewError("mock", "inference_failed", "decoder rejected the stream"))
	jobs := testutil.NewMockJobDAO()
	runner := newTestRunner(t, mock, jobs)

	summary, err := runner.Run(context.Background(), Request{InputDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("Failed = %d, want 1", summary.Failed)
	}

	failed, err := jobs.ListByStatus(model.StatusFailed, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 1 {
		t.Fatalf("ledger has %d failed jobs, want 1", len(failed))
	}
	if failed[0].ErrorKind != "engine_error" {
		t.Errorf("ErrorKind = %q, want engine_error", failed[0].ErrorKind)
	}
	if failed[0].ErrorMessage != "decoder rejected the stream" {
		t.Errorf("ErrorMessage = %q, want the engine message verbatim", failed[0].ErrorMessage)
	}
}

func TestRunWritesTranscriptFiles(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeAudio(t, dir, "talk.wav", time.Now())

	mock := testutil.NewMockEngine("mock").
		WithPayload(`{"text":"hello from batch"}`, "hello from batch")
	runner := newTestRunner(t, mock, testutil.NewMockJobDAO())

	_, err := runner.Run(context.Background(), Request{
		InputDir:      dir,
		OutputDir:     outDir,
		Transcription: "plain_text",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	content, err := os.ReadFile(filepath.Join(outDir, "talk.txt"))
	if err != nil {
		t.Fatalf("transcript not written: %v", err)
	}
	if string(content) != "hello from batch" {
		t.Errorf("transcript = %q, want plain text", content)
	}
}

func TestRunWritesSubtitleFiles(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeAudio(t, dir, "talk.wav", time.Now())

	srtDoc := "1\n00:00:00,000 --> 00:00:02,000\nhello\n"
	mock := testutil.NewMockEngine("mock").
		WithPayload(string(engine.StringPayload(srtDoc)), "hello")
	runner := newTestRunner(t, mock, testutil.NewMockJobDAO())

	_, err := runner.Run(context.Background(), Request{
		InputDir:      dir,
		OutputDir:     outDir,
		Transcription: "srt",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	content, err := os.ReadFile(filepath.Join(outDir, "talk.srt"))
	if err != nil {
		t.Fatalf("transcript not written: %v", err)
	}
	if string(content) != srtDoc {
		t.Errorf("subtitle file = %q, want the unwrapped document %q", content, srtDoc)
	}
	if strings.Contains(string(content), `\n`) {
		t.Error("subtitle file still carries JSON escapes")
	}
}

func TestRunLimit(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeAudio(t, dir, "one.wav", now.Add(-3*time.Hour))
	writeAudio(t, dir, "two.wav", now.Add(-2*time.Hour))
	writeAudio(t, dir, "three.wav", now.Add(-1*time.Hour))

	mock := testutil.NewMockEngine("mock")
	runner := newTestRunner(t, mock, testutil.NewMockJobDAO())

	summary, err := runner.Run(context.Background(), Request{InputDir: dir, Limit: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Processed != 2 {
		t.Errorf("Processed = %d, want 2", summary.Processed)
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	runner := newTestRunner(t, testutil.NewMockEngine("mock"), nil)

	summary, err := runner.Run(context.Background(), Request{InputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Processed != 0 {
		t.Errorf("Processed = %d, want 0", summary.Processed)
	}
}

func TestRunMissingDirectory(t *testing.T) {
	runner := newTestRunner(t, testutil.NewMockEngine("mock"), nil)

	_, err := runner.Run(context.Background(), Request{InputDir: filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Error("Expected error but got none")
	}
}

func TestTranscriptExtension(t *testing.T) {
	tests := []struct {
		selector string
		want     string
	}{
		{"srt", ".srt"},
		{"vtt", ".vtt"},
		{"text", ".txt"},
		{"plain_text", ".txt"},
		{"formatted_text", ".txt"},
		{"json", ".json"},
		{"verbose_json", ".json"},
		{"", ".json"},
	}
	for _, tt := range tests {
		if got := transcriptExtension(tt.selector); got != tt.want {
			t.Errorf("transcriptExtension(%q) = %q, want %q", tt.selector, got, tt.want)
		}
	}
}

func TestRunnerNilLedger(t *testing.T) {
	dir := t.TempDir()
	writeAudio(t, dir, "solo.wav", time.Now())

	runner := newTestRunner(t, testutil.NewMockEngine("mock"), nil)
	summary, err := runner.Run(context.Background(), Request{InputDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Succeeded != 1 {
		t.Errorf("Succeeded = %d, want 1", summary.Succeeded)
	}
}

var errLedgerDown = errors.New("ledger unavailable")

func TestRunInsertFailureCountsAsFailed(t *testing.T) {
	dir := t.TempDir()
	writeAudio(t, dir, "clip.wav", time.Now())

	jobs := testutil.NewMockJobDAO()
	jobs.InsertErr = errLedgerDown
	runner := newTestRunner(t, testutil.NewMockEngine("mock"), jobs)

	summary, err := runner.Run(context.Background(), Request{InputDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}
}
