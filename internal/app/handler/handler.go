package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"audio-scribe/internal/app/audio"
	"audio-scribe/internal/app/engine"
	apperrors "audio-scribe/internal/app/errors"
	"audio-scribe/internal/app/fetch"
)

// DefaultMaxBytes caps decoded audio at 200MB.
const DefaultMaxBytes = 200 * 1024 * 1024

// Handler runs one transcription job end to end: resolve the audio bytes,
// sniff their container format, materialize them as a uniquely named
// temporary artifact, hand the path to an engine, and relay the engine's
// payload untouched.
//
// Handlers hold no per-job state; one Handler serves concurrent jobs.
type Handler struct {
	engines  *engine.Registry
	fetcher  *fetch.Fetcher
	tempDir  string
	maxBytes int64

	// fallbackFormat names the container assumed when the bytes are not
	// sniffable and the request declares nothing. Empty means such jobs
	// fail instead.
	fallbackFormat audio.Format
}

// Option configures a Handler.
type Option func(*Handler)

// WithTempDir overrides the artifact directory.
func WithTempDir(dir string) Option {
	return func(h *Handler) {
		if dir != "" {
			h.tempDir = dir
		}
	}
}

// WithMaxBytes overrides the decoded-audio size cap.
func WithMaxBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBytes = n
		}
	}
}

// WithFetcher sets the fetcher used for URL inputs.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(h *Handler) {
		h.fetcher = f
	}
}

// WithFallbackFormat sets the container assumed for unsniffable bytes with
// no declared format.
func WithFallbackFormat(format audio.Format) Option {
	return func(h *Handler) {
		h.fallbackFormat = format
	}
}

// New creates a Handler over the given engine registry.
func New(engines *engine.Registry, opts ...Option) *Handler {
	h := &Handler{
		engines:  engines,
		tempDir:  os.TempDir(),
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.fetcher == nil {
		h.fetcher = fetch.New(0, h.maxBytes)
	}
	return h
}

// Handle executes one job. Every failure comes back as a structured error
// on the Output; Handle never panics and never returns a Go error, the
// platform contract has no channel for one.
func (h *Handler) Handle(ctx context.Context, in *Input) (out *Output) {
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("job panicked: %v\n%s", r, debug.Stack())
			out = failure(KindInternal, fmt.Sprintf("worker panic: %v", r))
		}
		if out != nil {
			out.Elapsed = time.Since(started)
		}
	}()

	if in == nil {
		return failure(KindInvalidInput, "job input is required")
	}

	data, out := h.resolveAudio(ctx, in)
	if out != nil {
		return out
	}

	format, err := h.resolveFormat(data, in.AudioFormat)
	if err != nil {
		return failure(KindFormatError, err.Error())
	}

	artifactPath, err := h.materialize(data, format)
	if err != nil {
		return failure(KindIOError, err.Error())
	}
	defer removeArtifact(artifactPath)

	eng, err := h.engines.Resolve(in.Engine)
	if err != nil {
		return failure(KindEngineError, err.Error())
	}
	engineName := eng.Info().Name

	req := &engine.Request{
		AudioPath:      artifactPath,
		Model:          in.Model,
		ResponseFormat: responseFormat(in.Transcription),
		Language:       in.Language,
		Translate:      in.Translate,
		Temperature:    in.Temperature,
		BeamSize:       in.BeamSize,
		BestOf:         in.BestOf,
		InitialPrompt:  in.InitialPrompt,
		WordTimestamps: in.WordTimestamps,
		EnableVAD:      in.EnableVAD,
	}

	done := engine.TrackInFlight(engineName)
	result, err := eng.Transcribe(ctx, req)
	done()
	elapsed := time.Since(started)

	if err != nil {
		engine.ObserveTranscription(engineName, elapsed, 0, err)
		return engineFailure(engineName, err)
	}
	engine.ObserveTranscription(engineName, elapsed, result.DurationSec, nil)

	return &Output{
		Result:      result.Payload,
		Text:        result.Text,
		Language:    result.Language,
		DurationSec: result.DurationSec,
		Engine:      engineName,
		Model:       in.Model,
		Format:      format,
	}
}

// resolveAudio returns the raw container bytes for the job, from base64 or
// by URL. The second return value is a ready failure Output when the audio
// cannot be resolved.
func (h *Handler) resolveAudio(ctx context.Context, in *Input) ([]byte, *Output) {
	hasBase64 := in.AudioBase64 != ""
	hasURL := in.AudioURL != ""

	switch {
	case hasBase64 && hasURL:
		return nil, failure(KindInvalidInput, "audio_base64 and audio are mutually exclusive")
	case !hasBase64 && !hasURL:
		return nil, failure(KindInvalidInput, "one of audio_base64 or audio is required")
	}

	if hasURL {
		fetched, err := h.fetcher.Fetch(ctx, in.AudioURL)
		if err != nil {
			return nil, failure(KindFetchError, err.Error())
		}
		return fetched.Data, nil
	}

	data, err := decodeBase64(in.AudioBase64)
	if err != nil {
		return nil, failure(KindDecodeError, err.Error())
	}
	if len(data) == 0 {
		return nil, failure(KindDecodeError, apperrors.ErrEmptyAudio.Error())
	}
	if int64(len(data)) > h.maxBytes {
		return nil, failure(KindInvalidInput, fmt.Sprintf("decoded audio is %d bytes, limit is %d", len(data), h.maxBytes))
	}
	return data, nil
}

// decodeBase64 strictly decodes the payload. A data URI prefix and ASCII
// whitespace are stripped first; anything else invalid is the caller's
// error.
func decodeBase64(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if idx := strings.IndexByte(s, ','); idx >= 0 {
			s = s[idx+1:]
		}
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("audio_base64 is not valid base64: %v", err)
	}
	return data, nil
}

// resolveFormat decides the artifact's container format. The byte sniff is
// authoritative; a declared format is checked against it; the configured
// fallback only covers unsniffable bytes with no declaration.
func (h *Handler) resolveFormat(data []byte, declared string) (audio.Format, error) {
	format, err := audio.ResolveFormat(data, declared)
	if err == nil {
		return format, nil
	}
	if h.fallbackFormat != "" && declared == "" && errors.Is(err, apperrors.ErrUnknownFormat) {
		log.Printf("unsniffable audio, assuming %s", h.fallbackFormat)
		return h.fallbackFormat, nil
	}
	return "", err
}

// materialize writes the audio bytes to a uniquely named artifact whose
// extension matches the resolved container format.
func (h *Handler) materialize(data []byte, format audio.Format) (string, error) {
	name := fmt.Sprintf("scribe-%s%s", uuid.NewString(), format.Extension())
	path := filepath.Join(h.tempDir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write audio artifact: %v", err)
	}
	return path, nil
}

// removeArtifact deletes the artifact. Calling it again, or on a path that
// never existed, is a no-op.
func removeArtifact(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove artifact %s: %v", path, err)
	}
}
