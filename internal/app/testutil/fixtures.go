package testutil

import (
	"time"

	"audio-scribe/internal/app/model"
)

// WavBytes returns a minimal RIFF/WAVE header followed by silence, enough
// for container sniffing.
func WavBytes() []byte {
	header := []byte("RIFF\x24\x00\x00\x00WAVEfmt ")
	return append(header, make([]byte, 32)...)
}

// FlacBytes returns a minimal fLaC stream marker.
func FlacBytes() []byte {
	return append([]byte("fLaC"), make([]byte, 34)...)
}

// MP3Bytes returns an ID3v2-tagged stub.
func MP3Bytes() []byte {
	return append([]byte("ID3\x04\x00\x00\x00\x00\x00\x00"), make([]byte, 32)...)
}

// JFKPayload is a whisper-style JSON result used where tests assert the
// payload travels byte for byte.
const JFKPayload = `{"text":" And so my fellow Americans ask not what your country can do for you, ask what you can do for your country.","language":"en","duration":11.0}`

// SampleJobs provides ledger rows covering the status lifecycle.
var SampleJobs = []model.Job{
	{
		ID:           "job-completed-1",
		Status:       model.StatusCompleted,
		Engine:       "whisper_server",
		Model:        "turbo",
		AudioFormat:  "wav",
		SourceName:   "podcast_episode_001.wav",
		AudioSeconds: 1800.5,
		Transcript:   "Welcome to our podcast. Today we're discussing the latest developments in artificial intelligence.",
		ResultJSON:   `{"text":"Welcome to our podcast. Today we're discussing the latest developments in artificial intelligence."}`,
		ExecutionMS:  42000,
		CreatedAt:    time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2025, 1, 15, 10, 31, 0, 0, time.UTC),
	},
	{
		ID:           "job-failed-1",
		Status:       model.StatusFailed,
		Engine:       "whisper_server",
		Model:        "turbo",
		AudioFormat:  "mp3",
		SourceName:   "corrupted_audio.mp3",
		ErrorKind:    "engine_error",
		ErrorMessage: "failed to decode audio stream",
		ExecutionMS:  900,
		CreatedAt:    time.Date(2025, 1, 16, 14, 45, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2025, 1, 16, 14, 45, 1, 0, time.UTC),
	},
	{
		ID:         "job-queued-1",
		Status:     model.StatusInQueue,
		SourceName: "interview_ceo_tech.m4a",
		CreatedAt:  time.Date(2025, 1, 17, 9, 15, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2025, 1, 17, 9, 15, 0, 0, time.UTC),
	},
}
