package whispercpp

import (
	"audio-scribe/internal/app/engine"
)

func init() {
	engine.Register("whisper_cpp", NewFromSettings)
}
