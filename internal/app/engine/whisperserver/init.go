package whisperserver

import (
	"audio-scribe/internal/app/engine"
)

func init() {
	engine.Register("whisper_server", NewFromSettings)
}
