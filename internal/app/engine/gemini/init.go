package gemini

import (
	"audio-scribe/internal/app/engine"
)

func init() {
	engine.Register("gemini", NewFromSettings)
}
