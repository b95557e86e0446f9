package openai

import (
	"audio-scribe/internal/app/engine"
)

func init() {
	engine.Register("openai", NewFromSettings)
}
