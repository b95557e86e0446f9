package audio

import (
	"bytes"
	"fmt"
	"strings"

	apperrors "audio-scribe/internal/app/errors"
)

// Format identifies an audio container format by its canonical short name.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatFLAC Format = "flac"
	FormatOGG  Format = "ogg"
	FormatM4A  Format = "m4a"
	FormatWebM Format = "webm"
)

// KnownFormats returns every container format the worker can name.
func KnownFormats() []Format {
	return []Format{FormatWAV, FormatMP3, FormatFLAC, FormatOGG, FormatM4A, FormatWebM}
}

// Extension returns the filename extension for the format, dot included.
func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) String() string {
	return string(f)
}

// formatAliases maps caller-supplied spellings to canonical formats.
// MIME subtypes and dotted extensions are normalized before lookup.
var formatAliases = map[string]Format{
	"wav":    FormatWAV,
	"wave":   FormatWAV,
	"x-wav":  FormatWAV,
	"mp3":    FormatMP3,
	"mpeg":   FormatMP3,
	"mpga":   FormatMP3,
	"flac":   FormatFLAC,
	"x-flac": FormatFLAC,
	"ogg":    FormatOGG,
	"oga":    FormatOGG,
	"opus":   FormatOGG,
	"m4a":    FormatM4A,
	"mp4":    FormatM4A,
	"x-m4a":  FormatM4A,
	"webm":   FormatWebM,
}

// ParseFormat normalizes a declared container format. It accepts short
// names ("wav"), extensions (".wav") and MIME types ("audio/wav").
func ParseFormat(s string) (Format, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "audio/")
	name = strings.TrimPrefix(name, "video/")
	name = strings.TrimPrefix(name, ".")
	f, ok := formatAliases[name]
	return f, ok
}

// DetectFormat sniffs the container format from the leading bytes of
// decoded audio data. It reports false when no known magic header matches.
func DetectFormat(data []byte) (Format, bool) {
	if len(data) < 4 {
		return "", false
	}
	switch {
	case bytes.HasPrefix(data, []byte("RIFF")) && len(data) >= 12 && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV, true
	case bytes.HasPrefix(data, []byte("fLaC")):
		return FormatFLAC, true
	case bytes.HasPrefix(data, []byte("OggS")):
		return FormatOGG, true
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3, true
	case bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return FormatWebM, true
	case len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")):
		return FormatM4A, true
	case data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// Bare MPEG audio frame sync, an MP3 stream without an ID3 tag.
		return FormatMP3, true
	}
	return "", false
}

// ResolveFormat decides the container format for decoded audio bytes.
// The sniffed magic header is authoritative; a declared format is
// validated against it and only answers on its own when the bytes match
// no known magic.
func ResolveFormat(data []byte, declared string) (Format, error) {
	sniffed, sniffedOK := DetectFormat(data)
	if declared == "" {
		if !sniffedOK {
			return "", fmt.Errorf("%w: no magic header recognized and no format declared", apperrors.ErrUnknownFormat)
		}
		return sniffed, nil
	}

	want, ok := ParseFormat(declared)
	if !ok {
		return "", fmt.Errorf("%w: declared format %q", apperrors.ErrUnknownFormat, declared)
	}
	if !sniffedOK {
		return want, nil
	}
	if sniffed != want {
		return "", fmt.Errorf("%w: declared %s, bytes look like %s", apperrors.ErrFormatMismatch, want, sniffed)
	}
	return sniffed, nil
}
