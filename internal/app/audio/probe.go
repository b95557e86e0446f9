package audio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Duration returns the length of the media at path in whole seconds,
// probed with ffprobe.
func Duration(path string) (int, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	output, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	durationFloat, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(durationFloat)), nil
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate int    `json:"sample_rate,string"`
	} `json:"streams"`
}

// Is16kHzWav reports whether path already holds 16 kHz pcm_s16le audio.
func Is16kHzWav(path string) (bool, error) {
	cmd := exec.Command("ffprobe", "-v", "quiet", "-print_format", "json", "-show_streams", path)
	output, err := cmd.Output()
	if err != nil {
		return false, err
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return false, err
	}

	for _, stream := range probe.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" && stream.SampleRate == 16000 {
			return true, nil
		}
	}
	return false, nil
}

// ConvertTo16kHzWav transcodes the media at inputPath to a 16 kHz mono WAV
// beside it and returns the output path. An existing output is reused.
func ConvertTo16kHzWav(inputPath string) (string, error) {
	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "_16khz.wav"
	if err := convertTo16kHzWav(inputPath, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

func convertTo16kHzWav(inputPath, outputPath string) error {
	if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
		log.Printf("16kHz WAV already exists for '%s', skipping conversion.\n", inputPath)
		return nil
	}

	log.Printf("convert to 16kHz wav: %s\n", inputPath)

	cmd := exec.Command("ffmpeg", "-i", inputPath, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", outputPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg error: %v, stderr: %s", err, stderr.String())
	}

	log.Printf("16kHz WAV conversion completed: '%s'\n", outputPath)
	return nil
}
