package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transcriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scribe",
			Subsystem: "engine",
			Name:      "transcriptions_total",
			Help:      "Transcription calls by engine and outcome.",
		},
		[]string{"engine", "outcome"},
	)

	transcriptionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scribe",
			Subsystem: "engine",
			Name:      "transcription_duration_seconds",
			Help:      "Wall-clock duration of transcription calls.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
		},
		[]string{"engine"},
	)

	transcriptionsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "scribe",
			Subsystem: "engine",
			Name:      "transcriptions_in_flight",
			Help:      "Transcription calls currently running.",
		},
		[]string{"engine"},
	)

	audioSecondsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scribe",
			Subsystem: "engine",
			Name:      "audio_seconds_total",
			Help:      "Audio seconds processed, as reported by engines.",
		},
		[]string{"engine"},
	)
)

// ObserveTranscription records the outcome of one engine call.
func ObserveTranscription(engineName string, elapsed time.Duration, audioSec float64, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	transcriptionsTotal.WithLabelValues(engineName, outcome).Inc()
	transcriptionDuration.WithLabelValues(engineName).Observe(elapsed.Seconds())
	if audioSec > 0 {
		audioSecondsTotal.WithLabelValues(engineName).Add(audioSec)
	}
}

// TrackInFlight marks an engine call as running and returns the function
// that unmarks it.
func TrackInFlight(engineName string) func() {
	gauge := transcriptionsInFlight.WithLabelValues(engineName)
	gauge.Inc()
	return gauge.Dec
}
