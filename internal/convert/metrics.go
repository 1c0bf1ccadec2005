package convert

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the conversion collectors. Register them with
// RegisterMetrics.
type Metrics struct {
	Conversions    *prometheus.CounterVec
	SynthesisTime  *prometheus.HistogramVec
	CacheHits      prometheus.Counter
	BytesGenerated prometheus.Counter
}

var metrics = &Metrics{
	Conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tonetts",
		Name:      "conversions_total",
		Help:      "Conversions by tone and outcome.",
	}, []string{"tone", "result"}),
	SynthesisTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tonetts",
		Name:      "synthesis_seconds",
		Help:      "Time spent in the speech provider.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
	}, []string{"engine"}),
	CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tonetts",
		Name:      "cache_hits_total",
		Help:      "Conversions served from the audio cache.",
	}),
	BytesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tonetts",
		Name:      "audio_bytes_total",
		Help:      "Bytes of audio written to the output directory.",
	}),
}

// RegisterMetrics adds the conversion metrics to reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(metrics.Conversions)
	reg.MustRegister(metrics.SynthesisTime)
	reg.MustRegister(metrics.CacheHits)
	reg.MustRegister(metrics.BytesGenerated)
}

const (
	resultOK             = "ok"
	resultEmpty          = "empty_input"
	resultInvalidTone    = "invalid_tone"
	resultBadLanguage    = "unsupported_language"
	resultSynthesisError = "synthesis_error"
	resultStoreError     = "store_error"
)
