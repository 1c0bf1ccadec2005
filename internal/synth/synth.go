// Package synth wraps the speech synthesis providers. Every provider takes
// already-toned text plus a language code and returns MP3 audio.
package synth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSynthesisFailed wraps every provider failure.
	ErrSynthesisFailed = errors.New("text synthesis failed")

	// ErrUnknownEngine indicates an unknown engine name was configured.
	ErrUnknownEngine = errors.New("unknown TTS engine")

	// ErrEmptyText is returned when there is nothing to speak.
	ErrEmptyText = errors.New("text cannot be empty")
)

// FormatMP3 is the only audio format produced by the engines.
const FormatMP3 = "mp3"

// Audio is synthesized speech.
type Audio struct {
	Data   []byte
	Format string
}

// Synthesizer converts text in a language to Audio.
type Synthesizer interface {
	// Synthesize speaks text in lang (e.g. "en"). Failures are returned as
	// *SynthesisError.
	Synthesize(ctx context.Context, text, lang string) (*Audio, error)

	// Name identifies the engine in logs and metrics.
	Name() string
}

// SynthesisError reports a failed synthesis. It unwraps to both
// ErrSynthesisFailed and the underlying cause.
type SynthesisError struct {
	Engine   string
	Language string
	Err      error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s (engine=%s, lang=%s): %v", ErrSynthesisFailed, e.Engine, e.Language, e.Err)
}

// Unwrap returns the sentinel and the cause.
func (e *SynthesisError) Unwrap() []error {
	return []error{ErrSynthesisFailed, e.Err}
}

// Config selects and configures an engine.
type Config struct {
	// Engine is "gtts" or "mock".
	Engine string

	// Timeout bounds a single synthesis call (default 30s).
	Timeout time.Duration

	GTTS GTTSConfig
}

// New builds the engine named in cfg.Engine.
func New(cfg Config) (Synthesizer, error) {
	if cfg.GTTS.Timeout == 0 {
		cfg.GTTS.Timeout = cfg.Timeout
	}
	switch cfg.Engine {
	case "", "gtts", "google":
		return NewGTTS(cfg.GTTS), nil
	case "mock":
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: gtts, mock)", ErrUnknownEngine, cfg.Engine)
	}
}
