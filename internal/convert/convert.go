// Package convert runs the full text-to-speech pipeline: validate the input,
// rewrite it in the chosen tone, synthesize it and store the audio.
package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/dgnsrekt/tonetts/internal/cache"
	"github.com/dgnsrekt/tonetts/internal/language"
	"github.com/dgnsrekt/tonetts/internal/store"
	"github.com/dgnsrekt/tonetts/internal/synth"
	"github.com/dgnsrekt/tonetts/internal/tone"
)

// ErrEmptyInput means there was no text to convert. It is a validation
// warning: nothing was attempted.
var ErrEmptyInput = errors.New("please enter some text to convert")

// Request is a single conversion.
type Request struct {
	Text     string
	Language string // name or code, e.g. "Spanish" or "es"
	Tone     string // tone name, e.g. "Dramatic"
}

// Result describes the produced audio.
type Result struct {
	ID       string
	Tone     tone.Tone
	Language language.Language
	Text     string // original input
	Modified string // text after the tone rule, as spoken
	FileName string
	Path     string
	Audio    []byte
	CacheHit bool
	Took     time.Duration
}

// Options configures a Converter.
type Options struct {
	// Engine defaults to tone.New(). An engine from tone.NewSeeded is not
	// goroutine-safe, so a Converter built with one must not be shared.
	Engine      *tone.Engine
	Synthesizer synth.Synthesizer
	Store       *store.Store
	Cache       *cache.Cache // optional
	Logger      *log.Logger  // default log.Default()
}

// Converter runs conversions. It is safe for concurrent use unless built
// with a seeded tone engine.
type Converter struct {
	engine *tone.Engine
	synth  synth.Synthesizer
	store  *store.Store
	cache  *cache.Cache
	logger *log.Logger
}

// New creates a Converter. Synthesizer and Store are required.
func New(opts Options) (*Converter, error) {
	if opts.Synthesizer == nil {
		return nil, errors.New("convert: synthesizer is required")
	}
	if opts.Store == nil {
		return nil, errors.New("convert: store is required")
	}
	if opts.Engine == nil {
		opts.Engine = tone.New()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Converter{
		engine: opts.Engine,
		synth:  opts.Synthesizer,
		store:  opts.Store,
		cache:  opts.Cache,
		logger: opts.Logger.WithPrefix("convert"),
	}, nil
}

// Engine returns the tone engine used by the converter.
func (c *Converter) Engine() *tone.Engine {
	return c.engine
}

// Convert rewrites req.Text in req.Tone and speaks it in req.Language.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if strings.TrimSpace(req.Text) == "" {
		metrics.Conversions.WithLabelValues(toneLabel(req.Tone), resultEmpty).Inc()
		return nil, ErrEmptyInput
	}

	lang, err := language.Lookup(req.Language)
	if err != nil {
		metrics.Conversions.WithLabelValues(toneLabel(req.Tone), resultBadLanguage).Inc()
		return nil, err
	}

	t, err := tone.Parse(req.Tone)
	if err != nil {
		metrics.Conversions.WithLabelValues("invalid", resultInvalidTone).Inc()
		return nil, err
	}
	modified, err := c.engine.Apply(t, req.Text)
	if err != nil {
		metrics.Conversions.WithLabelValues(t.String(), resultInvalidTone).Inc()
		return nil, err
	}

	res := &Result{
		ID:       uuid.NewString(),
		Tone:     t,
		Language: lang,
		Text:     req.Text,
		Modified: modified,
		FileName: store.FileName(t, modified),
	}

	audio, hit, err := c.synthesize(ctx, modified, lang.Code)
	if err != nil {
		metrics.Conversions.WithLabelValues(t.String(), resultSynthesisError).Inc()
		c.logger.Error("synthesis failed", "id", res.ID, "tone", t, "lang", lang.Code, "err", err)
		return nil, err
	}
	res.Audio = audio
	res.CacheHit = hit

	res.Path, err = c.store.Save(res.FileName, audio)
	if err != nil {
		metrics.Conversions.WithLabelValues(t.String(), resultStoreError).Inc()
		return nil, fmt.Errorf("save audio: %w", err)
	}
	res.Took = time.Since(start)

	metrics.Conversions.WithLabelValues(t.String(), resultOK).Inc()
	metrics.BytesGenerated.Add(float64(len(audio)))
	c.logger.Info("converted",
		"id", res.ID,
		"tone", t,
		"lang", lang.Code,
		"size", humanize.Bytes(uint64(len(audio))),
		"cached", hit,
		"took", res.Took.Round(time.Millisecond),
	)
	return res, nil
}

// toneLabel keeps metric labels to the fixed tone names.
func toneLabel(name string) string {
	if t, err := tone.Parse(name); err == nil {
		return t.String()
	}
	return "invalid"
}

// synthesize returns audio for text, consulting the cache first.
func (c *Converter) synthesize(ctx context.Context, text, lang string) ([]byte, bool, error) {
	key := cache.Key(text, lang)
	if c.cache != nil {
		if data, ok := c.cache.Get(key); ok {
			metrics.CacheHits.Inc()
			return data, true, nil
		}
	}

	start := time.Now()
	audio, err := c.synth.Synthesize(ctx, text, lang)
	metrics.SynthesisTime.WithLabelValues(c.synth.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		var se *synth.SynthesisError
		if !errors.As(err, &se) {
			err = &synth.SynthesisError{Engine: c.synth.Name(), Language: lang, Err: err}
		}
		return nil, false, err
	}

	if c.cache != nil {
		if err := c.cache.Put(key, audio.Data); err != nil {
			c.logger.Debug("audio not cached", "err", err)
		}
	}
	return audio.Data, false, nil
}

// UserMessage turns a conversion error into text fit to show a user.
func UserMessage(err error) string {
	var ite *tone.InvalidToneError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return "Please enter some text to convert"
	case errors.As(err, &ite):
		msg := fmt.Sprintf("Unknown tone %q. Choose one of: %s.", ite.Name, strings.Join(ite.Available(), ", "))
		if ite.Suggestion != "" {
			msg += fmt.Sprintf(" Did you mean %s?", ite.Suggestion)
		}
		return msg
	case errors.Is(err, tone.ErrInvalidTone):
		return "Unknown tone. Choose one of: " + strings.Join(tone.Names(), ", ") + "."
	case errors.Is(err, language.ErrUnsupported):
		names := make([]string, 0, len(language.All()))
		for _, l := range language.All() {
			names = append(names, l.Name)
		}
		return "Unsupported language. Choose one of: " + strings.Join(names, ", ") + "."
	case errors.Is(err, synth.ErrSynthesisFailed):
		var se *synth.SynthesisError
		if errors.As(err, &se) {
			return fmt.Sprintf("Error generating speech: %v", se.Err)
		}
		return fmt.Sprintf("Error generating speech: %v", err)
	default:
		return fmt.Sprintf("An error occurred: %v", err)
	}
}

// IsWarning reports whether err is a validation warning rather than a
// failure.
func IsWarning(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}
