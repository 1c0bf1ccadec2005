package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/tonetts/internal/cache"
	"github.com/dgnsrekt/tonetts/internal/convert"
	"github.com/dgnsrekt/tonetts/internal/language"
	"github.com/dgnsrekt/tonetts/internal/store"
	"github.com/dgnsrekt/tonetts/internal/synth"
	"github.com/dgnsrekt/tonetts/internal/tone"
)

const defaultOutputDir = "audio_outputs"

// settings is the resolved configuration shared by every command.
type settings struct {
	Language  string
	Tone      string
	OutputDir string
	Debug     bool

	Engine            string
	Slow              bool
	RequestsPerMinute int
	Timeout           time.Duration
	CacheMB           int64

	ServerAddr string
	PruneAfter time.Duration
}

var current settings

func setDefaults(v *viper.Viper) {
	v.SetDefault("language", "English")
	v.SetDefault("tone", "Normal")
	v.SetDefault("output_dir", defaultOutputDir)
	v.SetDefault("debug", false)
	v.SetDefault("mouse", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.prune_after", "0s")

	v.SetDefault("tts.engine", "gtts")
	v.SetDefault("tts.timeout", "30s")
	v.SetDefault("tts.gtts.slow", false)
	v.SetDefault("tts.gtts.requests_per_minute", 50)

	v.SetDefault("cache.max_size", 64)
}

// loadSettings reads and validates the global viper configuration.
func loadSettings() (settings, error) {
	return readSettings(viper.GetViper())
}

func readSettings(v *viper.Viper) (settings, error) {
	s := settings{
		Language:          v.GetString("language"),
		Tone:              v.GetString("tone"),
		Debug:             v.GetBool("debug"),
		Engine:            v.GetString("tts.engine"),
		Slow:              v.GetBool("tts.gtts.slow"),
		RequestsPerMinute: v.GetInt("tts.gtts.requests_per_minute"),
		Timeout:           v.GetDuration("tts.timeout"),
		CacheMB:           v.GetInt64("cache.max_size"),
		ServerAddr:        v.GetString("server.addr"),
		PruneAfter:        v.GetDuration("server.prune_after"),
	}

	dir, err := homedir.Expand(v.GetString("output_dir"))
	if err != nil {
		return s, fmt.Errorf("invalid output_dir: %w", err)
	}
	s.OutputDir = dir

	if _, err := language.Lookup(s.Language); err != nil {
		return s, fmt.Errorf("invalid language: %w", err)
	}
	if _, err := tone.Parse(s.Tone); err != nil {
		return s, err
	}
	if s.RequestsPerMinute < 1 || s.RequestsPerMinute > 600 {
		return s, fmt.Errorf("tts.gtts.requests_per_minute must be between 1 and 600, got %d", s.RequestsPerMinute)
	}
	if s.Timeout <= 0 {
		return s, fmt.Errorf("tts.timeout must be positive, got %s", s.Timeout)
	}
	if s.CacheMB < 0 || s.CacheMB > 10000 {
		return s, fmt.Errorf("cache max_size must be between 0 and 10000 MB, got %d", s.CacheMB)
	}
	if s.PruneAfter < 0 {
		return s, fmt.Errorf("server.prune_after must not be negative, got %s", s.PruneAfter)
	}
	return s, nil
}

// newConverter wires the synthesizer, store and cache described by s.
func newConverter(s settings, logger *log.Logger) (*convert.Converter, *store.Store, func() error, error) {
	sy, err := synth.New(synth.Config{
		Engine:  s.Engine,
		Timeout: s.Timeout,
		GTTS: synth.GTTSConfig{
			Slow:              s.Slow,
			RequestsPerMinute: s.RequestsPerMinute,
			Logger:            logger,
		},
	})
	if err != nil {
		return nil, nil, nil, err
	}
	if g, ok := sy.(*synth.GTTS); ok {
		if err := g.Validate(); err != nil {
			logger.Warn("gtts-cli unavailable, conversions will fail", "err", err)
		}
	}

	st, err := store.New(s.OutputDir)
	if err != nil {
		return nil, nil, nil, err
	}

	c, err := cache.New(s.CacheMB * 1024 * 1024)
	if err != nil {
		return nil, nil, nil, err
	}

	conv, err := convert.New(convert.Options{
		Synthesizer: sy,
		Store:       st,
		Cache:       c,
		Logger:      logger,
	})
	if err != nil {
		_ = c.Close()
		return nil, nil, nil, err
	}
	log.Debug("converter ready", "engine", sy.Name(), "output", st.Dir(), "cache_mb", s.CacheMB)
	return conv, st, c.Close, nil
}

func languageNames() []string {
	names := make([]string, 0, len(language.All()))
	for _, l := range language.All() {
		names = append(names, l.Name)
	}
	return names
}
