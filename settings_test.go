package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/tonetts/internal/convert"
	"github.com/dgnsrekt/tonetts/internal/tone"
)

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr string
	}{
		{name: "defaults"},
		{name: "tone by any case", set: map[string]any{"tone": "dramatic"}},
		{name: "language by code", set: map[string]any{"language": "de"}},
		{name: "bad tone", set: map[string]any{"tone": "Grumpy"}, wantErr: "invalid tone"},
		{name: "bad language", set: map[string]any{"language": "Klingon"}, wantErr: "invalid language"},
		{name: "bad rate", set: map[string]any{"tts.gtts.requests_per_minute": 0}, wantErr: "requests_per_minute"},
		{name: "bad timeout", set: map[string]any{"tts.timeout": "-1s"}, wantErr: "tts.timeout"},
		{name: "bad cache", set: map[string]any{"cache.max_size": -1}, wantErr: "max_size"},
		{name: "bad prune", set: map[string]any{"server.prune_after": "-1h"}, wantErr: "prune_after"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.set {
				viper.Set(k, v)
			}
			t.Cleanup(func() {
				for k := range tt.set {
					viper.Set(k, nil)
				}
			})

			_, err := loadSettings()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadSettingsExpandsOutputDir(t *testing.T) {
	viper.Set("output_dir", "~/tonetts-out")
	t.Cleanup(func() { viper.Set("output_dir", nil) })

	s, err := loadSettings()
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	if want := filepath.Join(home, "tonetts-out"); s.OutputDir != want {
		t.Errorf("expected %q, got %q", want, s.OutputDir)
	}
}

func TestNewConverterMock(t *testing.T) {
	s := settings{
		Language:          "English",
		Tone:              "Formal",
		OutputDir:         t.TempDir(),
		Engine:            "mock",
		RequestsPerMinute: 50,
		Timeout:           time.Second,
		CacheMB:           1,
	}
	conv, st, closer, err := newConverter(s, log.Default())
	if err != nil {
		t.Fatalf("newConverter: %v", err)
	}
	defer closer() //nolint:errcheck

	res, err := conv.Convert(context.Background(), convert.Request{Text: "good", Language: s.Language, Tone: s.Tone})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Tone != tone.Formal {
		t.Errorf("expected Formal, got %s", res.Tone)
	}
	if !st.Exists(res.FileName) {
		t.Errorf("expected %s in %s", res.FileName, st.Dir())
	}
}

func TestNewConverterUnknownEngine(t *testing.T) {
	s := settings{OutputDir: t.TempDir(), Engine: "piper", Timeout: time.Second}
	if _, _, _, err := newConverter(s, log.Default()); err == nil {
		t.Error("expected an error for an unknown engine")
	}
}

func TestTonesMarkdown(t *testing.T) {
	md := tonesMarkdown()
	for _, tn := range tone.All() {
		if !strings.Contains(md, "| **"+tn.String()+"** | "+tn.Description()+" |") {
			t.Errorf("missing row for %s", tn)
		}
	}
	for _, want := range []string{"| Spanish | `es` |", "| German | `de` |"} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestPrepareText(t *testing.T) {
	sayMarkdown = true
	t.Cleanup(func() { sayMarkdown = false })

	got := prepareText([]byte("# Title\n\nSome *bold* words.\n\n```\ncode()\n```\n"))
	if got != "Title\n\nSome bold words." {
		t.Errorf("unexpected text %q", got)
	}
}
