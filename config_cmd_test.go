package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgnsrekt/tonetts/internal/synth"
)

func TestEnsureConfigFileWritesDefault(t *testing.T) {
	prev := configFile
	configFile = filepath.Join(t.TempDir(), "nested", "tonetts.yml")
	t.Cleanup(func() { configFile = prev })

	if err := ensureConfigFile(); err != nil {
		t.Fatalf("ensureConfigFile: %v", err)
	}
	b, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != defaultConfig {
		t.Error("expected the documented default config")
	}
	if err := checkConfigFile(configFile); err != nil {
		t.Errorf("default config rejected: %v", err)
	}
}

func TestEnsureConfigFileRejectsExtension(t *testing.T) {
	prev := configFile
	configFile = filepath.Join(t.TempDir(), "tonetts.toml")
	t.Cleanup(func() { configFile = prev })

	if err := ensureConfigFile(); err == nil || !strings.Contains(err.Error(), "not a supported configuration type") {
		t.Errorf("expected an extension error, got %v", err)
	}
}

func TestCheckConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "empty file uses defaults", content: ""},
		{name: "overrides", content: "tone: dramatic\nlanguage: it\ntts:\n  engine: mock\n"},
		{name: "broken yaml", content: "tone: [Formal\n", wantErr: "unable to parse"},
		{name: "bad tone", content: "tone: Grumpy\n", wantErr: "invalid tone"},
		{name: "bad language", content: "language: Klingon\n", wantErr: "invalid language"},
		{name: "bad cache", content: "cache:\n  max_size: -5\n", wantErr: "max_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tonetts.yml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			err := checkConfigFile(path)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("unknown engine", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tonetts.yml")
		if err := os.WriteFile(path, []byte("tts:\n  engine: piper\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if err := checkConfigFile(path); !errors.Is(err, synth.ErrUnknownEngine) {
			t.Errorf("expected unknown engine, got %v", err)
		}
	})
}
