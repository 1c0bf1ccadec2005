package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/tonetts/internal/tone"
)

func TestFileName(t *testing.T) {
	a := FileName(tone.Sad, "Sadly, hello ...")
	if a != FileName(tone.Sad, "Sadly, hello ...") {
		t.Error("file name should be stable for the same input")
	}
	if a == FileName(tone.Sad, "Sadly, hello ♥") {
		t.Error("different text should give a different name")
	}
	if a == FileName(tone.Normal, "Sadly, hello ...") {
		t.Error("different tone should give a different name")
	}
	if !strings.HasPrefix(a, "speech_Sad_") || !strings.HasSuffix(a, ".mp3") {
		t.Errorf("unexpected name %q", a)
	}
	if !ValidName(a) {
		t.Errorf("%q should be valid", a)
	}
}

func TestValidName(t *testing.T) {
	valid := FileName(tone.Dramatic, "Behold!")
	tests := []struct {
		name string
		want bool
	}{
		{valid, true},
		{"../" + valid, false},
		{"speech_Angry_" + strings.Repeat("a", 32) + ".mp3", false},
		{"speech_Sad_" + strings.Repeat("A", 32) + ".mp3", false},
		{"speech_Sad_" + strings.Repeat("a", 31) + ".mp3", false},
		{"passwd", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidName(tt.name); got != tt.want {
			t.Errorf("ValidName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSaveOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	name := FileName(tone.Formal, "Hereby, hi. Respectfully submitted.")
	path, err := s.Save(name, []byte("ID3audio"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if path != filepath.Join(dir, name) {
		t.Errorf("unexpected path %q", path)
	}
	if !s.Exists(name) {
		t.Error("expected file to exist")
	}

	f, err := s.Open(name)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "ID3audio" {
		t.Errorf("unexpected content %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the saved file, found %d entries", len(entries))
	}
}

func TestSaveRejectsBadNames(t *testing.T) {
	s, _ := New(t.TempDir())
	if _, err := s.Save("../escape.mp3", []byte("x")); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
	if _, err := s.Open("../../etc/passwd"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
	if _, err := s.Path(FileName(tone.Normal, "never written")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)

	oldName := FileName(tone.Normal, "old")
	newName := FileName(tone.Normal, "new")
	_, _ = s.Save(oldName, []byte("old"))
	_, _ = s.Save(newName, []byte("new"))
	keep := filepath.Join(dir, "notes.txt")
	_ = os.WriteFile(keep, []byte("not audio"), 0o644)
	foreignTmp := filepath.Join(dir, "download.tmp")
	_ = os.WriteFile(foreignTmp, []byte("someone else's"), 0o644)
	staleTmp := filepath.Join(dir, "."+oldName+".123456.tmp")
	_ = os.WriteFile(staleTmp, []byte("partial"), 0o644)

	past := time.Now().Add(-2 * time.Hour)
	for _, p := range []string{filepath.Join(dir, oldName), keep, foreignTmp, staleTmp} {
		_ = os.Chtimes(p, past, past)
	}

	n, err := s.Prune(time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}
	if _, err := os.Stat(staleTmp); !os.IsNotExist(err) {
		t.Error("stale temp file from Save should be gone")
	}
	if _, err := os.Stat(foreignTmp); err != nil {
		t.Error("temp files Save did not create must not be pruned")
	}
	if s.Exists(oldName) {
		t.Error("old file should be gone")
	}
	if !s.Exists(newName) {
		t.Error("new file should remain")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("unrelated files must not be pruned")
	}
}

func TestIsTempName(t *testing.T) {
	name := FileName(tone.Sad, "hello")
	tests := map[string]bool{
		"." + name + ".98765.tmp": true,
		"." + name + ".tmp":       false,
		name + ".1.tmp":           false,
		"download.tmp":            false,
		".x.1.tmp":                false,
		name:                      false,
	}
	for in, want := range tests {
		if got := isTempName(in); got != want {
			t.Errorf("isTempName(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDownloadName(t *testing.T) {
	if got := DownloadName(tone.Excited); got != "speech_Excited.mp3" {
		t.Errorf("unexpected download name %q", got)
	}
}
