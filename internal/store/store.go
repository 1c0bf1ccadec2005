// Package store writes synthesized audio to the output directory under
// content-derived names and serves it back.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dgnsrekt/tonetts/internal/tone"
)

var (
	// ErrInvalidName is returned for names that were not produced by FileName.
	ErrInvalidName = errors.New("invalid audio file name")

	// ErrNotFound is returned when the audio file does not exist.
	ErrNotFound = errors.New("audio file not found")
)

// Extension of every stored file.
const Extension = ".mp3"

var namePattern = regexp.MustCompile(`^speech_(` + strings.Join(tone.Names(), "|") + `)_[0-9a-f]{32}\.mp3$`)

// FileName returns the stable output name for the modified text spoken in
// tone t, e.g. "speech_Sad_3f2a...mp3". Identical inputs always produce the
// same name, across processes.
func FileName(t tone.Tone, modified string) string {
	hash := sha256.Sum256([]byte(t.String() + "\x00" + modified))
	return fmt.Sprintf("speech_%s_%s%s", t, hex.EncodeToString(hash[:16]), Extension)
}

// ValidName reports whether name looks like a FileName result.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// DownloadName is the friendly attachment name offered to users.
func DownloadName(t tone.Tone) string {
	return "speech_" + t.String() + Extension
}

// Store is a directory of audio files.
type Store struct {
	dir string
}

// New returns a Store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "audio_outputs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// isTempName reports whether name is a temp file left by Save, that is
// "." + a valid name + "." + random suffix + ".tmp".
func isTempName(name string) bool {
	if !strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".tmp") {
		return false
	}
	base := strings.TrimSuffix(name[1:], ".tmp")
	i := strings.LastIndex(base, ".")
	return i > 0 && ValidName(base[:i])
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data to name and returns the full path. The file appears
// complete or not at all.
func (s *Store) Save(name string, data []byte) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(data)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0o644)
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// Path returns the full path of an existing file.
func (s *Store) Path(name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", err
	}
	return path, nil
}

// Exists reports whether name has already been written.
func (s *Store) Exists(name string) bool {
	_, err := s.Path(name)
	return err == nil
}

// Open opens an existing file for reading.
func (s *Store) Open(name string) (*os.File, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Prune removes stored audio (and temp files left by Save) older than maxAge and
// returns how many files were removed.
func (s *Store) Prune(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read output dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !ValidName(name) && !isTempName(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}
