package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/tonetts/internal/convert"
	"github.com/dgnsrekt/tonetts/internal/language"
	"github.com/dgnsrekt/tonetts/internal/synth"
	"github.com/dgnsrekt/tonetts/internal/tone"
)

type fakeConverter struct {
	mu   sync.Mutex
	reqs []convert.Request
	err  error
}

func (f *fakeConverter) Convert(_ context.Context, req convert.Request) (*convert.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	t, _ := tone.Parse(req.Tone)
	lang, _ := language.Lookup(req.Language)
	return &convert.Result{
		ID:       "test",
		Tone:     t,
		Language: lang,
		Text:     req.Text,
		Modified: strings.ToUpper(req.Text),
		Path:     "/tmp/speech.mp3",
		Audio:    []byte("ID3 fake audio"),
	}, nil
}

type fakePlayer struct {
	played [][]byte
}

func (p *fakePlayer) PlayMP3(_ context.Context, mp3 []byte) error {
	p.played = append(p.played, mp3)
	return nil
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestNewModelSelections(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantLang string
		wantTone tone.Tone
	}{
		{"defaults", Config{}, "English", tone.Normal},
		{"by name", Config{Language: "German", Tone: "sad"}, "German", tone.Sad},
		{"by code", Config{Language: "it", Tone: "Dramatic"}, "Italian", tone.Dramatic},
		{"unknown falls back", Config{Language: "xx", Tone: "Grumpy"}, "English", tone.Normal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(tt.cfg, &fakeConverter{}, nil)
			if got := m.language().Name; got != tt.wantLang {
				t.Errorf("expected language %s, got %s", tt.wantLang, got)
			}
			if got := m.tone(); got != tt.wantTone {
				t.Errorf("expected tone %s, got %s", tt.wantTone, got)
			}
		})
	}
}

func TestFocusAndCycle(t *testing.T) {
	m := newModel(Config{}, &fakeConverter{}, nil)

	// arrows edit text while the textarea has focus
	m, _ = update(t, m, keyPress("right"))
	if m.langIdx != 0 || m.toneIdx != 0 {
		t.Fatal("arrows should not change selections while editing text")
	}

	m, _ = update(t, m, keyPress("tab"))
	if m.focus != fieldLanguage {
		t.Fatalf("expected language focus, got %d", m.focus)
	}
	m, _ = update(t, m, keyPress("left"))
	if got := m.language().Name; got != "Italian" {
		t.Errorf("left from English should wrap to Italian, got %s", got)
	}

	m, _ = update(t, m, keyPress("tab"))
	m, _ = update(t, m, keyPress("right"))
	m, _ = update(t, m, keyPress("right"))
	if got := m.tone(); got != tone.Sad {
		t.Errorf("expected Sad, got %s", got)
	}

	m, _ = update(t, m, keyPress("tab"))
	if m.focus != fieldText {
		t.Errorf("tab should wrap back to the text field, got %d", m.focus)
	}
	m, _ = update(t, m, keyPress("shift+tab"))
	if m.focus != fieldTone {
		t.Errorf("shift+tab should go back to tone, got %d", m.focus)
	}
}

func TestGenerateEmpty(t *testing.T) {
	conv := &fakeConverter{}
	m := newModel(Config{}, conv, nil)

	m, cmd := update(t, m, keyPress("ctrl+s"))
	if cmd != nil {
		t.Error("empty text should not start a conversion")
	}
	if m.converting {
		t.Error("model should not be converting")
	}
	if m.status != "Please enter some text to convert" || m.statusKind != statusWarning {
		t.Errorf("unexpected status %q (%d)", m.status, m.statusKind)
	}
	if len(conv.reqs) != 0 {
		t.Error("converter should not be called")
	}
}

func TestGenerate(t *testing.T) {
	conv := &fakeConverter{}
	m := newModel(Config{Text: "hello there", Language: "fr", Tone: "Casual"}, conv, nil)

	m, cmd := update(t, m, keyPress("ctrl+s"))
	if !m.converting || cmd == nil {
		t.Fatal("expected a conversion to start")
	}
	if !strings.Contains(m.View(), "Converting...") {
		t.Error("view should show the spinner while converting")
	}

	msg := m.convertCmd(m.request())()
	m, _ = update(t, m, msg)

	if m.converting {
		t.Error("conversion should be finished")
	}
	if m.result == nil || m.result.Modified != "HELLO THERE" {
		t.Fatalf("unexpected result %+v", m.result)
	}
	last := conv.reqs[len(conv.reqs)-1]
	if last.Language != "fr" || last.Tone != "Casual" || last.Text != "hello there" {
		t.Errorf("unexpected request %+v", last)
	}

	view := m.View()
	for _, want := range []string{"Audio generated successfully!", "HELLO THERE", "Casual tone", "/tmp/speech.mp3", "French"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind statusKind
		wantText string
	}{
		{
			name:     "synthesis",
			err:      &synth.SynthesisError{Engine: "gtts", Language: "en", Err: errors.New("offline")},
			wantKind: statusError,
			wantText: "Error generating speech: offline",
		},
		{
			name:     "empty",
			err:      convert.ErrEmptyInput,
			wantKind: statusWarning,
			wantText: "Please enter some text to convert",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(Config{Text: "hi"}, &fakeConverter{}, nil)
			m.converting = true
			m, _ = update(t, m, convertDoneMsg{err: tt.err})

			if m.converting || m.result != nil {
				t.Error("failed conversion should leave no result")
			}
			if m.statusKind != tt.wantKind || m.status != tt.wantText {
				t.Errorf("expected %q (%d), got %q (%d)", tt.wantText, tt.wantKind, m.status, m.statusKind)
			}
		})
	}
}

func TestPlay(t *testing.T) {
	player := &fakePlayer{}
	m := newModel(Config{Text: "hi"}, &fakeConverter{}, player)
	m, _ = update(t, m, keyPress("tab"))

	m, _ = update(t, m, keyPress("p"))
	if m.playing || m.status != "Convert some text first" {
		t.Fatalf("play without a result should warn, got %q", m.status)
	}

	m, _ = update(t, m, m.convertCmd(m.request())())
	m, cmd := update(t, m, keyPress("p"))
	if !m.playing || cmd == nil {
		t.Fatal("expected playback to start")
	}
	m, _ = update(t, m, cmd())
	if m.playing {
		t.Error("playback should be finished")
	}
	if len(player.played) != 1 || string(player.played[0]) != "ID3 fake audio" {
		t.Errorf("unexpected playback %q", player.played)
	}
}

func TestPlayStaleDone(t *testing.T) {
	m := newModel(Config{Text: "hi"}, &fakeConverter{}, &fakePlayer{})
	m, _ = update(t, m, m.convertCmd(m.request())())
	m, _ = update(t, m, keyPress("tab"))

	m, first := update(t, m, keyPress("p"))
	m, _ = update(t, m, keyPress("p")) // stop
	m, second := update(t, m, keyPress("p"))
	if first == nil || second == nil || !m.playing {
		t.Fatal("expected playback to restart")
	}

	m, _ = update(t, m, first())
	if !m.playing || m.cancelPlay == nil {
		t.Error("the stopped clip finishing ended the current one")
	}
	m, _ = update(t, m, second())
	if m.playing || m.cancelPlay != nil {
		t.Error("playback should be finished")
	}
}

func TestLongText(t *testing.T) {
	text := strings.Repeat("word ", 2000)
	m := newModel(Config{Text: text}, &fakeConverter{}, nil)
	if got := m.textarea.Value(); got != text {
		t.Errorf("text was cut to %d of %d bytes", len(got), len(text))
	}
}

func TestPlayUnavailable(t *testing.T) {
	m := newModel(Config{Text: "hi"}, &fakeConverter{}, nil)
	m, _ = update(t, m, m.convertCmd(m.request())())
	m, _ = update(t, m, keyPress("tab"))

	m, _ = update(t, m, keyPress("p"))
	if m.playing || m.statusKind != statusError {
		t.Errorf("expected an error without a player, got %q", m.status)
	}
}

func TestStatusTimeout(t *testing.T) {
	m := newModel(Config{}, &fakeConverter{}, nil)
	m.setStatus("first", statusInfo, true)
	stale := statusMessageTimeoutMsg{id: m.statusID}
	m.setStatus("second", statusInfo, true)

	m, _ = update(t, m, stale)
	if m.status != "second" {
		t.Errorf("stale timeout cleared a newer status: %q", m.status)
	}
	m, _ = update(t, m, statusMessageTimeoutMsg{id: m.statusID})
	if m.status != "" {
		t.Errorf("expected status cleared, got %q", m.status)
	}
}

func TestQuit(t *testing.T) {
	m := newModel(Config{}, &fakeConverter{}, nil)
	_, cmd := update(t, m, keyPress("esc"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
