// Package ui provides the terminal form for tonetts.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dgnsrekt/tonetts/internal/convert"
	"github.com/dgnsrekt/tonetts/internal/language"
	"github.com/dgnsrekt/tonetts/internal/tone"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show messages like "copied!"
	maxContentWidth      = 100
	ellipsis             = "…"
)

// Converter turns a request into stored audio.
type Converter interface {
	Convert(ctx context.Context, req convert.Request) (*convert.Result, error)
}

// Player plays MP3 audio, blocking until done or ctx is canceled.
type Player interface {
	PlayMP3(ctx context.Context, mp3 []byte) error
}

// NewProgram returns a new Tea program. player may be nil when no audio
// device is available.
func NewProgram(cfg Config, conv Converter, player Player) *tea.Program {
	log.Debug("starting tui", "language", cfg.Language, "tone", cfg.Tone, "playback", player != nil)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg, conv, player), opts...)
}

type (
	convertDoneMsg struct {
		res *convert.Result
		err error
	}
	playDoneMsg struct {
		id  int
		err error
	}
	statusMessageTimeoutMsg struct {
		id int
	}
)

// field is the focused row of the form.
type field int

const (
	fieldText field = iota
	fieldLanguage
	fieldTone
	numFields
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

type model struct {
	cfg    Config
	conv   Converter
	player Player

	textarea textarea.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap

	languages []language.Language
	tones     []tone.Tone
	langIdx   int
	toneIdx   int
	focus     field

	converting bool
	playing    bool
	playID     int
	cancelPlay context.CancelFunc
	result     *convert.Result

	status     string
	statusKind statusKind
	statusID   int

	width int
}

func newModel(cfg Config, conv Converter, player Player) model {
	ta := textarea.New()
	ta.Placeholder = "Type your text here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0 // unlimited
	ta.SetHeight(6)
	ta.SetValue(cfg.Text)
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := model{
		cfg:       cfg,
		conv:      conv,
		player:    player,
		textarea:  ta,
		spinner:   sp,
		help:      help.New(),
		keys:      newKeyMap(),
		languages: language.All(),
		tones:     tone.All(),
	}

	if l, err := language.Lookup(cfg.Language); err == nil {
		for i, candidate := range m.languages {
			if candidate.Code == l.Code {
				m.langIdx = i
			}
		}
	}
	if t, err := tone.Parse(cfg.Tone); err == nil {
		m.toneIdx = int(t)
	}
	return m
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) language() language.Language { return m.languages[m.langIdx] }
func (m model) tone() tone.Tone              { return m.tones[m.toneIdx] }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.textarea.SetWidth(min(msg.Width-2, maxContentWidth))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.stopPlayback()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			cmd := m.setFocus((m.focus + 1) % numFields)
			return m, cmd
		case key.Matches(msg, m.keys.Prev):
			cmd := m.setFocus((m.focus + numFields - 1) % numFields)
			return m, cmd
		case key.Matches(msg, m.keys.Generate):
			return m.generate()
		}

		if m.focus != fieldText {
			switch {
			case key.Matches(msg, m.keys.Left):
				m.cycle(-1)
			case key.Matches(msg, m.keys.Right):
				m.cycle(1)
			case key.Matches(msg, m.keys.Play):
				return m.togglePlay()
			case key.Matches(msg, m.keys.Copy):
				return m.copyText()
			}
			return m, nil
		}

	case spinner.TickMsg:
		if !m.converting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case convertDoneMsg:
		m.converting = false
		if msg.err != nil {
			kind := statusError
			if convert.IsWarning(msg.err) {
				kind = statusWarning
			}
			cmd := m.setStatus(convert.UserMessage(msg.err), kind, false)
			return m, cmd
		}
		m.result = msg.res
		text := "Audio generated successfully!"
		if msg.res.CacheHit {
			text += " (cached)"
		}
		cmd := m.setStatus(text, statusSuccess, false)
		return m, cmd

	case playDoneMsg:
		if msg.id != m.playID {
			return m, nil
		}
		m.playing = false
		m.cancelPlay = nil
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			cmd := m.setStatus("Playback failed: "+msg.err.Error(), statusError, false)
			return m, cmd
		}
		return m, nil

	case statusMessageTimeoutMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}

	if m.focus == fieldText {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) setFocus(f field) tea.Cmd {
	m.focus = f
	if f == fieldText {
		return m.textarea.Focus()
	}
	m.textarea.Blur()
	return nil
}

// cycle moves the focused selector by delta, wrapping around.
func (m *model) cycle(delta int) {
	switch m.focus {
	case fieldLanguage:
		n := len(m.languages)
		m.langIdx = (m.langIdx + delta + n) % n
	case fieldTone:
		n := len(m.tones)
		m.toneIdx = (m.toneIdx + delta + n) % n
	}
}

// setStatus shows a status line. Transient messages clear themselves.
func (m *model) setStatus(text string, kind statusKind, transient bool) tea.Cmd {
	m.statusID++
	m.status = text
	m.statusKind = kind
	if !transient {
		return nil
	}
	id := m.statusID
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{id: id}
	})
}

func (m model) request() convert.Request {
	return convert.Request{
		Text:     m.textarea.Value(),
		Language: m.language().Code,
		Tone:     m.tone().String(),
	}
}

func (m model) generate() (tea.Model, tea.Cmd) {
	if m.converting {
		return m, nil
	}
	if strings.TrimSpace(m.textarea.Value()) == "" {
		cmd := m.setStatus(convert.UserMessage(convert.ErrEmptyInput), statusWarning, false)
		return m, cmd
	}
	m.converting = true
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, m.convertCmd(m.request()))
}

func (m model) convertCmd(req convert.Request) tea.Cmd {
	conv := m.conv
	return func() tea.Msg {
		res, err := conv.Convert(context.Background(), req)
		return convertDoneMsg{res: res, err: err}
	}
}

func (m model) togglePlay() (tea.Model, tea.Cmd) {
	if m.playing {
		m.stopPlayback()
		cmd := m.setStatus("Stopped", statusInfo, true)
		return m, cmd
	}
	if m.result == nil {
		cmd := m.setStatus("Convert some text first", statusWarning, true)
		return m, cmd
	}
	if m.player == nil {
		cmd := m.setStatus("Audio playback is unavailable", statusError, true)
		return m, cmd
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.playID++
	m.playing = true
	m.cancelPlay = cancel
	id, player, audio := m.playID, m.player, m.result.Audio
	return m, func() tea.Msg {
		return playDoneMsg{id: id, err: player.PlayMP3(ctx, audio)}
	}
}

func (m *model) stopPlayback() {
	if m.cancelPlay != nil {
		m.cancelPlay()
		m.cancelPlay = nil
	}
	m.playing = false
}

func (m model) copyText() (tea.Model, tea.Cmd) {
	if m.result == nil {
		cmd := m.setStatus("Nothing to copy yet", statusWarning, true)
		return m, cmd
	}
	if err := clipboard.WriteAll(m.result.Modified); err != nil {
		cmd := m.setStatus("Copy failed: "+err.Error(), statusError, true)
		return m, cmd
	}
	cmd := m.setStatus("Copied modified text!", statusSuccess, true)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Text to Speech with Tone Control"))
	b.WriteString("\n\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n\n")

	b.WriteString(m.selectorView(fieldLanguage, "Language", m.language().Name))
	b.WriteString("\n")
	b.WriteString(m.selectorView(fieldTone, "Tone", m.tone().String()))
	b.WriteString("  ")
	b.WriteString(descriptionStyle.Render(m.tone().Description()))
	b.WriteString("\n\n")

	if m.converting {
		b.WriteString(m.spinner.View() + " Converting...")
		b.WriteString("\n\n")
	} else if m.status != "" {
		b.WriteString(m.statusView())
		b.WriteString("\n\n")
	}

	if m.result != nil {
		b.WriteString(m.resultView())
		b.WriteString("\n\n")
	}

	if m.cfg.ShowHelp {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m model) selectorView(f field, label, value string) string {
	ls := labelStyle
	if m.focus == f {
		ls = focusedLabelStyle
	}
	return ls.Render(label) + valueStyle.Render("‹ "+value+" ›")
}

func (m model) statusView() string {
	switch m.statusKind {
	case statusSuccess:
		return successStyle.Render(m.status)
	case statusWarning:
		return warningStyle.Render(m.status)
	case statusError:
		return errorStyle.Render(m.status)
	default:
		return m.status
	}
}

func (m model) contentWidth() int {
	w := m.width - 4
	if w <= 0 || w > maxContentWidth {
		w = maxContentWidth - 4
	}
	return w
}

func (m model) resultView() string {
	res := m.result
	w := m.contentWidth()

	state := ""
	if m.playing {
		state = " ▶ playing"
	}
	meta := fmt.Sprintf("%s · %s · %s%s",
		res.Language.Name,
		humanize.Bytes(uint64(len(res.Audio))),
		res.Took.Round(time.Millisecond),
		state,
	)

	body := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Modified text (%s tone):", res.Tone),
		wordwrap.String(res.Modified, w),
		"",
		metaStyle.Render(runewidth.Truncate(res.Path, w, ellipsis)),
		metaStyle.Render(meta),
	)
	return resultStyle.Render(body)
}
