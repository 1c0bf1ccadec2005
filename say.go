package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dgnsrekt/tonetts/internal/audio"
	"github.com/dgnsrekt/tonetts/internal/convert"
	"github.com/dgnsrekt/tonetts/internal/plaintext"
	"github.com/dgnsrekt/tonetts/internal/tone"
)

var (
	sayMarkdown bool
	sayPlay     bool
	sayWatch    string
	sayTextOnly bool

	sayCmd = &cobra.Command{
		Use:   "say [TEXT|-]",
		Short: "Convert text once and save the audio",
		Long: paragraph(fmt.Sprintf("\n%s text in the chosen tone and write the MP3 to the output directory. Use - or a pipe to read from stdin, or --watch to convert a file every time it changes.",
			keyword("Speak"))),
		Example: paragraph("tonetts say \"good morning\" --tone formal\necho \"we did it\" | tonetts say --tone excited --play\ntonetts say --watch notes.md --markdown"),
		Args:    cobra.MaximumNArgs(1),
		RunE:    runSay,
	}
)

func init() {
	sayCmd.Flags().BoolVar(&sayMarkdown, "markdown", false, "treat input as markdown and speak only its prose")
	sayCmd.Flags().BoolVarP(&sayPlay, "play", "p", false, "play the audio after converting")
	sayCmd.Flags().StringVarP(&sayWatch, "watch", "w", "", "convert FILE every time it is written")
	sayCmd.Flags().BoolVar(&sayTextOnly, "text-only", false, "print the modified text without synthesizing")
	sayCmd.MarkFlagsMutuallyExclusive("watch", "text-only")
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// readInput returns the text to speak from the argument or stdin.
func readInput(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	pipe, err := stdinIsPipe()
	if err != nil {
		return "", err
	}
	if !pipe && len(args) == 0 {
		return "", errors.New("no text given: pass TEXT, - or pipe into stdin")
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("unable to read from stdin: %w", err)
	}
	return string(b), nil
}

func prepareText(raw []byte) string {
	if sayMarkdown {
		return plaintext.FromMarkdown(raw)
	}
	return string(raw)
}

func runSay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()

	var text string
	if sayWatch != "" {
		if len(args) > 0 {
			return errors.New("--watch takes its text from the file, not arguments")
		}
	} else {
		input, err := readInput(args)
		if err != nil {
			return err
		}
		text = prepareText([]byte(input))
	}

	if sayTextOnly {
		modified, err := tone.New().ApplyName(current.Tone, text)
		if err != nil {
			return errors.New(convert.UserMessage(err))
		}
		printWrapped(out, modified)
		return nil
	}

	conv, _, closer, err := newConverter(current, log.Default())
	if err != nil {
		return err
	}
	defer closer() //nolint:errcheck

	// oto allows one context per process, so a single player serves
	// every conversion.
	var sp speaker
	if sayPlay {
		p, err := audio.NewPlayer(audio.DefaultPlayerConfig())
		if err != nil {
			return fmt.Errorf("unable to open audio device: %w", err)
		}
		defer p.Close() //nolint:errcheck
		sp = p
	}

	if sayWatch != "" {
		return watchFile(ctx, out, sayWatch, conv, sp)
	}

	res, err := convertAndReport(ctx, out, conv, text)
	if err != nil {
		return err
	}
	return play(ctx, sp, res.Audio)
}

func convertAndReport(ctx context.Context, w io.Writer, conv *convert.Converter, text string) (*convert.Result, error) {
	res, err := conv.Convert(ctx, convert.Request{
		Text:     text,
		Language: current.Language,
		Tone:     current.Tone,
	})
	if err != nil {
		return nil, errors.New(convert.UserMessage(err))
	}

	printWrapped(w, res.Modified)
	fmt.Fprintf(w, "\n%s %s (%s)\n", keyword("Saved"), res.Path, humanize.Bytes(uint64(len(res.Audio))))
	return res, nil
}

// speaker plays MP3 audio, blocking until done or ctx is canceled.
type speaker interface {
	PlayMP3(ctx context.Context, mp3 []byte) error
}

// play is a no-op when sp is nil.
func play(ctx context.Context, sp speaker, mp3 []byte) error {
	if sp == nil {
		return nil
	}
	if err := sp.PlayMP3(ctx, mp3); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

// printWrapped writes text word-wrapped to the terminal width when w is
// the terminal.
func printWrapped(w io.Writer, text string) {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		text = wordwrap.String(text, outputWidth())
	}
	fmt.Fprintln(w, text)
}

// watchFile converts path once and again after every write until ctx is
// done, playing each result through sp when it is set.
func watchFile(ctx context.Context, w io.Writer, path string, conv *convert.Converter, sp speaker) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("unable to get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to watch %s: %w", path, err)
	}
	defer watcher.Close() //nolint:errcheck

	// editors often replace the file, so watch the directory
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("unable to watch %s: %w", path, err)
	}

	convertFile := func() {
		raw, err := os.ReadFile(abs)
		if err != nil {
			log.Warn("unable to read watched file", "path", abs, "err", err)
			fmt.Fprintln(w, "unable to read file:", err)
			return
		}
		res, err := convertAndReport(ctx, w, conv, prepareText(raw))
		if err != nil {
			fmt.Fprintln(w, err)
			return
		}
		if err := play(ctx, sp, res.Audio); err != nil {
			fmt.Fprintln(w, err)
		}
	}

	convertFile()
	fmt.Fprintf(w, "Watching %s for changes. Press ctrl+c to stop.\n", path)

	// writes arrive in bursts; wait for them to settle
	const settle = 250 * time.Millisecond
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				pending = time.After(settle)
			}
		case <-pending:
			pending = nil
			fmt.Fprintln(w, strings.Repeat("─", min(outputWidth(), 40)))
			convertFile()
		}
	}
}
