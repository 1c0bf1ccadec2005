package synth

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const gttsMaxMP3Size = 50 * 1024 * 1024

// GTTSConfig configures the gTTS engine.
type GTTSConfig struct {
	// Binary is the gtts-cli executable (default "gtts-cli").
	Binary string

	// Slow asks Google for slower speech.
	Slow bool

	// RequestsPerMinute throttles calls to avoid being blocked (default 50).
	RequestsPerMinute int

	// Timeout bounds a single call (default 30s).
	Timeout time.Duration

	Logger *log.Logger
}

// GTTS speaks through Google Translate's TTS endpoint using gtts-cli, which
// needs no API key.
type GTTS struct {
	binary  string
	slow    bool
	timeout time.Duration
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewGTTS creates a gTTS engine.
func NewGTTS(cfg GTTSConfig) *GTTS {
	if cfg.Binary == "" {
		cfg.Binary = "gtts-cli"
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 50
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &GTTS{
		binary:  cfg.Binary,
		slow:    cfg.Slow,
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		logger:  cfg.Logger.WithPrefix("gtts"),
	}
}

// Name implements Synthesizer.
func (e *GTTS) Name() string { return "gtts" }

// Synthesize implements Synthesizer.
func (e *GTTS) Synthesize(ctx context.Context, text, lang string) (*Audio, error) {
	fail := func(err error) (*Audio, error) {
		return nil, &SynthesisError{Engine: e.Name(), Language: lang, Err: err}
	}

	if strings.TrimSpace(text) == "" {
		return fail(ErrEmptyText)
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return fail(fmt.Errorf("rate limit wait cancelled: %w", err))
	}

	start := time.Now()
	data, err := e.run(ctx, text, lang)
	if err != nil {
		return fail(err)
	}
	e.logger.Debug("synthesized", "lang", lang, "chars", len(text), "bytes", len(data), "took", time.Since(start))

	return &Audio{Data: data, Format: FormatMP3}, nil
}

// run invokes gtts-cli and returns the MP3 it writes to stdout. The text goes
// in on stdin; gtts-cli splits long input into request-sized chunks itself.
func (e *GTTS) run(ctx context.Context, text, lang string) ([]byte, error) {
	args := []string{"-", "-l", lang}
	if e.slow {
		args = append(args, "--slow")
	}
	args = append(args, "-o", "-")

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binary, args...) //nolint:gosec
	cmd.Stdin = strings.NewReader(text)
	// Interrupt first so gtts-cli can clean up, then kill.
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = 100 * time.Millisecond

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("gtts-cli timeout after %s: %w", e.timeout, ctx.Err())
		}
		return nil, fmt.Errorf("gtts-cli failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	data := stdout.Bytes()
	if len(data) == 0 {
		return nil, fmt.Errorf("gtts-cli produced no MP3 output, stderr: %s", strings.TrimSpace(stderr.String()))
	}
	if len(data) > gttsMaxMP3Size {
		return nil, fmt.Errorf("gtts-cli MP3 output too large: %d bytes (max %d)", len(data), gttsMaxMP3Size)
	}
	return data, nil
}

// Validate checks that gtts-cli can be found and executed.
func (e *GTTS) Validate() error {
	path, err := exec.LookPath(e.binary)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w\n\nInstall with: pip install gtts", e.binary, err)
	}
	if err := exec.Command(path, "--help").Run(); err != nil { //nolint:gosec
		return fmt.Errorf("cannot execute %s: %w", e.binary, err)
	}
	return nil
}

var _ Synthesizer = (*GTTS)(nil)
