package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrFFmpegNotFound is returned when the ffmpeg binary is not on PATH.
var ErrFFmpegNotFound = errors.New("ffmpeg not found on PATH (required for playback)")

// Decoder converts compressed audio to raw PCM using ffmpeg.
type Decoder struct {
	Binary     string // default "ffmpeg"
	SampleRate int    // default 44100
	Channels   int    // default 1
}

// Decode converts MP3 data to signed 16-bit little-endian PCM at the
// default player format.
func Decode(ctx context.Context, mp3 []byte) ([]byte, error) {
	return (&Decoder{}).Decode(ctx, mp3)
}

// Decode pipes data through ffmpeg and returns s16le PCM.
func (d *Decoder) Decode(ctx context.Context, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyAudio
	}

	bin := d.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFFmpegNotFound, err)
	}

	rate, channels := d.SampleRate, d.Channels
	if rate == 0 {
		rate = DefaultSampleRate
	}
	if channels == 0 {
		channels = DefaultChannels
	}

	cmd := exec.CommandContext(ctx, path,
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le", "-acodec", "pcm_s16le",
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(rate),
		"pipe:1",
	)
	cmd.WaitDelay = 100 * time.Millisecond

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("ffmpeg decode: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("ffmpeg decode: %w", err)
	}
	if stdout.Len() == 0 {
		return nil, errors.New("ffmpeg decode: no audio produced")
	}
	return stdout.Bytes(), nil
}
