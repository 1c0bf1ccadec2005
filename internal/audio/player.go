package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Default PCM format produced by Decode and expected by Player.
const (
	DefaultSampleRate = 44100
	DefaultChannels   = 1
	bytesPerSample    = 2
)

var (
	// ErrEmptyAudio is returned when there is nothing to decode or play.
	ErrEmptyAudio = errors.New("audio data is empty")

	// ErrClosed is returned by Play after Close.
	ErrClosed = errors.New("player is closed")
)

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	SampleRate int // 44100 or 48000 Hz only
	Channels   int // 1 = mono, 2 = stereo
	BufferSize time.Duration
	Volume     float64 // 0.0 to 1.0
}

// DefaultPlayerConfig matches the output of Decode.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
		BufferSize: 100 * time.Millisecond,
		Volume:     1.0,
	}
}

func validateConfig(config PlayerConfig) error {
	// oto only handles these rates reliably across platforms
	if config.SampleRate != 44100 && config.SampleRate != 48000 {
		return fmt.Errorf("sample rate must be 44100 or 48000 Hz, got %d", config.SampleRate)
	}
	if config.Channels != 1 && config.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", config.Channels)
	}
	if config.BufferSize < 0 {
		return errors.New("buffer size must not be negative")
	}
	if config.Volume < 0 || config.Volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", config.Volume)
	}
	return nil
}

// Player plays PCM through a single oto context. Only one clip plays at a
// time; starting a new one stops the previous.
type Player struct {
	otoCtx *oto.Context
	config PlayerConfig

	mu      sync.Mutex
	current *oto.Player
	closed  bool
}

// NewPlayer opens the audio device. It fails when no device is available.
func NewPlayer(config PlayerConfig) (*Player, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	op := &oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: config.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   config.BufferSize,
	}
	otoCtx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	return &Player{otoCtx: otoCtx, config: config}, nil
}

// Play plays pcm and blocks until it finishes, Stop is called or ctx is
// done. It returns ctx.Err() on cancellation.
func (p *Player) Play(ctx context.Context, pcm []byte) error {
	if len(pcm) == 0 {
		return ErrEmptyAudio
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.stopLocked()
	// the reader keeps pcm alive until the player is closed
	player := p.otoCtx.NewPlayer(bytes.NewReader(pcm))
	player.SetVolume(p.config.Volume)
	p.current = player
	player.Play()
	p.mu.Unlock()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.stopPlayer(player)
			return ctx.Err()
		case <-ticker.C:
			p.mu.Lock()
			if p.current != player {
				// stopped or replaced
				p.mu.Unlock()
				return nil
			}
			if !player.IsPlaying() {
				p.current = nil
				p.mu.Unlock()
				return player.Close()
			}
			p.mu.Unlock()
		}
	}
}

// PlayMP3 decodes mp3 with ffmpeg and plays it.
func (p *Player) PlayMP3(ctx context.Context, mp3 []byte) error {
	d := &Decoder{SampleRate: p.config.SampleRate, Channels: p.config.Channels}
	pcm, err := d.Decode(ctx, mp3)
	if err != nil {
		return err
	}
	return p.Play(ctx, pcm)
}

// IsPlaying reports whether a clip is currently playing.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil && p.current.IsPlaying()
}

// Stop ends the current clip, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopPlayer(player *oto.Player) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == player {
		p.stopLocked()
	}
}

func (p *Player) stopLocked() {
	if p.current == nil {
		return
	}
	p.current.Pause()
	_ = p.current.Close()
	p.current = nil
}

// Close stops playback. The oto context itself lives for the process.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.closed = true
	return nil
}

// Duration returns how long pcm plays at the given format.
func Duration(pcm []byte, sampleRate, channels int) time.Duration {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}
	samples := len(pcm) / (channels * bytesPerSample)
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}
