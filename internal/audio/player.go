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

var (
	// ErrPlayerClosed is returned by Play after Close.
	ErrPlayerClosed = errors.New("player is closed")

	// ErrFormatMismatch is returned when a clip does not match the format
	// the audio device was opened with.
	ErrFormatMismatch = errors.New("clip format differs from device format")
)

// otoContext is shared by every Player: oto allows one context per process.
var (
	otoOnce   sync.Once
	otoCtx    *oto.Context
	otoFormat Format
	otoErr    error
)

func openDevice(format Format, bufferSize time.Duration) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   bufferSize,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-ready
		otoCtx, otoFormat = ctx, format
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoFormat != format {
		return nil, fmt.Errorf("%w: device %+v, clip %+v", ErrFormatMismatch, otoFormat, format)
	}
	return otoCtx, nil
}

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	BufferSize   time.Duration // Device buffer, trades latency for stability
	PollInterval time.Duration // How often Play checks for the end of a clip
}

// DefaultPlayerConfig returns the default player configuration.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		BufferSize:   100 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
	}
}

// Player plays one clip at a time through oto.
// The device is opened lazily with the format of the first clip.
type Player struct {
	config PlayerConfig

	mu      sync.Mutex
	current *oto.Player
	clip    []byte // keeps PCM alive while oto reads it
	closed  bool
}

// NewPlayer creates a player. No audio device is touched until Play.
func NewPlayer(config PlayerConfig) *Player {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPlayerConfig().PollInterval
	}
	return &Player{config: config}
}

// Play plays clip and blocks until it finishes, ctx is done, or Stop is called.
func (p *Player) Play(ctx context.Context, clip Clip) error {
	if len(clip.PCM) == 0 {
		return nil
	}

	device, err := openDevice(clip.Format, p.config.BufferSize)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlayerClosed
	}
	p.stopLocked()
	data := make([]byte, len(clip.PCM))
	copy(data, clip.PCM)
	player := device.NewPlayer(bytes.NewReader(data))
	p.current, p.clip = player, data
	p.mu.Unlock()

	player.Play()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.release(player)
			return ctx.Err()
		case <-ticker.C:
			if !player.IsPlaying() {
				p.release(player)
				return nil
			}
		}
	}
}

// release closes player if it is still the current one.
func (p *Player) release(player *oto.Player) {
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
	p.clip = nil
}

// Stop silences the current clip. A blocked Play returns shortly after.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	return nil
}

// Close stops playback and rejects further clips.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.closed = true
	return nil
}
