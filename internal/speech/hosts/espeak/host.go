// Package espeak drives the espeak-ng synthesizer as a speech host.
package espeak

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/cardvoice/internal/audio"
	"github.com/dgnsrekt/cardvoice/internal/speech"
	"github.com/fsnotify/fsnotify"
)

// Playback modes.
const (
	// PlaybackOto synthesizes to WAV and plays it through the audio package.
	PlaybackOto = "oto"
	// PlaybackDirect lets espeak-ng open the audio device itself.
	PlaybackDirect = "direct"
)

// Config contains espeak host settings.
type Config struct {
	Binary       string        // espeak-ng executable name or path
	DataDir      string        // Voices directory to watch for changes, empty disables
	DefaultVoice string        // Voice reported as the host default
	Playback     string        // PlaybackOto or PlaybackDirect
	Timeout      time.Duration // Upper bound for one utterance
}

// DefaultConfig returns the default espeak host configuration.
func DefaultConfig() Config {
	return Config{
		Binary:       "espeak-ng",
		DefaultVoice: "cmn",
		Playback:     PlaybackOto,
		Timeout:      30 * time.Second,
	}
}

// Player plays decoded clips. audio.Player satisfies it.
type Player interface {
	Play(ctx context.Context, clip audio.Clip) error
	Stop() error
}

// Option customizes a Host.
type Option func(*Host)

// WithRunner replaces the subprocess runner.
func WithRunner(r Runner) Option {
	return func(h *Host) { h.runner = r }
}

// WithPlayer replaces the audio player used in oto mode.
func WithPlayer(p Player) Option {
	return func(h *Host) { h.player = p }
}

// WithLookPath replaces the binary lookup.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(h *Host) { h.lookPath = fn }
}

// Host implements speech.Host on top of espeak-ng.
// The catalog is discovered in the background after Start, so Voices is
// empty for a short while; utterances play one at a time on a worker.
type Host struct {
	config   Config
	binary   string
	runner   Runner
	player   Player
	lookPath func(string) (string, error)

	mu          sync.Mutex
	voices      []speech.Voice
	subscribers map[int]func()
	nextSub     int
	queue       []speech.Utterance
	wake        *sync.Cond
	playing     bool
	stopCurrent context.CancelFunc
	closed      bool

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	watcher *fsnotify.Watcher
}

// New creates an espeak host. A missing binary is not an error: the host
// then reports itself unavailable.
func New(config Config, opts ...Option) *Host {
	if config.Binary == "" {
		config.Binary = DefaultConfig().Binary
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	h := &Host{
		config:      config,
		runner:      execRunner{},
		lookPath:    exec.LookPath,
		subscribers: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.wake = sync.NewCond(&h.mu)
	h.ctx, h.cancel = context.WithCancel(context.Background())

	if path, err := h.lookPath(config.Binary); err == nil {
		h.binary = path
	} else {
		log.Warn("espeak-ng not found, speech disabled", "binary", config.Binary, "error", err)
	}

	if h.player == nil && config.Playback != PlaybackDirect {
		h.player = audio.NewPlayer(audio.DefaultPlayerConfig())
	}

	return h
}

// Start loads the catalog in the background, watches the voices directory
// and starts the playback worker.
func (h *Host) Start() error {
	if !h.Available() {
		return ErrBinaryNotFound
	}

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		h.reloadVoices()
	}()
	go h.work()

	if h.config.DataDir != "" {
		if err := h.watch(h.config.DataDir); err != nil {
			log.Warn("Not watching espeak voices", "dir", h.config.DataDir, "error", err)
		}
	}
	return nil
}

// Available implements speech.Host.
func (h *Host) Available() bool {
	return h.binary != ""
}

// Voices implements speech.Host.
func (h *Host) Voices() []speech.Voice {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]speech.Voice(nil), h.voices...)
}

// OnVoicesChanged implements speech.Host.
func (h *Host) OnVoicesChanged(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextSub
	h.nextSub++
	h.subscribers[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers, id)
	}
}

// reloadVoices lists the installed voices and notifies subscribers.
func (h *Host) reloadVoices() {
	start := time.Now()
	out, err := h.runner.Run(h.ctx, nil, h.binary, "--voices")
	if err != nil {
		if h.ctx.Err() == nil {
			log.Error("Failed to list espeak voices", "error", err)
		}
		return
	}
	voices := parseVoices(out, h.config.DefaultVoice)

	h.mu.Lock()
	h.voices = voices
	fns := make([]func(), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	log.Debug("espeak voices loaded", "voices", len(voices), "duration", time.Since(start))
	for _, fn := range fns {
		fn()
	}
}

// watch reloads the catalog whenever the voices directory changes.
func (h *Host) watch(dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	h.watcher = watcher
	log.Debug("Watching espeak voices", "dir", dir)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op == fsnotify.Chmod {
					continue
				}
				log.Debug("espeak voices changed", "file", event.Name, "event", event.Op)
				h.reloadVoices()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug("fsnotify error", "dir", dir, "error", err)
			}
		}
	}()
	return nil
}

// Enqueue implements speech.Host.
func (h *Host) Enqueue(u speech.Utterance) error {
	if !h.Available() {
		return ErrBinaryNotFound
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	h.queue = append(h.queue, u)
	h.wake.Signal()
	return nil
}

// Cancel implements speech.Host.
func (h *Host) Cancel() {
	h.mu.Lock()
	h.queue = nil
	if h.stopCurrent != nil {
		h.stopCurrent()
		h.stopCurrent = nil
	}
	h.mu.Unlock()

	if h.player != nil {
		_ = h.player.Stop()
	}
}

// Drain blocks until every queued utterance has been spoken.
func (h *Host) Drain(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		h.mu.Lock()
		idle := len(h.queue) == 0 && !h.playing
		h.mu.Unlock()
		if idle {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close stops playback, the worker and the watcher.
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.queue = nil
	if h.stopCurrent != nil {
		h.stopCurrent()
		h.stopCurrent = nil
	}
	h.wake.Broadcast()
	h.mu.Unlock()

	h.cancel()

	var err error
	if h.watcher != nil {
		err = h.watcher.Close()
	}
	h.wg.Wait()

	if c, ok := h.player.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

// work plays queued utterances one after another until Close.
func (h *Host) work() {
	defer h.wg.Done()
	for {
		u, ctx, ok := h.next()
		if !ok {
			return
		}

		err := h.speak(ctx, u)
		h.finish()

		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Speech playback failed", "text", u.Text, "voice", voiceArg(u), "error", err)
		}
	}
}

// next waits for an utterance and marks it as playing.
func (h *Host) next() (speech.Utterance, context.Context, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for len(h.queue) == 0 && !h.closed {
		h.wake.Wait()
	}
	if h.closed {
		return speech.Utterance{}, nil, false
	}

	u := h.queue[0]
	h.queue = h.queue[1:]

	ctx, cancel := context.WithTimeout(h.ctx, h.config.Timeout)
	h.stopCurrent = cancel
	h.playing = true
	return u, ctx, true
}

func (h *Host) finish() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopCurrent != nil {
		h.stopCurrent()
		h.stopCurrent = nil
	}
	h.playing = false
}

// speak synthesizes and plays one utterance.
func (h *Host) speak(ctx context.Context, u speech.Utterance) error {
	args := append([]string{"-v", voiceArg(u)}, prosodyArgs(u)...)
	args = append(args, "--stdin")

	if h.config.Playback == PlaybackDirect {
		_, err := h.runner.Run(ctx, strings.NewReader(u.Text), h.binary, args...)
		return err
	}

	out, err := h.runner.Run(ctx, strings.NewReader(u.Text), h.binary, append(args, "--stdout")...)
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return ErrNoAudio
	}

	clip, err := audio.DecodeWAV(out)
	if err != nil {
		return fmt.Errorf("decode espeak output: %w", err)
	}
	log.Debug("Playing utterance", "text", u.Text, "duration", clip.Duration())
	return h.player.Play(ctx, clip)
}
