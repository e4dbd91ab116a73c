// Package mock provides an in-memory speech host for dry runs and tests.
package mock

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/cardvoice/internal/speech"
)

// Host implements speech.Host without producing any audio.
// Utterances are recorded and, if an output is set, printed.
type Host struct {
	mu sync.Mutex

	// Catalog
	available   bool
	voices      []speech.Voice
	subscribers map[int]func()
	nextSub     int
	timers      []*time.Timer

	// Playback queue
	queue   []speech.Utterance
	history []speech.Utterance
	cancels int

	// Control for testing
	enqueueErr error
	out        io.Writer
}

// New creates an available mock host reporting voices.
func New(voices ...speech.Voice) *Host {
	return &Host{
		available:   true,
		voices:      voices,
		subscribers: make(map[int]func()),
	}
}

// DefaultVoices returns a catalog shaped like a desktop browser's.
func DefaultVoices() []speech.Voice {
	return []speech.Voice{
		{ID: "samantha", Name: "Samantha", Lang: "en-US", Default: true, LocalService: true},
		{ID: "daniel", Name: "Daniel", Lang: "en-GB", LocalService: true},
		{ID: "thomas", Name: "Thomas", Lang: "fr-FR", LocalService: true},
		{ID: "meijia", Name: "Mei-Jia", Lang: "zh-TW", LocalService: true},
		{ID: "sinji", Name: "Sin-ji", Lang: "zh-HK", LocalService: true},
		{ID: "tingting", Name: "Ting-Ting", Lang: "zh-CN", LocalService: true},
		{ID: "google-putonghua", Name: "Google 普通话（中国大陆）", Lang: "zh-CN"},
		{ID: "google-yue", Name: "Google 粤語（香港）", Lang: "zh-HK"},
	}
}

// SetOutput makes the host print every enqueued utterance to w.
func (h *Host) SetOutput(w io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.out = w
}

// SetAvailable toggles the capability reported by Available.
func (h *Host) SetAvailable(available bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.available = available
}

// SetEnqueueError makes every following Enqueue fail with err.
func (h *Host) SetEnqueueError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.enqueueErr = err
}

// SetVoices replaces the catalog and notifies subscribers.
func (h *Host) SetVoices(voices ...speech.Voice) {
	h.mu.Lock()
	h.voices = voices
	fns := make([]func(), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// PopulateAfter empties the catalog and installs voices once delay has
// passed, the way hosts load their voices after startup. With notify unset
// the change is silent and only visible to polling.
func (h *Host) PopulateAfter(delay time.Duration, notify bool, voices ...speech.Voice) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.voices = nil
	timer := time.AfterFunc(delay, func() {
		if notify {
			h.SetVoices(voices...)
			return
		}
		h.mu.Lock()
		h.voices = voices
		h.mu.Unlock()
	})
	h.timers = append(h.timers, timer)
}

// Available implements speech.Host.
func (h *Host) Available() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.available
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

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers, id)
		})
	}
}

// Enqueue implements speech.Host.
func (h *Host) Enqueue(u speech.Utterance) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.enqueueErr != nil {
		return h.enqueueErr
	}
	h.queue = append(h.queue, u)
	h.history = append(h.history, u)

	log.Debug("Mock utterance queued", "text", u.Text, "lang", u.Lang, "queued", len(h.queue))
	if h.out != nil {
		fmt.Fprintln(h.out, Describe(u))
	}
	return nil
}

// Cancel implements speech.Host.
func (h *Host) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queue = nil
	h.cancels++
}

// Drain marks every queued utterance as spoken.
func (h *Host) Drain(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queue = nil
	return ctx.Err()
}

// Close stops pending PopulateAfter timers.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range h.timers {
		t.Stop()
	}
	h.timers = nil
	return nil
}

// Queue returns the utterances enqueued since the last Cancel or Drain.
func (h *Host) Queue() []speech.Utterance {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]speech.Utterance(nil), h.queue...)
}

// History returns every utterance ever enqueued.
func (h *Host) History() []speech.Utterance {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]speech.Utterance(nil), h.history...)
}

// Cancels returns how many times Cancel was called.
func (h *Host) Cancels() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancels
}

// Subscribers returns the number of live voices-changed registrations.
func (h *Host) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Describe formats an utterance the way the dry run prints it.
func Describe(u speech.Utterance) string {
	voice := "default voice"
	if u.Voice != nil {
		voice = u.Voice.Name
	}
	return fmt.Sprintf("%s [%s, %s] rate=%.2f pitch=%.2f volume=%.2f",
		u.Text, u.Lang, voice, u.Rate, u.Pitch, u.Volume)
}
