package speech

import (
	"sync"
)

// fakeHost is an in-memory Host recording every call made to it.
type fakeHost struct {
	mu          sync.Mutex
	unavailable bool
	voices      []Voice
	subscribers map[int]func()
	nextSub     int
	subscribed  int
	voicesCalls int
	events      []string
	enqueued    []Utterance
	queue       []Utterance
	cancels     int
	enqueueErr  error
}

func newFakeHost(voices ...Voice) *fakeHost {
	return &fakeHost{
		voices:      voices,
		subscribers: make(map[int]func()),
	}
}

func (h *fakeHost) Available() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.unavailable
}

func (h *fakeHost) Voices() []Voice {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.voicesCalls++
	return append([]Voice(nil), h.voices...)
}

func (h *fakeHost) OnVoicesChanged(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	h.subscribed++
	h.subscribers[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers, id)
	}
}

func (h *fakeHost) Enqueue(u Utterance) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.enqueueErr != nil {
		return h.enqueueErr
	}
	h.events = append(h.events, "enqueue:"+u.Text)
	h.enqueued = append(h.enqueued, u)
	h.queue = append(h.queue, u)
	return nil
}

func (h *fakeHost) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "cancel")
	h.queue = nil
	h.cancels++
}

// setVoices replaces the catalog, notifying subscribers when notify is set.
func (h *fakeHost) setVoices(notify bool, voices ...Voice) {
	h.mu.Lock()
	h.voices = voices
	var fns []func()
	if notify {
		for _, fn := range h.subscribers {
			fns = append(fns, fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (h *fakeHost) subscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *fakeHost) voiceReads() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.voicesCalls
}

func (h *fakeHost) snapshot() (events []string, enqueued []Utterance, cancels int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.events...), append([]Utterance(nil), h.enqueued...), h.cancels
}

// pending returns the utterances enqueued since the last cancel.
func (h *fakeHost) pending() []Utterance {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Utterance(nil), h.queue...)
}
