package speech

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Sequencer speaks ordered lists of texts through a Host.
// Each call to Speak silences whatever was playing before it.
type Sequencer struct {
	host     Host
	resolver *CatalogResolver
	timeout  time.Duration

	// mu orders cancellation against enqueueing; generation identifies the
	// most recent Speak or Stop.
	mu         sync.Mutex
	generation uint64
}

// SequencerConfig configures catalog resolution for a Sequencer.
type SequencerConfig struct {
	ResolveTimeout time.Duration // How long to wait for a late catalog
	PollInterval   time.Duration // How often to re-read an empty catalog
}

// DefaultSequencerConfig returns the resolver timings used by the flashcards.
func DefaultSequencerConfig() SequencerConfig {
	return SequencerConfig{
		ResolveTimeout: DefaultResolveTimeout,
		PollInterval:   DefaultPollInterval,
	}
}

// NewSequencer creates a sequencer on top of host. A nil host is allowed and
// turns every operation into a no-op.
func NewSequencer(host Host, config SequencerConfig) *Sequencer {
	s := &Sequencer{
		host:    host,
		timeout: config.ResolveTimeout,
	}
	if host != nil {
		s.resolver = NewCatalogResolver(host, config.PollInterval)
	}
	return s
}

func (s *Sequencer) supported() bool {
	return s != nil && s.host != nil && s.host.Available()
}

// SpeakMandarin speaks texts with the best Mandarin voice.
func (s *Sequencer) SpeakMandarin(ctx context.Context, texts []string, opts Options) error {
	return s.Speak(ctx, texts, Mandarin, opts)
}

// SpeakEnglish speaks texts with the best English voice.
func (s *Sequencer) SpeakEnglish(ctx context.Context, texts []string, opts Options) error {
	return s.Speak(ctx, texts, English, opts)
}

// Speak cancels current playback, picks a voice for family and enqueues one
// utterance per non-blank text, in order. It returns once the utterances are
// queued, not once they have been heard. If another Speak or Stop is issued
// while this call is still resolving voices, this call enqueues nothing.
func (s *Sequencer) Speak(ctx context.Context, texts []string, family Family, opts Options) error {
	if !s.supported() {
		return nil
	}

	gen := s.cancel()

	voices := s.resolver.Resolve(ctx, s.timeout)
	voice, found := PickVoice(family, voices)

	lang := family.FallbackLang()
	var chosen *Voice
	if found {
		chosen = &voice
		lang = voice.Lang
		log.Debug("Voice selected", "family", family, "voice", voice.Name, "lang", voice.Lang)
	} else {
		log.Debug("No voice matched, using host default", "family", family, "lang", lang)
	}

	prosody := opts.Prosody()
	utterances := make([]Utterance, 0, len(texts))
	for _, text := range texts {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		utterances = append(utterances, Utterance{
			Text:   trimmed,
			Voice:  chosen,
			Lang:   lang,
			Rate:   prosody.Rate,
			Pitch:  prosody.Pitch,
			Volume: prosody.Volume,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		log.Debug("Sequence superseded before enqueue", "family", family, "dropped", len(utterances))
		return nil
	}

	for i, u := range utterances {
		if err := s.host.Enqueue(u); err != nil {
			return fmt.Errorf("enqueue utterance %d: %w", i, err)
		}
	}
	return nil
}

// Stop silences playback and discards queued utterances. It is safe to call
// when nothing is playing or when the platform cannot speak.
func (s *Sequencer) Stop() {
	if !s.supported() {
		return
	}
	s.cancel()
}

// cancel flushes the host and starts a new generation.
func (s *Sequencer) cancel() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.host.Cancel()
	return s.generation
}
