package speech

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func testSequencer(host Host) *Sequencer {
	return NewSequencer(host, SequencerConfig{
		ResolveTimeout: 50 * time.Millisecond,
		PollInterval:   5 * time.Millisecond,
	})
}

func TestSpeakSkipsBlankTexts(t *testing.T) {
	host := newFakeHost(Voice{Name: "Ting-Ting", Lang: "zh-CN"})
	s := testSequencer(host)

	if err := s.SpeakMandarin(context.Background(), []string{" ", "", "家"}, Options{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, enqueued, _ := host.snapshot()
	if len(enqueued) != 1 {
		t.Fatalf("Expected 1 utterance, got %d", len(enqueued))
	}
	if enqueued[0].Text != "家" {
		t.Errorf("Expected text %q, got %q", "家", enqueued[0].Text)
	}
}

func TestSpeakTrimsAndKeepsOrder(t *testing.T) {
	host := newFakeHost(Voice{Name: "Samantha", Lang: "en-US"})
	s := testSequencer(host)

	if err := s.SpeakEnglish(context.Background(), []string{"  west ", "\thome\n", "I"}, Options{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	events, _, _ := host.snapshot()
	want := []string{"cancel", "enqueue:west", "enqueue:home", "enqueue:I"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("Expected events %v, got %v", want, events)
	}
}

func TestSpeakDefaultProsody(t *testing.T) {
	host := newFakeHost(Voice{Name: "Ting-Ting", Lang: "zh-CN"})
	s := testSequencer(host)

	if err := s.SpeakMandarin(context.Background(), []string{"水"}, Options{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, enqueued, _ := host.snapshot()
	u := enqueued[0]
	if u.Rate != 0.95 || u.Pitch != 1.0 || u.Volume != 1.0 {
		t.Errorf("Expected 0.95/1.0/1.0, got %v/%v/%v", u.Rate, u.Pitch, u.Volume)
	}
}

func TestSpeakProsodyOverridesAreIndependent(t *testing.T) {
	host := newFakeHost(Voice{Name: "Ting-Ting", Lang: "zh-CN"})
	s := testSequencer(host)

	opts := Options{Volume: Float(0)}
	if err := s.SpeakMandarin(context.Background(), []string{"水"}, opts); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, enqueued, _ := host.snapshot()
	u := enqueued[0]
	if u.Rate != DefaultRate || u.Pitch != DefaultPitch {
		t.Errorf("Expected default rate and pitch, got %v/%v", u.Rate, u.Pitch)
	}
	if u.Volume != 0 {
		t.Errorf("Expected explicit zero volume, got %v", u.Volume)
	}
}

func TestSpeakAppliesSelectedVoice(t *testing.T) {
	host := newFakeHost(
		Voice{Name: "Mei-Jia", Lang: "zh-TW"},
		Voice{Name: "Ting-Ting", Lang: "zh-CN"},
	)
	s := testSequencer(host)

	if err := s.SpeakMandarin(context.Background(), []string{"家"}, Options{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, enqueued, _ := host.snapshot()
	u := enqueued[0]
	if u.Voice == nil || u.Voice.Name != "Ting-Ting" {
		t.Fatalf("Expected Ting-Ting, got %+v", u.Voice)
	}
	if u.Lang != "zh-CN" {
		t.Errorf("Expected lang of selected voice, got %q", u.Lang)
	}
}

func TestSpeakFallbackLang(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		want   string
	}{
		{name: "mandarin", family: Mandarin, want: "zh-CN"},
		{name: "english", family: English, want: "en-US"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost(Voice{Name: "Thomas", Lang: "fr-FR"})
			s := testSequencer(host)

			if err := s.Speak(context.Background(), []string{"x"}, tt.family, Options{}); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			_, enqueued, _ := host.snapshot()
			if enqueued[0].Voice != nil {
				t.Errorf("Expected no voice, got %+v", enqueued[0].Voice)
			}
			if enqueued[0].Lang != tt.want {
				t.Errorf("Expected fallback %q, got %q", tt.want, enqueued[0].Lang)
			}
		})
	}
}

func TestSpeakEmptyCatalogFallsBack(t *testing.T) {
	host := newFakeHost()
	s := testSequencer(host)

	if err := s.SpeakMandarin(context.Background(), []string{"家"}, Options{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, enqueued, _ := host.snapshot()
	if len(enqueued) != 1 || enqueued[0].Lang != "zh-CN" || enqueued[0].Voice != nil {
		t.Errorf("Expected fallback utterance after resolve timeout, got %+v", enqueued)
	}
}

func TestSpeakCancelsBeforeEnqueue(t *testing.T) {
	host := newFakeHost(Voice{Name: "Ting-Ting", Lang: "zh-CN"})
	s := testSequencer(host)

	_ = s.SpeakMandarin(context.Background(), []string{"东"}, Options{})
	_ = s.SpeakMandarin(context.Background(), []string{"南"}, Options{})

	events, _, cancels := host.snapshot()
	want := []string{"cancel", "enqueue:东", "cancel", "enqueue:南"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("Expected events %v, got %v", want, events)
	}
	if cancels != 2 {
		t.Errorf("Expected 2 cancels, got %d", cancels)
	}
}

func TestSpeakUnsupportedIsNoop(t *testing.T) {
	host := newFakeHost(Voice{Name: "Ting-Ting", Lang: "zh-CN"})
	host.unavailable = true
	s := testSequencer(host)

	if err := s.SpeakMandarin(context.Background(), []string{"家"}, Options{}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	events, _, _ := host.snapshot()
	if len(events) != 0 {
		t.Errorf("Expected no host calls, got %v", events)
	}

	noHost := testSequencer(nil)
	if err := noHost.SpeakEnglish(context.Background(), []string{"home"}, Options{}); err != nil {
		t.Errorf("Expected no error without host, got %v", err)
	}
}

func TestSpeakEnqueueErrorPropagates(t *testing.T) {
	errBoom := errors.New("device lost")
	host := newFakeHost(Voice{Name: "Ting-Ting", Lang: "zh-CN"})
	host.enqueueErr = errBoom
	s := testSequencer(host)

	err := s.SpeakMandarin(context.Background(), []string{"家"}, Options{})
	if !errors.Is(err, errBoom) {
		t.Errorf("Expected wrapped enqueue error, got %v", err)
	}
}

func TestStop(t *testing.T) {
	t.Run("idle host", func(t *testing.T) {
		host := newFakeHost()
		s := testSequencer(host)

		s.Stop()
		s.Stop()

		_, enqueued, cancels := host.snapshot()
		if len(enqueued) != 0 {
			t.Errorf("Expected no enqueue, got %d", len(enqueued))
		}
		if cancels != 2 {
			t.Errorf("Expected 2 cancels, got %d", cancels)
		}
	})

	t.Run("unavailable host", func(t *testing.T) {
		host := newFakeHost()
		host.unavailable = true
		s := testSequencer(host)

		s.Stop()

		events, _, _ := host.snapshot()
		if len(events) != 0 {
			t.Errorf("Expected no host calls, got %v", events)
		}
	})

	t.Run("no host", func(t *testing.T) {
		testSequencer(nil).Stop()

		var s *Sequencer
		s.Stop()
	})
}

func TestStopDuringResolveDropsSequence(t *testing.T) {
	host := newFakeHost()
	s := NewSequencer(host, SequencerConfig{
		ResolveTimeout: 200 * time.Millisecond,
		PollInterval:   5 * time.Millisecond,
	})

	done := make(chan error, 1)
	go func() {
		done <- s.SpeakMandarin(context.Background(), []string{"家"}, Options{})
	}()

	time.Sleep(30 * time.Millisecond)
	s.Stop()

	if err := <-done; err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	_, enqueued, _ := host.snapshot()
	if len(enqueued) != 0 {
		t.Errorf("Expected superseded sequence to be dropped, got %d utterances", len(enqueued))
	}
}

func TestLaterSpeakWinsOverSlowerEarlierSpeak(t *testing.T) {
	host := newFakeHost()
	s := NewSequencer(host, SequencerConfig{
		ResolveTimeout: 200 * time.Millisecond,
		PollInterval:   5 * time.Millisecond,
	})

	first := make(chan error, 1)
	go func() {
		first <- s.SpeakMandarin(context.Background(), []string{"东"}, Options{})
	}()

	time.Sleep(30 * time.Millisecond)
	host.setVoices(false, Voice{Name: "Ting-Ting", Lang: "zh-CN"})
	if err := s.SpeakMandarin(context.Background(), []string{"南"}, Options{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := <-first; err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	queued := host.pending()
	if len(queued) != 1 || queued[0].Text != "南" {
		t.Errorf("Expected only the later sequence, got %+v", queued)
	}
}

func TestOptionsProsody(t *testing.T) {
	p := Options{}.Prosody()
	if p != (Prosody{Rate: 0.95, Pitch: 1.0, Volume: 1.0}) {
		t.Errorf("Expected defaults, got %+v", p)
	}

	p = Options{Rate: Float(1.2), Pitch: Float(0.8)}.Prosody()
	if p != (Prosody{Rate: 1.2, Pitch: 0.8, Volume: 1.0}) {
		t.Errorf("Expected overrides with default volume, got %+v", p)
	}
}
