package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/cardvoice/internal/config"
	"github.com/dgnsrekt/cardvoice/internal/speech"
	"github.com/dgnsrekt/cardvoice/internal/speech/hosts/espeak"
	"github.com/dgnsrekt/cardvoice/internal/speech/hosts/mock"
)

// speechHost is a host the commands can wait on and shut down.
type speechHost interface {
	speech.Host
	Drain(ctx context.Context) error
	Close() error
}

// newHost builds the configured speech host. The mock host prints what it
// would say to out.
func newHost(cfg config.Config, out io.Writer) (speechHost, error) {
	switch cfg.Host {
	case config.HostMock:
		h := mock.New()
		h.SetOutput(out)
		if cfg.Mock.CatalogDelay > 0 {
			h.PopulateAfter(cfg.Mock.CatalogDelay, cfg.Mock.Notify, mock.DefaultVoices()...)
		} else {
			h.SetVoices(mock.DefaultVoices()...)
		}
		return h, nil

	case config.HostEspeak:
		h := espeak.New(cfg.EspeakHostConfig())
		if err := h.Start(); err != nil {
			if !errors.Is(err, espeak.ErrBinaryNotFound) {
				_ = h.Close()
				return nil, fmt.Errorf("unable to start espeak: %w", err)
			}
			// Speech stays a silent no-op, like a platform without synthesis.
			fmt.Fprintf(os.Stderr, "%s not found, nothing will be spoken (try --host mock)\n", cfg.Espeak.Binary)
			log.Warn("Speech unavailable", "binary", cfg.Espeak.Binary)
		}
		return h, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownHost, cfg.Host)
	}
}
