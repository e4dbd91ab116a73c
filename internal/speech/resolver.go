package speech

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Resolver timing defaults.
const (
	DefaultResolveTimeout = 1800 * time.Millisecond
	DefaultPollInterval   = 50 * time.Millisecond
)

// CatalogResolver waits for a host to report its voices.
// It holds no state between calls and is safe for concurrent use.
type CatalogResolver struct {
	host         Host
	pollInterval time.Duration
}

// NewCatalogResolver creates a resolver polling host every pollInterval
// while the catalog is empty. A non-positive interval uses the default.
func NewCatalogResolver(host Host, pollInterval time.Duration) *CatalogResolver {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &CatalogResolver{
		host:         host,
		pollInterval: pollInterval,
	}
}

// Resolve returns the host catalog. If it is empty, Resolve waits for a
// voices-changed notification or a poll to observe voices, whichever comes
// first. When timeout elapses or ctx is done it returns whatever the host
// reports at that moment, which may be empty.
func (r *CatalogResolver) Resolve(ctx context.Context, timeout time.Duration) []Voice {
	if voices := r.host.Voices(); len(voices) > 0 {
		log.Debug("Voice catalog ready", "voices", len(voices), "via", "immediate")
		return voices
	}
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}

	start := time.Now()

	changed := make(chan struct{}, 1)
	unsubscribe := r.host.OnVoicesChanged(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	poll := time.NewTicker(r.pollInterval)
	defer poll.Stop()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		var via string
		select {
		case <-changed:
			via = "notified"
		case <-poll.C:
			via = "polled"
		case <-deadline.C:
			voices := r.host.Voices()
			log.Debug("Voice catalog wait timed out", "voices", len(voices), "timeout", timeout)
			return voices
		case <-ctx.Done():
			return r.host.Voices()
		}

		if voices := r.host.Voices(); len(voices) > 0 {
			log.Debug("Voice catalog ready",
				"voices", len(voices),
				"via", via,
				"elapsed", time.Since(start))
			return voices
		}
	}
}
