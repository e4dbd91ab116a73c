package speech

// Host is the platform speech engine the subsystem drives.
// It owns the voice catalog and plays enqueued utterances one after another.
type Host interface {
	// Available reports whether the platform can speak at all.
	Available() bool

	// Voices returns the current catalog. It may be empty while the host
	// is still discovering voices.
	Voices() []Voice

	// OnVoicesChanged registers fn to be called whenever the catalog changes.
	// The returned function removes the registration.
	OnVoicesChanged(fn func()) (unsubscribe func())

	// Enqueue appends an utterance to the playback queue.
	Enqueue(u Utterance) error

	// Cancel flushes the queue and silences the current utterance.
	Cancel()
}
