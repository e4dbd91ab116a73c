// Package speech picks voices and sequences utterances on top of a host
// speech engine. It never synthesizes audio itself: a Host owns the voice
// catalog and the playback queue, and this package decides which voice to
// use and what to put on the queue.
package speech
