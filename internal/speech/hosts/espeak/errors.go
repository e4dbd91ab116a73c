package espeak

import "errors"

var (
	// ErrBinaryNotFound is returned when espeak-ng is not installed.
	ErrBinaryNotFound = errors.New("espeak-ng binary not found")

	// ErrHostClosed is returned when utterances are enqueued after Close.
	ErrHostClosed = errors.New("espeak host is closed")

	// ErrNoAudio is returned when espeak-ng produced no output.
	ErrNoAudio = errors.New("espeak-ng produced no audio")
)
