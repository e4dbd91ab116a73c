// Package audio decodes the WAV clips produced by local synthesizers and
// plays them through the system audio device using oto/v3.
package audio
