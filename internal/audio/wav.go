package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotWAV is returned when data does not start with a RIFF/WAVE header.
	ErrNotWAV = errors.New("not a WAV stream")

	// ErrUnsupportedFormat is returned for anything other than 16-bit PCM.
	ErrUnsupportedFormat = errors.New("unsupported WAV format")

	// ErrNoData is returned when the stream has no data chunk.
	ErrNoData = errors.New("WAV stream has no data chunk")
)

// Format describes raw PCM samples.
type Format struct {
	SampleRate int // Sample rate in Hz
	Channels   int // 1 = mono, 2 = stereo
	BitDepth   int // Bits per sample, always 16 here
}

// Clip is decoded PCM audio ready for playback.
type Clip struct {
	Format Format
	PCM    []byte // Signed 16-bit little endian samples
}

// Duration returns how long the clip plays.
func (c Clip) Duration() time.Duration {
	frame := c.Format.Channels * c.Format.BitDepth / 8
	if frame == 0 || c.Format.SampleRate == 0 {
		return 0
	}
	frames := len(c.PCM) / frame
	return time.Duration(frames) * time.Second / time.Duration(c.Format.SampleRate)
}

// DecodeWAV extracts PCM from a RIFF/WAVE byte stream.
// Synthesizers writing to a pipe cannot seek back to patch chunk sizes, so a
// data chunk claiming more bytes than remain is cut to what is present.
func DecodeWAV(data []byte) (Clip, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Clip{}, ErrNotWAV
	}

	var (
		format  Format
		haveFmt bool
		pos     = 12
	)
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return Clip{}, fmt.Errorf("%w: short fmt chunk", ErrNotWAV)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			format = Format{
				Channels:   int(binary.LittleEndian.Uint16(data[body+2 : body+4])),
				SampleRate: int(binary.LittleEndian.Uint32(data[body+4 : body+8])),
				BitDepth:   int(binary.LittleEndian.Uint16(data[body+14 : body+16])),
			}
			if audioFormat != 1 || format.BitDepth != 16 {
				return Clip{}, fmt.Errorf("%w: format %d, %d bits", ErrUnsupportedFormat, audioFormat, format.BitDepth)
			}
			haveFmt = true

		case "data":
			if !haveFmt {
				return Clip{}, fmt.Errorf("%w: data before fmt", ErrNotWAV)
			}
			end := body + size
			if end > len(data) {
				end = len(data)
			}
			// Drop a trailing half sample.
			end -= (end - body) % 2
			return Clip{Format: format, PCM: data[body:end]}, nil
		}

		// Chunks are padded to an even size.
		pos = body + size + size%2
	}
	return Clip{}, ErrNoData
}
