package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

// buildWAV assembles a 16-bit PCM WAV. A negative dataSize writes the
// 0xFFFFFFFF placeholder streaming encoders leave behind.
func buildWAV(sampleRate, channels int, pcm []byte, dataSize int64, extra ...[]byte) []byte {
	var b bytes.Buffer
	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, uint32(36+len(pcm)))
	b.WriteString("WAVE")

	for _, chunk := range extra {
		b.Write(chunk)
	}

	b.WriteString("fmt ")
	_ = binary.Write(&b, binary.LittleEndian, uint32(16))
	_ = binary.Write(&b, binary.LittleEndian, uint16(1))
	_ = binary.Write(&b, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&b, binary.LittleEndian, uint32(sampleRate*channels*2))
	_ = binary.Write(&b, binary.LittleEndian, uint16(channels*2))
	_ = binary.Write(&b, binary.LittleEndian, uint16(16))

	b.WriteString("data")
	if dataSize < 0 {
		_ = binary.Write(&b, binary.LittleEndian, uint32(0xFFFFFFFF))
	} else {
		_ = binary.Write(&b, binary.LittleEndian, uint32(dataSize))
	}
	b.Write(pcm)
	return b.Bytes()
}

func TestDecodeWAV(t *testing.T) {
	pcm := make([]byte, 22050*2) // one second of mono silence
	clip, err := DecodeWAV(buildWAV(22050, 1, pcm, int64(len(pcm))))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := Format{SampleRate: 22050, Channels: 1, BitDepth: 16}
	if clip.Format != want {
		t.Errorf("Expected format %+v, got %+v", want, clip.Format)
	}
	if len(clip.PCM) != len(pcm) {
		t.Errorf("Expected %d bytes of PCM, got %d", len(pcm), len(clip.PCM))
	}
	if clip.Duration() != time.Second {
		t.Errorf("Expected 1s duration, got %v", clip.Duration())
	}
}

func TestDecodeWAVStreamedSize(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3}
	clip, err := DecodeWAV(buildWAV(22050, 1, pcm, -1))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(clip.PCM) != 4 {
		t.Errorf("Expected placeholder size cut to 4 whole bytes, got %d", len(clip.PCM))
	}
}

func TestDecodeWAVSkipsUnknownChunks(t *testing.T) {
	list := append([]byte("LIST"), 3, 0, 0, 0, 'a', 'b', 'c', 0)
	pcm := []byte{1, 0, 2, 0}
	clip, err := DecodeWAV(buildWAV(44100, 2, pcm, int64(len(pcm)), list))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if clip.Format.Channels != 2 || clip.Format.SampleRate != 44100 {
		t.Errorf("Unexpected format %+v", clip.Format)
	}
	if !bytes.Equal(clip.PCM, pcm) {
		t.Errorf("Expected %v, got %v", pcm, clip.PCM)
	}
}

func TestDecodeWAVErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "empty", data: nil, want: ErrNotWAV},
		{name: "not riff", data: []byte("OggS0000WAVEfmt "), want: ErrNotWAV},
		{name: "no data chunk", data: []byte("RIFF\x04\x00\x00\x00WAVE"), want: ErrNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeWAV(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeWAVRejectsFloat(t *testing.T) {
	data := buildWAV(22050, 1, []byte{0, 0}, 2)
	// Patch audio format to IEEE float.
	binary.LittleEndian.PutUint16(data[20:22], 3)

	if _, err := DecodeWAV(data); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}
