package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/haivivi/flowtts/pkg/audio/pcm"
)

// HeaderSize is the size of the canonical header written by Encode.
const HeaderSize = 44

// formatPCM is the WAVE format tag for uncompressed PCM.
const formatPCM = 1

// ErrMalformed is returned by Payload for data that is not a canonical
// WAVE container.
var ErrMalformed = errors.New("wav: malformed container")

// Header holds the format parameters declared by a container.
type Header struct {
	SampleRate  int
	Channels    int
	SampleWidth int // bytes per sample
}

// HeaderFor returns the header parameters of a PCM format.
func HeaderFor(f pcm.Format) Header {
	return Header{
		SampleRate:  f.SampleRate(),
		Channels:    f.Channels(),
		SampleWidth: f.SampleWidth(),
	}
}

// ByteRate returns SampleRate * Channels * SampleWidth.
func (h Header) ByteRate() int {
	return h.SampleRate * h.Channels * h.SampleWidth
}

// BlockAlign returns Channels * SampleWidth.
func (h Header) BlockAlign() int {
	return h.Channels * h.SampleWidth
}

// BitsPerSample returns SampleWidth * 8.
func (h Header) BitsPerSample() int {
	return h.SampleWidth * 8
}

// Encode returns the header followed by payload. The output is always
// HeaderSize+len(payload) bytes long.
func Encode(payload []byte, h Header) []byte {
	out := make([]byte, HeaderSize+len(payload))
	putHeader(out[:HeaderSize], len(payload), h)
	copy(out[HeaderSize:], payload)
	return out
}

// WriteTo writes the same bytes as Encode to w.
func WriteTo(w io.Writer, payload []byte, h Header) (int64, error) {
	var hdr [HeaderSize]byte
	putHeader(hdr[:], len(payload), h)
	n, err := w.Write(hdr[:])
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(payload)
	return int64(n + m), err
}

func putHeader(b []byte, dataLen int, h Header) {
	le := binary.LittleEndian

	copy(b[0:4], "RIFF")
	le.PutUint32(b[4:8], uint32(36+dataLen))
	copy(b[8:12], "WAVE")

	copy(b[12:16], "fmt ")
	le.PutUint32(b[16:20], 16)
	le.PutUint16(b[20:22], formatPCM)
	le.PutUint16(b[22:24], uint16(h.Channels))
	le.PutUint32(b[24:28], uint32(h.SampleRate))
	le.PutUint32(b[28:32], uint32(h.ByteRate()))
	le.PutUint16(b[32:34], uint16(h.BlockAlign()))
	le.PutUint16(b[34:36], uint16(h.BitsPerSample()))

	copy(b[36:40], "data")
	le.PutUint32(b[40:44], uint32(dataLen))
}

// Payload parses a canonical container and returns its data region and
// declared header. The returned slice aliases container.
func Payload(container []byte) ([]byte, Header, error) {
	if len(container) < HeaderSize {
		return nil, Header{}, fmt.Errorf("%w: %d bytes", ErrMalformed, len(container))
	}
	le := binary.LittleEndian

	if !bytes.Equal(container[0:4], []byte("RIFF")) || !bytes.Equal(container[8:12], []byte("WAVE")) {
		return nil, Header{}, fmt.Errorf("%w: missing RIFF/WAVE markers", ErrMalformed)
	}
	if !bytes.Equal(container[12:16], []byte("fmt ")) || !bytes.Equal(container[36:40], []byte("data")) {
		return nil, Header{}, fmt.Errorf("%w: unexpected chunk layout", ErrMalformed)
	}
	if tag := le.Uint16(container[20:22]); tag != formatPCM {
		return nil, Header{}, fmt.Errorf("%w: format tag %d", ErrMalformed, tag)
	}

	h := Header{
		Channels:    int(le.Uint16(container[22:24])),
		SampleRate:  int(le.Uint32(container[24:28])),
		SampleWidth: int(le.Uint16(container[34:36])) / 8,
	}

	size := int(le.Uint32(container[40:44]))
	if size > len(container)-HeaderSize {
		return nil, Header{}, fmt.Errorf("%w: data size %d exceeds %d available bytes", ErrMalformed, size, len(container)-HeaderSize)
	}
	return container[HeaderSize : HeaderSize+size], h, nil
}
