package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/haivivi/flowtts/pkg/audio/pcm"
)

var mono24k = HeaderFor(pcm.L16Mono24K)

func TestEncodeEightBytes(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	out := Encode(payload, mono24k)

	if len(out) != 52 {
		t.Fatalf("len = %d, want 52", len(out))
	}

	le := binary.LittleEndian
	checks := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"riff size", le.Uint32(out[4:8]), 44},
		{"fmt size", le.Uint32(out[16:20]), 16},
		{"format tag", uint32(le.Uint16(out[20:22])), 1},
		{"channels", uint32(le.Uint16(out[22:24])), 1},
		{"sample rate", le.Uint32(out[24:28]), 24000},
		{"byte rate", le.Uint32(out[28:32]), 48000},
		{"block align", uint32(le.Uint16(out[32:34])), 2},
		{"bits per sample", uint32(le.Uint16(out[34:36])), 16},
		{"data size", le.Uint32(out[40:44]), 8},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	for off, tag := range map[int]string{0: "RIFF", 8: "WAVE", 12: "fmt ", 36: "data"} {
		if got := string(out[off : off+4]); got != tag {
			t.Errorf("marker at %d = %q, want %q", off, got, tag)
		}
	}
	if !bytes.Equal(out[HeaderSize:], payload) {
		t.Errorf("payload = %x, want %x", out[HeaderSize:], payload)
	}
}

func TestEncode16K(t *testing.T) {
	out := Encode([]byte{0, 0}, HeaderFor(pcm.L16Mono16K))
	le := binary.LittleEndian
	if got := le.Uint32(out[24:28]); got != 16000 {
		t.Errorf("sample rate = %d, want 16000", got)
	}
	if got := le.Uint32(out[28:32]); got != 32000 {
		t.Errorf("byte rate = %d, want 32000", got)
	}
}

func TestEncodeEmptyAndOdd(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4097} {
		payload := bytes.Repeat([]byte{0xAB}, n)
		out := Encode(payload, mono24k)
		if len(out) != HeaderSize+n {
			t.Fatalf("n=%d: len = %d, want %d", n, len(out), HeaderSize+n)
		}
		if got := binary.LittleEndian.Uint32(out[4:8]); got != uint32(36+n) {
			t.Errorf("n=%d: riff size = %d, want %d", n, got, 36+n)
		}
		if got := binary.LittleEndian.Uint32(out[40:44]); got != uint32(n) {
			t.Errorf("n=%d: data size = %d, want %d", n, got, n)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	payload := []byte("some pcm bytes")
	a := Encode(payload, mono24k)
	b := Encode(payload, mono24k)
	if !bytes.Equal(a, b) {
		t.Fatal("Encode is not deterministic")
	}

	var buf bytes.Buffer
	n, err := WriteTo(&buf, payload, mono24k)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(a)) {
		t.Errorf("WriteTo n = %d, want %d", n, len(a))
	}
	if !bytes.Equal(buf.Bytes(), a) {
		t.Error("WriteTo output differs from Encode")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	got, h, err := Payload(Encode(payload, mono24k))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload = %v, want %v", got, payload)
	}
	if h != mono24k {
		t.Errorf("header = %+v, want %+v", h, mono24k)
	}
}

func TestPayloadMalformed(t *testing.T) {
	good := Encode([]byte{1, 2, 3, 4}, mono24k)

	mutate := func(f func(b []byte)) []byte {
		b := bytes.Clone(good)
		f(b)
		return b
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"short", good[:20]},
		{"no riff", mutate(func(b []byte) { copy(b[0:4], "RIFX") })},
		{"no wave", mutate(func(b []byte) { copy(b[8:12], "AVI ") })},
		{"no data chunk", mutate(func(b []byte) { copy(b[36:40], "LIST") })},
		{"float format", mutate(func(b []byte) { binary.LittleEndian.PutUint16(b[20:22], 3) })},
		{"truncated data", good[:len(good)-1]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Payload(tt.data); !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestProbe(t *testing.T) {
	payload := make([]byte, 48000) // one second at 24 kHz mono 16-bit
	info, err := Probe(bytes.NewReader(Encode(payload, mono24k)))
	if err != nil {
		t.Fatal(err)
	}
	if info.AudioFormat != 1 {
		t.Errorf("AudioFormat = %d, want 1", info.AudioFormat)
	}
	if info.Channels != 1 {
		t.Errorf("Channels = %d, want 1", info.Channels)
	}
	if info.SampleRate != 24000 {
		t.Errorf("SampleRate = %d, want 24000", info.SampleRate)
	}
	if info.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", info.BitDepth)
	}
	if info.ByteRate != 48000 {
		t.Errorf("ByteRate = %d, want 48000", info.ByteRate)
	}
}

func TestProbeInvalid(t *testing.T) {
	if _, err := Probe(bytes.NewReader([]byte("definitely not a wave file, but long enough"))); err == nil {
		t.Fatal("expected error")
	}
}
