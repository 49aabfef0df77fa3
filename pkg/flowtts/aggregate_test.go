package flowtts

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/haivivi/flowtts/pkg/audio/pcm"
	"github.com/haivivi/flowtts/pkg/audio/wav"
)

// sliceEvents is an EventSource over a fixed list of events.
type sliceEvents struct {
	events []StreamEvent
	err    error
	pulled int
	closed int
}

func (s *sliceEvents) Next() (StreamEvent, error) {
	if s.pulled >= len(s.events) {
		if s.err != nil {
			return StreamEvent{}, s.err
		}
		return StreamEvent{}, io.EOF
	}
	ev := s.events[s.pulled]
	s.pulled++
	return ev, nil
}

func (s *sliceEvents) Close() error {
	s.closed++
	return nil
}

func audio(b string) StreamEvent { return StreamEvent{Kind: EventAudio, Audio: []byte(b)} }

var (
	end         = StreamEvent{Kind: EventEnd}
	unparseable = StreamEvent{Kind: EventUnparseable}
	meta        = StreamEvent{Kind: EventMeta}
)

func TestAggregateOrdered(t *testing.T) {
	src := &sliceEvents{events: []StreamEvent{audio("AB"), audio("CD"), end}}
	got, err := Aggregate(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.Payload) != "ABCD" {
		t.Fatalf("Payload = %q, want ABCD", got.Payload)
	}
	if got.Frames != 2 || !got.Explicit {
		t.Fatalf("Frames = %d, Explicit = %v", got.Frames, got.Explicit)
	}
	if src.closed != 1 {
		t.Fatalf("closed %d times, want 1", src.closed)
	}
}

func TestAggregateSkipsUnparseable(t *testing.T) {
	src := &sliceEvents{events: []StreamEvent{audio("AB"), unparseable, meta, audio("CD"), unparseable, end}}
	got, err := Aggregate(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.Payload) != "ABCD" {
		t.Fatalf("Payload = %q, want ABCD", got.Payload)
	}
	if got.Skipped != 2 {
		t.Fatalf("Skipped = %d, want 2", got.Skipped)
	}
}

func TestAggregateIgnoresAfterEnd(t *testing.T) {
	src := &sliceEvents{events: []StreamEvent{audio("AB"), end, audio("XX")}}
	got, err := Aggregate(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.Payload) != "AB" {
		t.Fatalf("Payload = %q, want AB", got.Payload)
	}
	if src.pulled != 2 {
		t.Fatalf("pulled %d events, want 2", src.pulled)
	}
}

func TestAggregateEndWithAudio(t *testing.T) {
	src := &sliceEvents{events: []StreamEvent{audio("AB"), {Kind: EventEnd, Audio: []byte("CD")}}}
	got, err := Aggregate(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.Payload) != "ABCD" || got.Frames != 2 {
		t.Fatalf("Payload = %q, Frames = %d", got.Payload, got.Frames)
	}
}

func TestAggregateImplicitEnd(t *testing.T) {
	src := &sliceEvents{events: []StreamEvent{audio("AB"), audio("CD")}}
	got, err := Aggregate(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.Payload) != "ABCD" {
		t.Fatalf("Payload = %q, want ABCD", got.Payload)
	}
	if got.Explicit {
		t.Fatal("Explicit = true for exhausted stream")
	}
	if src.closed != 1 {
		t.Fatalf("closed %d times, want 1", src.closed)
	}
}

func TestAggregateEmpty(t *testing.T) {
	tests := []struct {
		name   string
		events []StreamEvent
	}{
		{"no events", nil},
		{"only end", []StreamEvent{end}},
		{"only garbage", []StreamEvent{unparseable, meta, unparseable}},
		{"audio after end", []StreamEvent{end, audio("AB")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &sliceEvents{events: tt.events}
			_, err := Aggregate(context.Background(), src)
			se, ok := AsSynthesisError(err)
			if !ok || se.Kind != KindEmptyAudio {
				t.Fatalf("err = %v, want EmptyAudio", err)
			}
			if src.closed != 1 {
				t.Fatalf("closed %d times, want 1", src.closed)
			}
		})
	}
}

func TestAggregateTransportError(t *testing.T) {
	boom := errors.New("unexpected EOF")
	src := &sliceEvents{events: []StreamEvent{audio("AB")}, err: boom}
	_, err := Aggregate(context.Background(), src)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if src.closed != 1 {
		t.Fatalf("closed %d times, want 1", src.closed)
	}
}

func TestAggregateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &sliceEvents{events: []StreamEvent{audio("AB"), end}}
	_, err := Aggregate(ctx, src)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if src.pulled != 0 {
		t.Fatalf("pulled %d events after cancel", src.pulled)
	}
	if src.closed != 1 {
		t.Fatalf("closed %d times, want 1", src.closed)
	}
}

func TestAggregateThenEncode(t *testing.T) {
	src := &sliceEvents{events: []StreamEvent{audio("\x01\x02\x03\x04"), audio("\x05\x06\x07\x08"), end}}
	got, err := Aggregate(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	out := wav.Encode(got.Payload, wav.HeaderFor(pcm.L16Mono24K))
	if len(out) != 52 {
		t.Fatalf("len = %d, want 52", len(out))
	}
	if size := binary.LittleEndian.Uint32(out[4:8]); size != 44 {
		t.Fatalf("riff size = %d, want 44", size)
	}
	if size := binary.LittleEndian.Uint32(out[40:44]); size != 8 {
		t.Fatalf("data size = %d, want 8", size)
	}
	if !bytes.Equal(out[44:], []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Fatalf("payload = %x", out[44:])
	}
}
