package flowtts

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"log/slog"
	"sync"
)

// EventKind tags a StreamEvent.
type EventKind int

const (
	// EventUnparseable is a raw item whose payload could not be decoded.
	EventUnparseable EventKind = iota
	// EventAudio carries one frame of raw PCM audio.
	EventAudio
	// EventEnd marks the end of the response.
	EventEnd
	// EventMeta is a well-formed event that carries neither audio nor the
	// end flag (subtitles, empty audio events and so on).
	EventMeta
)

func (k EventKind) String() string {
	switch k {
	case EventUnparseable:
		return "unparseable"
	case EventAudio:
		return "audio"
	case EventEnd:
		return "end"
	case EventMeta:
		return "meta"
	}
	return "unknown"
}

// StreamEvent is one decoded event of a synthesis stream.
//
// An EventEnd event may also carry Audio when the provider put the last frame
// and the end flag in the same object.
type StreamEvent struct {
	Kind  EventKind
	Audio []byte
}

// RawItem is one transport-level record of the event stream.
type RawItem struct {
	Data    []byte
	HasData bool
}

// RawSource yields raw transport items in arrival order.
//
// Next returns io.EOF once the transport is exhausted. Close releases the
// underlying connection.
type RawSource interface {
	Next() (RawItem, error)
	Close() error
}

// streamPayload is the schema of a single event payload.
type streamPayload struct {
	Type      string `json:"Type"`
	Audio     string `json:"Audio"`
	IsEnd     bool   `json:"IsEnd"`
	RequestID string `json:"RequestId,omitempty"`
}

// DecodeEvent converts a raw item into a StreamEvent. It never fails:
// anything that is not a decodable JSON object becomes EventUnparseable.
// An end flag is honored even when the audio beside it does not decode.
func DecodeEvent(item RawItem) StreamEvent {
	if !item.HasData {
		return StreamEvent{Kind: EventUnparseable}
	}

	// Only a JSON object is a payload; null, arrays and scalars are not.
	if data := bytes.TrimLeft(item.Data, " \t\r\n"); len(data) == 0 || data[0] != '{' {
		slog.Debug("FlowTTS SSE payload is not an object", "data_len", len(item.Data))
		return StreamEvent{Kind: EventUnparseable}
	}

	var p streamPayload
	if err := json.Unmarshal(item.Data, &p); err != nil {
		slog.Debug("FlowTTS SSE unmarshal error", "err", err, "data_len", len(item.Data))
		return StreamEvent{Kind: EventUnparseable}
	}

	var audio []byte
	if p.Type == "audio" && p.Audio != "" {
		b, err := base64.StdEncoding.DecodeString(p.Audio)
		if err != nil {
			slog.Debug("FlowTTS SSE audio decode error", "err", err, "is_end", p.IsEnd)
			// The end flag still holds; only the frame is lost.
			if p.IsEnd {
				return StreamEvent{Kind: EventEnd}
			}
			return StreamEvent{Kind: EventUnparseable}
		}
		audio = b
	}

	switch {
	case p.IsEnd:
		return StreamEvent{Kind: EventEnd, Audio: audio}
	case audio != nil:
		return StreamEvent{Kind: EventAudio, Audio: audio}
	default:
		return StreamEvent{Kind: EventMeta}
	}
}

// EventReader is a pull-based iterator of StreamEvents over a RawSource.
//
// The reader closes its source as soon as it emits an EventEnd; after that,
// and after the source is exhausted, Next returns io.EOF. Close is
// idempotent and releases the source at most once.
type EventReader struct {
	src  RawSource
	done bool

	closeOnce sync.Once
	closeErr  error
	count     int
}

// NewEventReader creates an EventReader reading from src.
func NewEventReader(src RawSource) *EventReader {
	return &EventReader{src: src}
}

// Next returns the next event. It returns io.EOF when the stream is
// complete, and any transport error as is.
func (r *EventReader) Next() (StreamEvent, error) {
	if r.done {
		return StreamEvent{}, io.EOF
	}

	item, err := r.src.Next()
	if err != nil {
		r.done = true
		if errors.Is(err, io.EOF) {
			slog.Debug("FlowTTS SSE exhausted", "events", r.count)
			return StreamEvent{}, io.EOF
		}
		slog.Debug("FlowTTS SSE read error", "err", err)
		return StreamEvent{}, err
	}

	r.count++
	ev := DecodeEvent(item)
	slog.Debug("FlowTTS SSE event", "count", r.count, "kind", ev.Kind, "audio_len", len(ev.Audio))

	if ev.Kind == EventEnd {
		r.done = true
		if err := r.Close(); err != nil {
			slog.Debug("FlowTTS SSE close error", "err", err)
		}
	}
	return ev, nil
}

// Events adapts the reader to a range loop. Breaking out of the loop closes
// the reader.
//
// Example:
//
//	for ev, err := range reader.Events() {
//	    if err != nil {
//	        return err
//	    }
//	    if ev.Kind == flowtts.EventAudio {
//	        buf.Write(ev.Audio)
//	    }
//	}
func (r *EventReader) Events() iter.Seq2[StreamEvent, error] {
	return func(yield func(StreamEvent, error) bool) {
		defer r.Close()
		for {
			ev, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(ev, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the underlying source. It is safe to call more than once.
func (r *EventReader) Close() error {
	r.closeOnce.Do(func() {
		r.done = true
		r.closeErr = r.src.Close()
	})
	return r.closeErr
}
