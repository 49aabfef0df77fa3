package flowtts

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
)

// EventSource is a pull-based stream of StreamEvents. *EventReader
// implements it.
type EventSource interface {
	Next() (StreamEvent, error)
	Close() error
}

// AggregatedAudio is the ordered audio payload of one stream.
type AggregatedAudio struct {
	// Payload is the concatenation of all audio frames in arrival order.
	Payload []byte

	// Frames is the number of frames that contributed to Payload.
	Frames int

	// Skipped is the number of unparseable events that were dropped.
	Skipped int

	// Explicit reports whether the stream ended with an end event rather
	// than by running out of data.
	Explicit bool
}

// Aggregate consumes src until an end event or exhaustion and returns the
// accumulated audio. src is closed exactly once before Aggregate returns.
//
// Transport errors and context cancellation are returned unclassified; an
// empty payload is reported as a KindEmptyAudio SynthesisError.
func Aggregate(ctx context.Context, src EventSource) (*AggregatedAudio, error) {
	defer src.Close()

	var (
		buf bytes.Buffer
		out AggregatedAudio
	)

loop:
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ev, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		switch ev.Kind {
		case EventAudio:
			buf.Write(ev.Audio)
			out.Frames++
		case EventEnd:
			if len(ev.Audio) > 0 {
				buf.Write(ev.Audio)
				out.Frames++
			}
			out.Explicit = true
			break loop
		case EventUnparseable:
			out.Skipped++
		}
	}

	if !out.Explicit {
		slog.Warn("FlowTTS stream ended without end event", "frames", out.Frames, "bytes", buf.Len())
	}
	if buf.Len() == 0 {
		return nil, newEmptyAudioError()
	}

	out.Payload = buf.Bytes()
	return &out, nil
}
