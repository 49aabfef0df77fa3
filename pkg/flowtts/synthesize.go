package flowtts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/haivivi/flowtts/pkg/audio/pcm"
	"github.com/haivivi/flowtts/pkg/audio/wav"
	"github.com/haivivi/flowtts/pkg/storage"
)

// Result is a completed synthesis.
type Result struct {
	// Audio is the WAV container.
	Audio []byte

	// Format is the PCM format of the payload.
	Format pcm.Format

	// PCMBytes is the payload length without the container header.
	PCMBytes int

	// Frames is the number of audio frames received.
	Frames int

	// Skipped is the number of events that could not be decoded.
	Skipped int

	// Explicit reports whether the stream carried an end event.
	Explicit bool

	// Duration is the playback duration of the audio.
	Duration time.Duration
}

// Stream validates req, opens the event stream and returns a reader over
// it. The caller must Close the reader. Errors are not classified.
func (c *Client) Stream(ctx context.Context, req *SynthesizeRequest) (*EventReader, error) {
	if req == nil {
		return nil, errNilRequest()
	}
	r := req.WithDefaults()
	if err := r.Validate(c.config.MaxTextLength); err != nil {
		return nil, err
	}

	slog.Debug("FlowTTS stream starting", "model", c.config.Model, "text_len", len(r.Text), "sample_rate", r.SampleRate)

	resp, err := c.requestStream(ctx, actionTextToSpeechSSE, c.apiRequest(r))
	if err != nil {
		slog.Debug("FlowTTS stream request error", "err", err)
		return nil, err
	}
	return NewEventReader(newSSESource(resp)), nil
}

// Synthesize runs one request end to end and returns the WAV container.
//
// Every failure is a *SynthesisError with a message that is safe to show.
// The request timeout bounds the whole call.
func (c *Client) Synthesize(ctx context.Context, req *SynthesizeRequest) (*Result, error) {
	if req == nil {
		return nil, errNilRequest()
	}
	r := req.WithDefaults()
	if err := r.Validate(c.config.MaxTextLength); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout())
	defer cancel()

	reader, err := c.Stream(ctx, &r)
	if err != nil {
		return nil, c.classifier.ClassifyError(err)
	}

	audio, err := Aggregate(ctx, reader)
	if err != nil {
		return nil, c.classifier.ClassifyError(err)
	}

	format, err := pcm.FormatForRate(r.SampleRate)
	if err != nil {
		return nil, newValidationError(err.Error())
	}

	res := &Result{
		Audio:    wav.Encode(audio.Payload, wav.HeaderFor(format)),
		Format:   format,
		PCMBytes: len(audio.Payload),
		Frames:   audio.Frames,
		Skipped:  audio.Skipped,
		Explicit: audio.Explicit,
		Duration: format.Duration(int64(len(audio.Payload))),
	}
	slog.Debug("FlowTTS synthesis done", "frames", res.Frames, "skipped", res.Skipped, "pcm_bytes", res.PCMBytes, "explicit_end", res.Explicit)
	return res, nil
}

// SynthesizeTo synthesizes req and stores the container at path in store.
// Nothing is written unless synthesis succeeded.
func (c *Client) SynthesizeTo(ctx context.Context, req *SynthesizeRequest, store storage.FileStore, path string) (*Result, error) {
	res, err := c.Synthesize(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := store.Put(ctx, path, res.Audio); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return res, nil
}
