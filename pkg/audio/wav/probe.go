package wav

import (
	"errors"
	"fmt"
	"io"
	"time"

	gowav "github.com/go-audio/wav"
)

// Info describes a WAVE file as seen by an independent decoder.
type Info struct {
	AudioFormat int           `json:"audio_format" yaml:"audio_format"`
	Channels    int           `json:"channels" yaml:"channels"`
	SampleRate  int           `json:"sample_rate" yaml:"sample_rate"`
	BitDepth    int           `json:"bit_depth" yaml:"bit_depth"`
	ByteRate    int           `json:"byte_rate" yaml:"byte_rate"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// Probe reads the header of the WAVE file in r.
func Probe(r io.ReadSeeker) (*Info, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("wav: seek: %w", err)
	}

	d := gowav.NewDecoder(r)
	if !d.IsValidFile() {
		if err := d.Err(); err != nil {
			return nil, fmt.Errorf("wav: invalid file: %w", err)
		}
		return nil, errors.New("wav: invalid file")
	}

	info := &Info{
		AudioFormat: int(d.WavAudioFormat),
		Channels:    int(d.NumChans),
		SampleRate:  int(d.SampleRate),
		BitDepth:    int(d.BitDepth),
		ByteRate:    int(d.AvgBytesPerSec),
	}
	if dur, err := d.Duration(); err == nil {
		info.Duration = dur
	}
	return info, nil
}
