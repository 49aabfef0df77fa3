package pcm

import (
	"testing"
	"time"
)

func TestFormatForRate(t *testing.T) {
	tests := []struct {
		rate    int
		want    Format
		wantErr bool
	}{
		{16000, L16Mono16K, false},
		{24000, L16Mono24K, false},
		{48000, 0, true},
		{0, 0, true},
	}
	for _, tt := range tests {
		got, err := FormatForRate(tt.rate)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatForRate(%d) error = %v, wantErr %v", tt.rate, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("FormatForRate(%d) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}

func TestFormatParameters(t *testing.T) {
	f := L16Mono24K
	if f.SampleRate() != 24000 {
		t.Errorf("SampleRate = %d, want 24000", f.SampleRate())
	}
	if f.Channels() != 1 {
		t.Errorf("Channels = %d, want 1", f.Channels())
	}
	if f.SampleWidth() != 2 {
		t.Errorf("SampleWidth = %d, want 2", f.SampleWidth())
	}
	if f.BytesRate() != 48000 {
		t.Errorf("BytesRate = %d, want 48000", f.BytesRate())
	}
}

func TestFormatDuration(t *testing.T) {
	if got := L16Mono16K.Duration(32000); got != time.Second {
		t.Errorf("Duration(32000) = %v, want 1s", got)
	}
	if got := L16Mono24K.BytesInDuration(20 * time.Millisecond); got != 960 {
		t.Errorf("BytesInDuration(20ms) = %d, want 960", got)
	}
}
