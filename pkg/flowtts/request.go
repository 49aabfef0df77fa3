package flowtts

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Request defaults.
const (
	DefaultVoiceID    = "v-female-R2s4N9qJ"
	DefaultLanguage   = "zh"
	DefaultSampleRate = 24000
)

// Languages lists the accepted language codes.
var Languages = []string{"zh", "en", "yue", "ja", "ko", "auto"}

// SampleRates lists the accepted output sample rates.
var SampleRates = []int{16000, 24000}

// SynthesizeRequest is a text-to-speech request.
type SynthesizeRequest struct {
	// Text is the text to synthesize.
	Text string `json:"text" yaml:"text" jsonschema:"text to synthesize"`

	// VoiceID is the voice identifier.
	VoiceID string `json:"voice_id,omitempty" yaml:"voice_id,omitempty" jsonschema:"voice ID, e.g. v-female-R2s4N9qJ"`

	// Speed is the speech speed multiplier in [0.5, 2.0]. Nil means 1.0.
	Speed *float64 `json:"speed,omitempty" yaml:"speed,omitempty" jsonschema:"speech speed in [0.5, 2.0]"`

	// Volume is in [0, 10].
	Volume *float64 `json:"volume,omitempty" yaml:"volume,omitempty" jsonschema:"volume in [0, 10]"`

	// Pitch is the adjustment in semitones, [-12, 12].
	Pitch int `json:"pitch,omitempty" yaml:"pitch,omitempty" jsonschema:"pitch adjustment in semitones, [-12, 12]"`

	// Language is one of zh, en, yue, ja, ko, auto.
	Language string `json:"language,omitempty" yaml:"language,omitempty" jsonschema:"language: zh, en, yue, ja, ko or auto"`

	// SampleRate is 16000 or 24000.
	SampleRate int `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty" jsonschema:"output sample rate: 16000 or 24000"`

	// TimeoutSeconds bounds the whole request, [10, 300].
	TimeoutSeconds int `json:"timeout,omitempty" yaml:"timeout,omitempty" jsonschema:"request timeout in seconds, [10, 300]"`
}

// WithDefaults returns a copy of r with zero fields set to their defaults.
func (r SynthesizeRequest) WithDefaults() SynthesizeRequest {
	if r.VoiceID == "" {
		r.VoiceID = DefaultVoiceID
	}
	if r.Speed == nil {
		s := 1.0
		r.Speed = &s
	}
	if r.Volume == nil {
		v := 1.0
		r.Volume = &v
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	if r.SampleRate == 0 {
		r.SampleRate = DefaultSampleRate
	}
	if r.TimeoutSeconds == 0 {
		r.TimeoutSeconds = int(DefaultTimeout / time.Second)
	}
	return r
}

// Timeout returns the request timeout as a duration.
func (r SynthesizeRequest) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Validate checks r, with defaults applied, against the provider's limits.
// Failures are KindValidation SynthesisErrors.
func (r SynthesizeRequest) Validate(maxTextLength int) error {
	r = r.WithDefaults()

	text := strings.TrimSpace(r.Text)
	if text == "" {
		return newValidationError("Text cannot be empty")
	}
	if n := utf8.RuneCountInString(r.Text); n > maxTextLength {
		return newValidationError(fmt.Sprintf("Text too long: %d characters (max %d)", n, maxTextLength))
	}
	if *r.Speed < 0.5 || *r.Speed > 2.0 {
		return newValidationError(fmt.Sprintf("Speed %v out of range [0.5, 2.0]", *r.Speed))
	}
	if *r.Volume < 0 || *r.Volume > 10 {
		return newValidationError(fmt.Sprintf("Volume %v out of range [0, 10]", *r.Volume))
	}
	if r.Pitch < -12 || r.Pitch > 12 {
		return newValidationError(fmt.Sprintf("Pitch %d out of range [-12, 12]", r.Pitch))
	}
	if !slices.Contains(Languages, r.Language) {
		return newValidationError(fmt.Sprintf("Language %q must be one of %s", r.Language, strings.Join(Languages, ", ")))
	}
	if !slices.Contains(SampleRates, r.SampleRate) {
		return newValidationError(fmt.Sprintf("Sample rate %d must be 16000 or 24000", r.SampleRate))
	}
	if r.TimeoutSeconds < 10 || r.TimeoutSeconds > 300 {
		return newValidationError(fmt.Sprintf("Timeout %ds out of range [10, 300]", r.TimeoutSeconds))
	}
	return nil
}

// apiVoice is the Voice object of the API request.
type apiVoice struct {
	VoiceID  string  `json:"VoiceId"`
	Speed    float64 `json:"Speed"`
	Volume   float64 `json:"Volume"`
	Pitch    int     `json:"Pitch"`
	Language string  `json:"Language"`
}

type apiAudioFormat struct {
	Format     string `json:"Format"`
	SampleRate int    `json:"SampleRate"`
}

// apiRequest is the TextToSpeechSSE request body.
type apiRequest struct {
	Model       string         `json:"Model"`
	Text        string         `json:"Text"`
	Voice       apiVoice       `json:"Voice"`
	AudioFormat apiAudioFormat `json:"AudioFormat"`
	SdkAppID    int64          `json:"SdkAppId"`
}

// apiRequest builds the wire request. r must already have defaults applied.
func (c *Client) apiRequest(r SynthesizeRequest) apiRequest {
	return apiRequest{
		Model: c.config.Model,
		Text:  strings.TrimSpace(r.Text),
		Voice: apiVoice{
			VoiceID:  r.VoiceID,
			Speed:    *r.Speed,
			Volume:   *r.Volume,
			Pitch:    r.Pitch,
			Language: r.Language,
		},
		AudioFormat: apiAudioFormat{
			Format:     "pcm",
			SampleRate: r.SampleRate,
		},
		SdkAppID: c.creds.SdkAppID,
	}
}
