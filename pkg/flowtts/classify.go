package flowtts

import (
	"errors"
	"regexp"
	"strings"
)

// ErrorKind is the closed set of failures reported to callers.
type ErrorKind int

const (
	// KindValidation means the request was rejected before any call was made.
	KindValidation ErrorKind = iota
	KindAuthFailure
	KindInvalidParameter
	KindRateLimited
	KindEmptyAudio
	KindUnknownUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAuthFailure:
		return "AuthFailure"
	case KindInvalidParameter:
		return "InvalidParameter"
	case KindRateLimited:
		return "RateLimited"
	case KindEmptyAudio:
		return "EmptyAudio"
	case KindUnknownUpstream:
		return "UnknownUpstreamError"
	}
	return "ErrorKind(?)"
}

// Messages for kinds whose text does not depend on the fault.
const (
	msgAuthFailure = "Authentication failed. Please check your SecretId, SecretKey, and SdkAppId."
	msgRateLimited = "Rate limit exceeded. Please try again later."
	msgEmptyAudio  = "No audio data received from upstream API. Please check your credentials and parameters."
)

// SynthesisError is a classified failure. Its message never contains
// credential material; the raw cause is only reachable through Unwrap.
type SynthesisError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *SynthesisError) Error() string {
	return e.Message
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// AsSynthesisError extracts *SynthesisError from an error.
func AsSynthesisError(err error) (*SynthesisError, bool) {
	var e *SynthesisError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func newValidationError(msg string) *SynthesisError {
	return &SynthesisError{Kind: KindValidation, Message: msg}
}

func errNilRequest() *SynthesisError {
	return newValidationError("Request cannot be nil")
}

func newEmptyAudioError() *SynthesisError {
	return &SynthesisError{Kind: KindEmptyAudio, Message: msgEmptyAudio}
}

// Fault is an opaque upstream fault signal.
type Fault struct {
	Code    string
	Message string
	Err     error
}

// FaultFromError builds a Fault from any error. API errors contribute their
// code and message; everything else contributes err.Error().
func FaultFromError(err error) Fault {
	if e, ok := AsError(err); ok {
		return Fault{Code: e.Code, Message: e.Message, Err: err}
	}
	return Fault{Message: err.Error(), Err: err}
}

func (f Fault) text() string {
	if f.Code == "" {
		return f.Message
	}
	if f.Message == "" {
		return f.Code
	}
	return f.Code + ": " + f.Message
}

// marker binds a substring found in a fault to a kind. The first match wins.
type marker struct {
	needle string
	kind   ErrorKind
}

var markers = []marker{
	{"AuthFailure", KindAuthFailure},
	{"InvalidParameter", KindInvalidParameter},
	{"RequestLimitExceeded", KindRateLimited},
}

const redacted = "[REDACTED]"

var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`AKID[0-9A-Za-z]{13,}`),
	regexp.MustCompile(`(?i)(Signature=)[0-9a-f]+`),
	regexp.MustCompile(`(?i)(Credential=)[^,\s]+`),
	regexp.MustCompile(`(?i)(Authorization:\s*)[^\r\n]+`),
	regexp.MustCompile(`(?i)(secret_?(?:id|key)["']?\s*[=:]\s*["']?)[^\s,"'&}]+`),
}

// Classifier maps upstream faults to ErrorKinds with sanitized messages.
type Classifier struct {
	secrets []string
}

// NewClassifier creates a Classifier that additionally redacts the given
// secret values wherever they appear.
func NewClassifier(secrets ...string) *Classifier {
	c := &Classifier{}
	for _, s := range secrets {
		if s != "" {
			c.secrets = append(c.secrets, s)
		}
	}
	return c
}

// Classify maps a fault to a SynthesisError. It is a pure function of the
// fault and the classifier's secrets.
func (c *Classifier) Classify(f Fault) *SynthesisError {
	text := f.text()
	kind := KindUnknownUpstream
	for _, m := range markers {
		if strings.Contains(text, m.needle) {
			kind = m.kind
			break
		}
	}

	e := &SynthesisError{Kind: kind, Err: f.Err}
	switch kind {
	case KindAuthFailure:
		e.Message = msgAuthFailure
	case KindInvalidParameter:
		e.Message = "Invalid parameter: " + c.Sanitize(text)
	case KindRateLimited:
		e.Message = msgRateLimited
	default:
		e.Message = "TTS API error: " + c.Sanitize(text)
	}
	return e
}

// ClassifyError classifies err unless it is already a SynthesisError.
func (c *Classifier) ClassifyError(err error) *SynthesisError {
	if err == nil {
		return nil
	}
	if e, ok := AsSynthesisError(err); ok {
		return e
	}
	return c.Classify(FaultFromError(err))
}

// Sanitize removes secrets and credential-shaped substrings from s.
func (c *Classifier) Sanitize(s string) string {
	for _, secret := range c.secrets {
		s = strings.ReplaceAll(s, secret, redacted)
	}
	for _, re := range credentialPatterns {
		if re.NumSubexp() > 0 {
			s = re.ReplaceAllString(s, "${1}"+redacted)
		} else {
			s = re.ReplaceAllString(s, redacted)
		}
	}
	return s
}
