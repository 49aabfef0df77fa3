package flowtts

import (
	"errors"
	"fmt"
)

// Error represents a Tencent Cloud API error returned in place of the event
// stream.
type Error struct {
	// Code is the API error code, e.g. "AuthFailure.SignatureFailure".
	Code string `json:"Code"`

	// Message is the error message.
	Message string `json:"Message"`

	// RequestID is the request ID for debugging.
	RequestID string `json:"-"`

	// HTTPStatus is the HTTP status code.
	HTTPStatus int `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("flowtts: %s: %s (request=%s, http_status=%d)", e.Code, e.Message, e.RequestID, e.HTTPStatus)
}

// AsError extracts *Error from an error.
//
// Example:
//
//	if e, ok := flowtts.AsError(err); ok {
//	    log.Println(e.Code)
//	}
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// apiResponse is the envelope the API uses for non-streaming replies.
type apiResponse struct {
	Response struct {
		Error     *Error `json:"Error,omitempty"`
		RequestID string `json:"RequestId"`
	} `json:"Response"`
}
