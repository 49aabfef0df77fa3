package flowtts

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	actionTextToSpeechSSE = "TextToSpeechSSE"
	apiVersion            = "2019-07-22"
)

// requestStream signs and posts an action and returns the open response when
// the server answered with an event stream.
func (c *Client) requestStream(ctx context.Context, action string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("User-Agent", "flowtts-go/1.0")
	req.Header.Set("X-TC-Action", action)
	req.Header.Set("X-TC-Version", apiVersion)
	req.Header.Set("X-TC-Region", c.config.Region)
	c.signer().sign(req, action, data, c.now())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !strings.Contains(resp.Header.Get("Content-Type"), "event-stream") {
		defer resp.Body.Close()
		return nil, handleErrorResponse(resp)
	}

	return resp, nil
}

// handleErrorResponse turns a non-streaming reply into an error.
func handleErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error response: %w", err)
	}
	return parseError(body, resp.StatusCode)
}

// parseError parses an error response body.
func parseError(body []byte, httpStatus int) error {
	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Response.Error != nil {
		e := *apiResp.Response.Error
		e.RequestID = apiResp.Response.RequestID
		e.HTTPStatus = httpStatus
		return &e
	}

	if httpStatus == http.StatusOK {
		// A 200 reply that is not an event stream and carries no error.
		return &Error{
			Code:       "InternalError.UnexpectedResponse",
			Message:    "response is not an event stream",
			HTTPStatus: httpStatus,
		}
	}

	return &Error{
		Code:       http.StatusText(httpStatus),
		Message:    strings.TrimSpace(string(body)),
		HTTPStatus: httpStatus,
	}
}

// sseSource reads Server-Sent Events from a response body. Each event block
// becomes one RawItem.
type sseSource struct {
	reader *bufio.Reader
	body   io.Closer
}

func newSSESource(resp *http.Response) *sseSource {
	return &sseSource{
		reader: bufio.NewReader(resp.Body),
		body:   resp.Body,
	}
}

// Next reads the next event block. Multiple data lines of one block are
// joined with '\n'. A trailing block without a blank line is still
// delivered before io.EOF.
func (s *sseSource) Next() (RawItem, error) {
	var (
		data    []byte
		hasData bool
		inBlock bool
	)

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return RawItem{}, err
		}
		eof := err == io.EOF

		line = bytes.TrimRight(line, "\r\n")
		switch {
		case len(line) == 0:
			if inBlock {
				return RawItem{Data: data, HasData: hasData}, nil
			}
		case line[0] == ':':
			// comment
		default:
			inBlock = true
			field, value, _ := bytes.Cut(line, []byte(":"))
			if string(field) == "data" {
				value = bytes.TrimPrefix(value, []byte(" "))
				if hasData {
					data = append(data, '\n')
				}
				data = append(data, value...)
				hasData = true
			}
		}

		if eof {
			if inBlock {
				return RawItem{Data: data, HasData: hasData}, nil
			}
			return RawItem{}, io.EOF
		}
	}
}

// Close closes the response body.
func (s *sseSource) Close() error {
	return s.body.Close()
}
