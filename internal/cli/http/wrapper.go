package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Envelope mirrors the API response body.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details json.RawMessage `json:"details"`
	TraceID string          `json:"trace_id"`
}

// ResponseWrapper is the uniform result of every typed call: the decoded
// payload on success, or Error set with the raw response kept for messages.
type ResponseWrapper[T any] struct {
	Response     T
	Error        bool
	HTTPResponse *ResponseInfo
	Envelope     *Envelope
}

const (
	messageNotFound     = "Resource not found."
	messageUnauthorized = "You must be logged in to perform this operation."
	messageForbidden    = "You do not have permission to perform this operation."
	messageUnexpected   = "An unexpected error has occurred."
)

func wrap[T any](info ResponseInfo) (*ResponseWrapper[T], error) {
	wrapper := &ResponseWrapper[T]{
		HTTPResponse: &info,
		Error:        info.StatusCode < 200 || info.StatusCode >= 300,
	}

	var envelope Envelope
	if len(info.Body) > 0 && json.Unmarshal(info.Body, &envelope) == nil {
		wrapper.Envelope = &envelope
	}
	if wrapper.Error {
		return wrapper, nil
	}
	if wrapper.Envelope == nil {
		if len(info.Body) == 0 {
			return wrapper, nil
		}
		return nil, fmt.Errorf("decode response failed: body is not a JSON envelope")
	}
	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, &wrapper.Response); err != nil {
			return nil, fmt.Errorf("decode response data failed: %w", err)
		}
	}
	return wrapper, nil
}

// StatusCode returns the HTTP status, or 0 when there was no response.
func (w *ResponseWrapper[T]) StatusCode() int {
	if w == nil || w.HTTPResponse == nil {
		return 0
	}
	return w.HTTPResponse.StatusCode
}

// ErrorMessage turns a failed response into text for the user.
func (w *ResponseWrapper[T]) ErrorMessage() string {
	switch w.StatusCode() {
	case http.StatusNotFound:
		return messageNotFound
	case http.StatusBadRequest:
		if w.Envelope != nil && w.Envelope.Message != "" {
			return w.Envelope.Message
		}
		return strings.TrimSpace(string(w.HTTPResponse.Body))
	case http.StatusUnauthorized:
		return messageUnauthorized
	case http.StatusForbidden:
		return messageForbidden
	default:
		return messageUnexpected
	}
}

// TraceID returns the server trace id of the response, if any.
func (w *ResponseWrapper[T]) TraceID() string {
	if w == nil {
		return ""
	}
	if w.Envelope != nil && w.Envelope.TraceID != "" {
		return w.Envelope.TraceID
	}
	if w.HTTPResponse != nil && w.HTTPResponse.Headers != nil {
		return w.HTTPResponse.Headers.Get("X-Trace-Id")
	}
	return ""
}
