package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
)

// ErrorKind is the coarse classification of a failed fetch.
type ErrorKind string

const (
	KindNetwork            ErrorKind = "NETWORK_ERROR"
	KindAuth               ErrorKind = "AUTH_ERROR"
	KindPermission         ErrorKind = "PERMISSION_ERROR"
	KindNotFound           ErrorKind = "NOT_FOUND_ERROR"
	KindRateLimit          ErrorKind = "RATE_LIMIT_ERROR"
	KindServiceUnavailable ErrorKind = "SERVICE_UNAVAILABLE"
	KindGeneric            ErrorKind = "GENERIC_ERROR"
)

// ClassifiedError is the single error type surfaced by the API client.
// It is built once per failed call and never mutated afterwards.
type ClassifiedError struct {
	Message      string          `json:"message"`
	Kind         ErrorKind       `json:"kind"`
	HTTPStatus   int             `json:"http_status"`
	Retryable    bool            `json:"retryable"`
	HealthStatus json.RawMessage `json:"health_status,omitempty"`
}

func (e *ClassifiedError) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// errorBody is the error envelope the reporting endpoint may return.
type errorBody struct {
	Code         string          `json:"code"`
	Message      string          `json:"message"`
	Retryable    *bool           `json:"retryable"`
	HealthStatus json.RawMessage `json:"health_status"`
}

// ClassifyTransport maps a transport-level failure (connection reset, DNS,
// timeout) to a retryable NETWORK_ERROR with status 0.
func ClassifyTransport(err error) *ClassifiedError {
	return &ClassifiedError{
		Message:    err.Error(),
		Kind:       KindNetwork,
		HTTPStatus: 0,
		Retryable:  true,
	}
}

// ClassifyResponse maps a non-2xx HTTP response to exactly one
// ClassifiedError. The precedence is a hard contract: explicit status
// rules first, then the server-supplied error envelope, then the generic
// fallback. A 404 carrying a generic error code is still NOT_FOUND_ERROR.
func ClassifyResponse(status int, body []byte) *ClassifiedError {
	var envelope errorBody
	_ = json.Unmarshal(body, &envelope)

	msg := envelope.Message
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized:
		return &ClassifiedError{Message: msg, Kind: KindAuth, HTTPStatus: status, Retryable: true}
	case http.StatusForbidden:
		return &ClassifiedError{Message: msg, Kind: KindPermission, HTTPStatus: status, Retryable: false}
	case http.StatusNotFound:
		return &ClassifiedError{Message: msg, Kind: KindNotFound, HTTPStatus: status, Retryable: false}
	case http.StatusTooManyRequests:
		return &ClassifiedError{Message: msg, Kind: KindRateLimit, HTTPStatus: status, Retryable: true}
	case http.StatusServiceUnavailable:
		return &ClassifiedError{
			Message:      msg,
			Kind:         KindServiceUnavailable,
			HTTPStatus:   status,
			Retryable:    true,
			HealthStatus: envelope.HealthStatus,
		}
	}

	// Server-supplied classification is trusted over the generic mapping.
	if envelope.Code != "" {
		retryable := true
		if envelope.Retryable != nil {
			retryable = *envelope.Retryable
		}
		return &ClassifiedError{
			Message:      msg,
			Kind:         ErrorKind(envelope.Code),
			HTTPStatus:   status,
			Retryable:    retryable,
			HealthStatus: envelope.HealthStatus,
		}
	}

	return &ClassifiedError{Message: msg, Kind: KindGeneric, HTTPStatus: status, Retryable: true}
}

// Classify normalizes any error into a ClassifiedError. Already-classified
// errors pass through untouched; everything else is treated per its
// transport characteristics.
func Classify(err error) *ClassifiedError {
	var cerr *ClassifiedError
	if errors.As(err, &cerr) {
		return cerr
	}

	if isTransportError(err) {
		return ClassifyTransport(err)
	}

	return &ClassifiedError{Message: err.Error(), Kind: KindGeneric, Retryable: true}
}

func isTransportError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	s := strings.ToLower(err.Error())
	return strings.Contains(s, "connection reset") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "broken pipe") ||
		strings.Contains(s, "timeout") ||
		strings.Contains(s, "eof")
}
