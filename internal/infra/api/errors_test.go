package api

import (
	"errors"
	"testing"
)

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantKind  ErrorKind
		retryable bool
	}{
		{"unauthorized", 401, `{}`, KindAuth, true},
		{"forbidden", 403, `{}`, KindPermission, false},
		{"not found", 404, `{}`, KindNotFound, false},
		{"rate limited", 429, `{}`, KindRateLimit, true},
		{"unavailable", 503, `{"health_status":{"db":"down"}}`, KindServiceUnavailable, true},
		{"server envelope", 500, `{"code":"QUOTA_EXCEEDED","message":"out of quota","retryable":false}`, ErrorKind("QUOTA_EXCEEDED"), false},
		{"server envelope retryable default", 500, `{"code":"FLAKY","message":"try later"}`, ErrorKind("FLAKY"), true},
		{"generic fallback", 500, `oops`, KindGeneric, true},
		{"empty body", 502, ``, KindGeneric, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyResponse(tt.status, []byte(tt.body))
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", got.Kind, tt.wantKind)
			}
			if got.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.retryable)
			}
			if got.HTTPStatus != tt.status {
				t.Errorf("HTTPStatus = %d, want %d", got.HTTPStatus, tt.status)
			}
		})
	}
}

// A 404 carrying a server error envelope must still classify as
// NOT_FOUND_ERROR: explicit status rules take precedence.
func TestClassifyResponsePrecedence(t *testing.T) {
	got := ClassifyResponse(404, []byte(`{"code":"GENERIC_ERROR","message":"boom","retryable":true}`))
	if got.Kind != KindNotFound {
		t.Errorf("Kind = %s, want %s", got.Kind, KindNotFound)
	}
	if got.Retryable {
		t.Error("404 must not be retryable regardless of envelope")
	}
}

func TestClassifyResponseHealthPayload(t *testing.T) {
	payload := `{"database":"degraded","queue_depth":42}`
	got := ClassifyResponse(503, []byte(`{"message":"maintenance","health_status":`+payload+`}`))
	if string(got.HealthStatus) != payload {
		t.Errorf("HealthStatus = %s, want %s", got.HealthStatus, payload)
	}
	if got.Message != "maintenance" {
		t.Errorf("Message = %q, want %q", got.Message, "maintenance")
	}
}

func TestClassifyTransport(t *testing.T) {
	got := ClassifyTransport(errors.New("dial tcp: connection refused"))
	if got.Kind != KindNetwork || !got.Retryable || got.HTTPStatus != 0 {
		t.Errorf("transport classification = %+v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err      error
		wantKind ErrorKind
	}{
		{errors.New("read tcp: connection reset by peer"), KindNetwork},
		{errors.New("lookup reporting.revlens.io: no such host"), KindNetwork},
		{errors.New("context deadline exceeded (Client.Timeout exceeded)"), KindNetwork},
		{errors.New("something odd"), KindGeneric},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got.Kind != tt.wantKind {
			t.Errorf("Classify(%q).Kind = %s, want %s", tt.err, got.Kind, tt.wantKind)
		}
	}

	// Pre-classified errors pass through untouched.
	pre := &ClassifiedError{Kind: KindPermission, HTTPStatus: 403}
	if got := Classify(pre); got != pre {
		t.Error("pre-classified error was rebuilt")
	}
}
