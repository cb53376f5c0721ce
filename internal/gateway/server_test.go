package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubProcessor struct {
	reply string
	err   error

	gotSession string
	gotUser    string
	gotMessage string
}

func (p *stubProcessor) Chat(_ context.Context, sessionID, userEmail, message string) (string, error) {
	p.gotSession = sessionID
	p.gotUser = userEmail
	p.gotMessage = message
	return p.reply, p.err
}

func TestHandler_Health(t *testing.T) {
	handler := NewHandler("", &stubProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected ok status, got %v", body["status"])
	}
}

func TestHandler_Version(t *testing.T) {
	handler := NewHandler("", &stubProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_ChatRequiresPost(t *testing.T) {
	handler := NewHandler("", &stubProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHandler_ChatRejectsBadToken(t *testing.T) {
	handler := NewHandler("secret", &stubProcessor{})

	body := `{"message": "hi", "user": "ana.petrov@acmecorp.com"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", rec.Code)
	}
}

func TestHandler_ChatValidatesBody(t *testing.T) {
	handler := NewHandler("", &stubProcessor{})

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", "{"},
		{"missing message", `{"user": "ana.petrov@acmecorp.com"}`},
		{"missing user", `{"message": "hi"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandler_ChatSuccess(t *testing.T) {
	processor := &stubProcessor{reply: "You have 12 days left."}
	handler := NewHandler("secret", processor)

	body := `{"message": "my balance", "session_id": "web-1", "user": "ana.petrov@acmecorp.com"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if resp["response"] != "You have 12 days left." {
		t.Fatalf("unexpected response: %v", resp["response"])
	}
	if resp["request_id"] != "req-42" {
		t.Fatalf("expected request id passthrough, got %v", resp["request_id"])
	}

	if processor.gotUser != "ana.petrov@acmecorp.com" {
		t.Fatalf("expected user to reach processor, got %q", processor.gotUser)
	}
	if processor.gotSession != "web-1" {
		t.Fatalf("expected session web-1, got %q", processor.gotSession)
	}
}

func TestHandler_ChatDefaultSession(t *testing.T) {
	processor := &stubProcessor{reply: "ok"}
	handler := NewHandler("", processor)

	body := `{"message": "hi", "user": "ana.petrov@acmecorp.com"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if processor.gotSession != "gateway:ana.petrov@acmecorp.com" {
		t.Fatalf("expected per-user default session, got %q", processor.gotSession)
	}
}

func TestHandler_ChatProcessorError(t *testing.T) {
	handler := NewHandler("", &stubProcessor{err: errors.New("boom")})

	body := `{"message": "hi", "user": "ana.petrov@acmecorp.com"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
