package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pass-breeding/internal/platform/logger"
	"pass-breeding/internal/ports/auth"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type fakeVerifier struct {
	valid map[string]string
}

func (f fakeVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if uid, ok := f.valid[token]; ok {
		return auth.Claims{UserID: uid}, nil
	}
	return auth.Claims{}, errors.New("invalid token")
}

func callerEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := GetClaims(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(c.UserID))
	})
}

func TestAuthContext_DebugHeader(t *testing.T) {
	h := AuthContext(nil, nil)(callerEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DebugUserHeader, " alice ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "alice" {
		t.Fatalf("expected alice, got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", rec.Code)
	}
}

func TestAuthContext_Bearer(t *testing.T) {
	h := AuthContext(fakeVerifier{valid: map[string]string{"tok": "bob"}}, nil)(callerEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Body.String() != "bob" {
		t.Fatalf("expected bob, got %q", rec.Body.String())
	}

	// Con verifier el header de debug se ignora.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DebugUserHeader, "alice")
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequestLog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf})

	h := chimw.RequestID(RequestLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/breedings", nil))

	line := buf.String()
	for _, want := range []string{"level=warn", "method=POST", "path=/breedings", "status=409", "request_id="} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}
