package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDoJSON_SendsHeadersAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"], "path": r.URL.Path})
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/", APIKey: "secret"})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	var out map[string]string
	if err := c.DoJSON(context.Background(), http.MethodPost, "v1/echo", nil, map[string]string{"msg": "hi"}, &out); err != nil {
		t.Fatalf("DoJSON error: %v", err)
	}
	if out["echo"] != "hi" || out["path"] != "/v1/echo" {
		t.Fatalf("unexpected response: %v", out)
	}
}

func TestDoJSON_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	if StatusCode(err) != http.StatusForbidden {
		t.Fatalf("expected 403 HTTPError, got %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{BaseURL: "not a url"}); err == nil {
		t.Fatalf("expected invalid base url error")
	}
	c, _ := New(Config{})
	if c.IsConfigured() {
		t.Fatalf("expected client without base url to be unconfigured")
	}
	if err := c.DoJSON(context.Background(), http.MethodGet, "/relative", nil, nil, nil); err == nil {
		t.Fatalf("expected relative path without BaseURL to fail")
	}
}
