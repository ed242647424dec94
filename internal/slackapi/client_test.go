package slackapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/muurk/modalstate/internal/modalerr"
	"github.com/muurk/modalstate/internal/view"
)

// newTestServer serves a single Web API method with the given handler
func newTestServer(t *testing.T, method string, handler func(w http.ResponseWriter, body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+method {
			t.Errorf("path = %s, want /%s", r.URL.Path, method)
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}

		body := map[string]any{}
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			if err := json.Unmarshal(data, &body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		body["_auth"] = r.Header.Get("Authorization")
		handler(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func render(t *testing.T) *view.Descriptor {
	t.Helper()
	desc, err := view.Render(3, false, "")
	if err != nil {
		t.Fatal(err)
	}
	return desc
}

func TestNewClientWithURL(t *testing.T) {
	client := NewClientWithURL("http://localhost:1234/api", "xoxb-1", "xapp-1")

	if client.BaseURL != "http://localhost:1234/api/" {
		t.Errorf("BaseURL = %s", client.BaseURL)
	}
	if client.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, DefaultTimeout)
	}
	if client.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", client.MaxRetries, DefaultMaxRetries)
	}
}

func TestOpenView(t *testing.T) {
	var got map[string]any
	srv := newTestServer(t, "views.open", func(w http.ResponseWriter, body map[string]any) {
		got = body
		_, _ = io.WriteString(w, `{"ok":true,"view":{"id":"V1","hash":"H1","type":"modal"}}`)
	})

	client := NewClientWithURL(srv.URL, "xoxb-bot", "xapp-app")
	ref, err := client.OpenView(context.Background(), "T1", render(t))
	if err != nil {
		t.Fatalf("OpenView() error = %v", err)
	}

	if ref != (view.Ref{ID: "V1", Hash: "H1"}) {
		t.Errorf("ref = %+v", ref)
	}
	if got["trigger_id"] != "T1" {
		t.Errorf("trigger_id = %v", got["trigger_id"])
	}
	if got["_auth"] != "Bearer xoxb-bot" {
		t.Errorf("Authorization = %v", got["_auth"])
	}
	modal, ok := got["view"].(map[string]any)
	if !ok || modal["callback_id"] != view.CallbackID {
		t.Errorf("view payload = %v", got["view"])
	}
}

func TestUpdateView(t *testing.T) {
	var got map[string]any
	srv := newTestServer(t, "views.update", func(w http.ResponseWriter, body map[string]any) {
		got = body
		_, _ = io.WriteString(w, `{"ok":true,"view":{"id":"V1","hash":"H2"}}`)
	})

	client := NewClientWithURL(srv.URL, "xoxb-bot", "")
	hash, err := client.UpdateView(context.Background(), view.Ref{ID: "V1", Hash: "H1"}, render(t))
	if err != nil {
		t.Fatalf("UpdateView() error = %v", err)
	}
	if hash != "H2" {
		t.Errorf("hash = %s, want H2", hash)
	}
	if got["view_id"] != "V1" || got["hash"] != "H1" {
		t.Errorf("request = view_id %v, hash %v", got["view_id"], got["hash"])
	}
}

func TestUpdateView_ErrorClassification(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		check func(error) bool
	}{
		{"hash conflict", `{"ok":false,"error":"hash_conflict"}`, modalerr.IsStaleViewVersion},
		{"invalid auth", `{"ok":false,"error":"invalid_auth"}`, modalerr.IsAuthError},
		{"not found", `{"ok":false,"error":"not_found"}`, modalerr.IsTransportError},
		{"bad json", `not json`, modalerr.IsTransportError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := newTestServer(t, "views.update", func(w http.ResponseWriter, body map[string]any) {
				atomic.AddInt32(&calls, 1)
				_, _ = io.WriteString(w, tt.reply)
			})

			client := NewClientWithURL(srv.URL, "xoxb-bot", "")
			_, err := client.UpdateView(context.Background(), view.Ref{ID: "V1", Hash: "H1"}, render(t))
			if !tt.check(err) {
				t.Errorf("UpdateView() error = %v", err)
			}
			if atomic.LoadInt32(&calls) != 1 {
				t.Errorf("calls = %d, view updates must not be retried", calls)
			}
		})
	}
}

func TestUpdateView_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL, "xoxb-bot", "")
	_, err := client.UpdateView(context.Background(), view.Ref{ID: "V1", Hash: "H1"}, render(t))
	if !modalerr.IsTransportError(err) {
		t.Fatalf("UpdateView() error = %v, want transport error", err)
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error should mention status code: %v", err)
	}
}

func TestAuthTest(t *testing.T) {
	srv := newTestServer(t, "auth.test", func(w http.ResponseWriter, body map[string]any) {
		_, _ = io.WriteString(w, `{"ok":true,"team":"Acme","team_id":"T0","user":"modalbot","user_id":"U0","bot_id":"B0"}`)
	})

	client := NewClientWithURL(srv.URL, "xoxb-bot", "")
	id, err := client.AuthTest(context.Background())
	if err != nil {
		t.Fatalf("AuthTest() error = %v", err)
	}
	if id.Team != "Acme" || id.BotID != "B0" {
		t.Errorf("identity = %+v", id)
	}
}

func TestOpenConnection(t *testing.T) {
	srv := newTestServer(t, "apps.connections.open", func(w http.ResponseWriter, body map[string]any) {
		if body["_auth"] != "Bearer xapp-app" {
			t.Errorf("Authorization = %v, want app token", body["_auth"])
		}
		_, _ = io.WriteString(w, `{"ok":true,"url":"wss://example.test/link"}`)
	})

	client := NewClientWithURL(srv.URL, "xoxb-bot", "xapp-app")
	url, err := client.OpenConnection(context.Background())
	if err != nil {
		t.Fatalf("OpenConnection() error = %v", err)
	}
	if url != "wss://example.test/link" {
		t.Errorf("url = %s", url)
	}
}

func TestOpenConnection_RetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		case 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_, _ = io.WriteString(w, `{"ok":true,"url":"wss://example.test/ok"}`)
		}
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL, "", "xapp-app")
	client.SetRetry(3, time.Millisecond)

	url, err := client.OpenConnection(context.Background())
	if err != nil {
		t.Fatalf("OpenConnection() error = %v", err)
	}
	if url != "wss://example.test/ok" {
		t.Errorf("url = %s", url)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestOpenConnection_AuthNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.WriteString(w, `{"ok":false,"error":"invalid_auth"}`)
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL, "", "xapp-bad")
	client.SetRetry(3, time.Millisecond)

	_, err := client.OpenConnection(context.Background())
	if !modalerr.IsAuthError(err) {
		t.Fatalf("OpenConnection() error = %v, want auth error", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestOpenConnection_GivesUp(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL, "", "xapp-app")
	client.SetRetry(2, time.Millisecond)

	_, err := client.OpenConnection(context.Background())
	if !modalerr.IsTransportError(err) {
		t.Fatalf("OpenConnection() error = %v, want transport error", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", got)
	}
}
