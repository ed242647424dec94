package socketmode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/modalstate/internal/controller"
	"github.com/muurk/modalstate/internal/modalerr"
	"github.com/muurk/modalstate/internal/view"
)

// fakeHost is a Socket Mode endpoint. Each connection runs script.
type fakeHost struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader
	script   func(conn *websocket.Conn)
	conns    chan struct{}
}

func newFakeHost(t *testing.T, script func(conn *websocket.Conn)) *fakeHost {
	t.Helper()
	h := &fakeHost{script: script, conns: make(chan struct{}, 16)}
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer func() { _ = conn.Close() }()
		h.conns <- struct{}{}
		h.script(conn)
	}))
	t.Cleanup(h.srv.Close)
	return h
}

func (h *fakeHost) OpenConnection(ctx context.Context) (string, error) {
	return "ws" + strings.TrimPrefix(h.srv.URL, "http"), nil
}

// recordingDispatcher acks and records every event
type recordingDispatcher struct {
	mu     sync.Mutex
	events []controller.Event
	skip   bool
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, ev controller.Event, ack controller.AckFunc) error {
	if !d.skip {
		if err := ack(); err != nil {
			return err
		}
	}
	d.mu.Lock()
	d.events = append(d.events, ev)
	d.mu.Unlock()
	return nil
}

func (d *recordingDispatcher) recorded() []controller.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]controller.Event(nil), d.events...)
}

// writeEnvelope and readAck run on the server goroutine, so they report
// failures with assert rather than require.
func writeEnvelope(t *testing.T, conn *websocket.Conn, env Envelope) {
	t.Helper()
	assert.NoError(t, conn.WriteJSON(env))
}

func readAck(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	if !assert.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second))) {
		return ""
	}
	var msg ackMessage
	if !assert.NoError(t, conn.ReadJSON(&msg)) {
		return ""
	}
	return msg.EnvelopeID
}

func TestClient_DispatchesAndAcks(t *testing.T) {
	acks := make(chan string, 4)
	host := newFakeHost(t, func(conn *websocket.Conn) {
		writeEnvelope(t, conn, Envelope{Type: TypeHello, NumConnections: 1})
		writeEnvelope(t, conn, Envelope{
			EnvelopeID: "env-1",
			Type:       TypeSlashCommands,
			Payload:    json.RawMessage(`{"command":"/modal-test","trigger_id":"T1"}`),
		})
		acks <- readAck(t, conn)
		writeEnvelope(t, conn, blockAction(view.ActionSelectAll))
		acks <- readAck(t, conn)
		// Hold the connection open until the client goes away
		_, _, _ = conn.ReadMessage()
	})

	dispatcher := &recordingDispatcher{}
	client := New(host, dispatcher, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	assert.Equal(t, "env-1", <-acks)
	assert.Equal(t, "e1", <-acks)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	events := dispatcher.recorded()
	require.Len(t, events, 2)
	assert.Equal(t, controller.OpenRequested{TriggerID: "T1"}, events[0])
	selectAll, ok := events[1].(controller.SelectAllTriggered)
	require.True(t, ok, "second event should be select all, got %T", events[1])
	assert.Equal(t, view.Ref{ID: "V1", Hash: "H1"}, selectAll.View)
}

func TestClient_AcksIgnoredAndMalformedEnvelopes(t *testing.T) {
	acks := make(chan string, 4)
	host := newFakeHost(t, func(conn *websocket.Conn) {
		writeEnvelope(t, conn, Envelope{EnvelopeID: "ev-api", Type: TypeEventsAPI, Payload: json.RawMessage(`{}`)})
		acks <- readAck(t, conn)
		writeEnvelope(t, conn, interactive(`{"type":`))
		acks <- readAck(t, conn)
		_, _, _ = conn.ReadMessage()
	})

	dispatcher := &recordingDispatcher{}
	client := New(host, dispatcher, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Run(ctx) }()

	assert.Equal(t, "ev-api", <-acks)
	assert.Equal(t, "e1", <-acks)
	assert.Empty(t, dispatcher.recorded())
}

func TestClient_AcksWhenDispatcherDoesNot(t *testing.T) {
	acks := make(chan string, 1)
	host := newFakeHost(t, func(conn *websocket.Conn) {
		writeEnvelope(t, conn, interactive(`{"type":"view_submission","view":{"id":"V1","callback_id":"view_1"}}`))
		acks <- readAck(t, conn)
		_, _, _ = conn.ReadMessage()
	})

	dispatcher := &recordingDispatcher{skip: true}
	client := New(host, dispatcher, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Run(ctx) }()

	assert.Equal(t, "e1", <-acks)
}

func TestClient_ReconnectsOnDisconnect(t *testing.T) {
	var mu sync.Mutex
	connections := 0
	host := newFakeHost(t, func(conn *websocket.Conn) {
		mu.Lock()
		connections++
		n := connections
		mu.Unlock()

		if n == 1 {
			writeEnvelope(t, conn, Envelope{Type: TypeDisconnect, Reason: "refresh_requested"})
			return
		}
		_, _, _ = conn.ReadMessage()
	})

	client := New(host, &recordingDispatcher{}, Config{ReconnectDelay: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-host.conns:
		case <-time.After(5 * time.Second):
			t.Fatalf("connection %d never arrived", i+1)
		}
	}
}

type failingOpener struct{ err error }

func (f failingOpener) OpenConnection(ctx context.Context) (string, error) {
	return "", f.err
}

func TestClient_StopsOnAuthError(t *testing.T) {
	client := New(failingOpener{err: modalerr.NewAuthError("rejected", "invalid_auth")}, &recordingDispatcher{}, Config{})

	err := client.Run(context.Background())
	assert.True(t, modalerr.IsAuthError(err), "Run() error = %v", err)
}

func TestClient_CapturesEnvelopes(t *testing.T) {
	dir := t.TempDir()
	acks := make(chan string, 1)
	host := newFakeHost(t, func(conn *websocket.Conn) {
		writeEnvelope(t, conn, Envelope{EnvelopeID: "cap-1", Type: TypeEventsAPI, Payload: json.RawMessage(`{}`)})
		acks <- readAck(t, conn)
		_, _, _ = conn.ReadMessage()
	})

	client := New(host, &recordingDispatcher{}, Config{CaptureDir: dir})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Run(ctx) }()

	require.Equal(t, "cap-1", <-acks)

	// The ack is recorded right after it is written
	var lines []string
	require.Eventually(t, func() bool {
		files, _ := filepath.Glob(filepath.Join(dir, "capture-*.jsonl"))
		if len(files) != 1 {
			return false
		}
		data, err := os.ReadFile(files[0])
		if err != nil {
			return false
		}
		lines = strings.Split(strings.TrimSpace(string(data)), "\n")
		return len(lines) == 2
	}, 5*time.Second, 10*time.Millisecond)

	var received, sent CapturedEnvelope
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &received))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &sent))
	assert.Equal(t, "received", received.Direction)
	assert.Equal(t, "cap-1", received.EnvelopeID)
	assert.Equal(t, "sent", sent.Direction)
	assert.Equal(t, "ack", sent.Type)
}
