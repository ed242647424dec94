package socketmode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/modalstate/internal/controller"
	"github.com/muurk/modalstate/internal/logging"
	"github.com/muurk/modalstate/internal/modalerr"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next message (or pong) from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum envelope size allowed from peer
	maxMessageSize = 1 << 20

	// Reconnect backoff bounds
	defaultReconnectDelay    = 1 * time.Second
	defaultMaxReconnectDelay = 30 * time.Second
)

// errDisconnect means the host asked us to reconnect
var errDisconnect = errors.New("host requested disconnect")

// ConnectionOpener returns a fresh websocket URL for each connection
type ConnectionOpener interface {
	OpenConnection(ctx context.Context) (string, error)
}

// Dispatcher handles one decoded event
type Dispatcher interface {
	Dispatch(ctx context.Context, ev controller.Event, ack controller.AckFunc) error
}

// Config holds the client configuration
type Config struct {
	// Command is the slash command that opens the view (default DefaultCommand)
	Command string
	// CaptureDir receives envelope captures (empty = disabled)
	CaptureDir string
	// Dialer is the websocket dialer (default websocket.DefaultDialer)
	Dialer *websocket.Dialer
	// ReconnectDelay is the initial delay before reconnecting after a failure
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the reconnect backoff
	MaxReconnectDelay time.Duration
}

// Client is a Socket Mode client
type Client struct {
	opener     ConnectionOpener
	dispatcher Dispatcher
	decoder    Decoder
	dialer     *websocket.Dialer
	recorder   *recorder

	reconnectDelay    time.Duration
	maxReconnectDelay time.Duration
}

// New creates a Socket Mode client
func New(opener ConnectionOpener, dispatcher Dispatcher, config Config) *Client {
	if config.Command == "" {
		config.Command = DefaultCommand
	}
	if config.Dialer == nil {
		config.Dialer = websocket.DefaultDialer
	}
	if config.ReconnectDelay <= 0 {
		config.ReconnectDelay = defaultReconnectDelay
	}
	if config.MaxReconnectDelay <= 0 {
		config.MaxReconnectDelay = defaultMaxReconnectDelay
	}

	return &Client{
		opener:            opener,
		dispatcher:        dispatcher,
		decoder:           Decoder{Command: config.Command},
		dialer:            config.Dialer,
		recorder:          newRecorder(config.CaptureDir, time.Now()),
		reconnectDelay:    config.ReconnectDelay,
		maxReconnectDelay: config.MaxReconnectDelay,
	}
}

// Run connects and handles events until ctx is cancelled. It returns nil on
// cancellation and an error only when reconnecting cannot help, such as a
// rejected app token.
func (c *Client) Run(ctx context.Context) error {
	delay := c.reconnectDelay

	for {
		err := c.connectAndServe(ctx)
		if ctx.Err() != nil {
			return nil
		}

		if errors.Is(err, errDisconnect) {
			delay = c.reconnectDelay
			continue
		}
		if modalerr.IsAuthError(err) {
			return err
		}

		logging.Warn("Socket Mode connection lost, reconnecting",
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}

		delay *= 2
		if delay > c.maxReconnectDelay {
			delay = c.maxReconnectDelay
		}
	}
}

func (c *Client) connectAndServe(ctx context.Context) error {
	url, err := c.opener.OpenConnection(ctx)
	if err != nil {
		return err
	}

	ws, _, err := c.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return modalerr.NewTransportError("failed to dial Socket Mode url", err)
	}

	conn := &connection{
		id:       uuid.NewString()[:8],
		ws:       ws,
		recorder: c.recorder,
	}
	logging.LogConnection(conn.id, "websocket_connected")
	defer func() {
		_ = ws.Close()
		logging.LogConnection(conn.id, "websocket_closed")
	}()

	return c.serve(ctx, conn)
}

// serve runs the read loop of one connection
func (c *Client) serve(ctx context.Context, conn *connection) error {
	ws := conn.ws
	ws.SetReadLimit(maxMessageSize)
	if err := ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return modalerr.NewTransportError("failed to set read deadline", err)
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go conn.keepalive(ctx, done)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return modalerr.NewTransportError("failed to read envelope", err)
		}
		if err := ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return modalerr.NewTransportError("failed to set read deadline", err)
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			logging.Error("Dropping undecodable envelope",
				zap.String("connection", conn.id),
				zap.Error(err),
			)
			conn.recorder.record(conn.id, "received", Envelope{}, data)
			continue
		}

		logging.LogEnvelope("received", env.Type, env.EnvelopeID, data)
		conn.recorder.record(conn.id, "received", env, data)

		switch env.Type {
		case TypeHello:
			logging.Info("Socket Mode connection ready",
				zap.String("connection", conn.id),
				zap.Int("num_connections", env.NumConnections),
			)

		case TypeDisconnect:
			logging.Info("Host requested reconnect",
				zap.String("connection", conn.id),
				zap.String("reason", env.Reason),
			)
			return errDisconnect

		default:
			if env.EnvelopeID == "" {
				logging.Debug("Ignoring envelope without id", zap.String("type", env.Type))
				continue
			}
			c.handle(ctx, conn, env)
		}
	}
}

// handle decodes and dispatches one envelope. The envelope is acknowledged
// exactly once whatever happens.
func (c *Client) handle(ctx context.Context, conn *connection, env Envelope) {
	var once sync.Once
	var ackErr error
	ackFn := func() error {
		once.Do(func() {
			ackErr = conn.ack(env)
		})
		return ackErr
	}

	ev, err := c.decoder.Decode(env)
	if err != nil {
		_ = ackFn()
		logging.Error("Dropping malformed event",
			zap.String("envelope", describe(env)),
			zap.Error(err),
		)
		return
	}
	if ev == nil {
		_ = ackFn()
		logging.Debug("Ignoring envelope", zap.String("envelope", describe(env)))
		return
	}

	if env.RetryAttempt > 0 {
		logging.Warn("Host is redelivering an envelope",
			zap.String("envelope", describe(env)),
			zap.Int("retry_attempt", env.RetryAttempt),
			zap.String("retry_reason", env.RetryReason),
		)
	}

	if err := c.dispatcher.Dispatch(ctx, ev, ackFn); err != nil {
		logging.Warn(modalerr.Hint(err), zap.String("envelope", describe(env)))
	}
	_ = ackFn()
}

// connection is one live websocket. Writes are serialized.
type connection struct {
	id       string
	ws       *websocket.Conn
	recorder *recorder
	mu       sync.Mutex
}

func (c *connection) ack(env Envelope) error {
	data, err := json.Marshal(ackMessage{EnvelopeID: env.EnvelopeID})
	if err != nil {
		return fmt.Errorf("failed to encode ack: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}

	logging.LogEnvelope("sent", "ack", env.EnvelopeID, data)
	c.recorder.record(c.id, "sent", Envelope{Type: "ack", EnvelopeID: env.EnvelopeID}, data)
	return nil
}

// keepalive pings the peer until done is closed, and closes the socket when
// ctx is cancelled so the read loop returns.
func (c *connection) keepalive(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			_ = c.ws.Close()
			return
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				logging.Debug("Ping failed",
					zap.String("connection", c.id),
					zap.Error(err),
				)
				return
			}
		}
	}
}
