// Package realtime keeps the console's push connection to the backend: a
// Socket.IO v4 session over a websocket. Decoded events are published on an
// events.Dispatcher; consumers subscribe there, not here.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/spec-kit/cms-console/internal/events"
)

const (
	defaultBackoffMin = 500 * time.Millisecond
	defaultBackoffMax = 30 * time.Second
	handshakeTimeout  = 10 * time.Second
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("realtime: client closed")

// Options configure a Client.
type Options struct {
	URL        string
	Header     http.Header
	BackoffMin time.Duration
	BackoffMax time.Duration
	Dialer     *websocket.Dialer
	Logger     *zap.Logger
}

// Client owns one live connection at a time.
type Client struct {
	endpoint   string
	header     http.Header
	dialer     *websocket.Dialer
	bus        events.Dispatcher
	backoffMin time.Duration
	backoffMax time.Duration
	logger     *zap.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closed    bool
	done      chan struct{}
	writeMu   sync.Mutex
}

// New builds a client publishing onto bus.
func New(bus events.Dispatcher, opts Options) (*Client, error) {
	endpoint, err := socketURL(opts.URL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint:   endpoint,
		header:     opts.Header,
		dialer:     opts.Dialer,
		bus:        bus,
		backoffMin: opts.BackoffMin,
		backoffMax: opts.BackoffMax,
		logger:     opts.Logger,
		done:       make(chan struct{}),
	}
	if c.dialer == nil {
		c.dialer = &websocket.Dialer{HandshakeTimeout: handshakeTimeout, Proxy: http.ProxyFromEnvironment}
	}
	if c.backoffMin <= 0 {
		c.backoffMin = defaultBackoffMin
	}
	if c.backoffMax < c.backoffMin {
		c.backoffMax = defaultBackoffMax
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.Named("realtime")
	return c, nil
}

// socketURL turns the backend base URL into the Engine.IO websocket endpoint.
func socketURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("realtime: invalid url %q", base)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("realtime: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/socket.io/"
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Connected reports whether the Socket.IO session is currently established.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Run connects and keeps reconnecting with exponential backoff until ctx is
// done or Close is called.
func (c *Client) Run(ctx context.Context) error {
	delay := c.backoffMin
	for {
		established, err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.isClosed() {
			return ErrClosed
		}
		if established {
			delay = c.backoffMin
		}
		c.logger.Warn("connection lost; reconnecting", zap.Error(err), zap.Duration("in", delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-c.done:
			timer.Stop()
			return ErrClosed
		case <-timer.C:
		}
		delay *= 2
		if delay > c.backoffMax {
			delay = c.backoffMax
		}
	}
}

// Close disconnects and stops Run.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	_ = c.write(conn, "41")
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	// The session goroutine may already have closed it.
	_ = conn.Close()
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// session runs one connection to completion. It reports whether the
// Socket.IO connect handshake succeeded.
func (c *Client) session(ctx context.Context) (bool, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.endpoint, c.header)
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return false, ErrClosed
	}
	c.conn = conn
	c.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer func() {
		stop()
		c.mu.Lock()
		c.conn = nil
		c.connected = false
		c.mu.Unlock()
		_ = conn.Close()
	}()

	established := false
	readWindow := handshakeTimeout
	for {
		_ = conn.SetReadDeadline(time.Now().Add(readWindow))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return established, fmt.Errorf("read: %w", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}

		p, err := decodePacket(string(data))
		if err != nil {
			c.logger.Debug("dropping packet", zap.Error(err))
			continue
		}

		switch p.kind {
		case kindOpen:
			if p.handshake.PingInterval > 0 {
				readWindow = time.Duration(p.handshake.PingInterval+p.handshake.PingTimeout) * time.Millisecond
			}
			if err := c.write(conn, connectFrame()); err != nil {
				return established, err
			}
		case kindConnected:
			established = true
			c.mu.Lock()
			c.connected = true
			c.mu.Unlock()
			c.logger.Info("connected", zap.String("endpoint", c.endpoint))
		case kindConnectError:
			return established, fmt.Errorf("connect refused: %s", p.errText)
		case kindPing:
			if err := c.write(conn, pongFrame()); err != nil {
				return established, err
			}
		case kindEvent:
			c.dispatch(ctx, p)
		case kindDisconnect, kindClose:
			return established, errors.New("server closed the session")
		}
	}
}

func (c *Client) dispatch(ctx context.Context, p packet) {
	evt := events.Event{Type: events.EventType(p.event), ReceivedAt: time.Now()}
	if evt.Type == events.EventNewNotification {
		if err := json.Unmarshal(p.payload, &evt.Notification); err != nil {
			c.logger.Warn("undecodable notification", zap.Error(err))
			return
		}
	}
	c.bus.Publish(ctx, evt)
}

func (c *Client) write(conn *websocket.Conn, frame string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
