package notifications

import (
	"log/slog"
	"time"

	"promptfeed/internal/middleware"
	"promptfeed/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// Feed sockets are server-to-client. Peers only send pongs and close frames,
// so the read limit is small.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// WSHub is implemented by hubs that own Clients.
type WSHub interface {
	UnregisterClient(c *Client)
	Name() string
}

// Client is one live feed subscriber. Conn is nil in tests that only look at Send.
type Client struct {
	Hub  WSHub
	Conn *websocket.Conn
	// Send queues encoded events. The hub closes it on unregister.
	Send chan []byte
	// ID is the remote address, used only in logs.
	ID string
}

// NewClient returns a Client with a buffered send queue.
func NewClient(hub WSHub, conn *websocket.Conn, id string) *Client {
	return &Client{Hub: hub, Conn: conn, ID: id, Send: make(chan []byte, sendBuffer)}
}

func (c *Client) logAttrs(extra ...any) []any {
	return append([]any{slog.String("hub", c.Hub.Name()), slog.String("client", c.ID)}, extra...)
}

func (c *Client) extendReadDeadline(string) error {
	return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
}

// ReadPump blocks until the peer goes away, then unregisters the client.
// Inbound data frames are ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.UnregisterClient(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.extendReadDeadline("")
	c.Conn.SetPongHandler(c.extendReadDeadline)

	for {
		_, _, err := c.Conn.ReadMessage()
		if err == nil {
			continue
		}
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
			middleware.Logger.Warn("feed socket closed unexpectedly", c.logAttrs(slog.String("error", err.Error()))...)
		}
		return
	}
}

func (c *Client) write(messageType int, data []byte) error {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteMessage(messageType, data)
}

// WritePump delivers queued events and keeps the connection alive with pings.
// It returns when Send is closed or a write fails.
func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, open := <-c.Send:
			if !open {
				_ = c.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, msg); err != nil {
				middleware.Logger.Debug("feed socket write failed", c.logAttrs(slog.String("error", err.Error()))...)
				return
			}
		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues message without blocking. A slow client loses the message
// rather than stalling the broadcast.
func (c *Client) TrySend(message []byte) bool {
	select {
	case c.Send <- message:
		return true
	default:
		observability.WebSocketBackpressureDrops.WithLabelValues(c.Hub.Name()).Inc()
		middleware.Logger.Warn("feed event dropped for slow client", c.logAttrs()...)
		return false
	}
}
