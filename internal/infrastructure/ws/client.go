package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client is one websocket connection registered with the hub
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	send   chan []byte
}

// NewClient wraps an upgraded connection and registers it with the hub.
// Callers must start the pumps with Serve.
func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	bufSize := hub.cfg.SendBufferSize
	if bufSize <= 0 {
		bufSize = 64
	}
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, bufSize),
	}
}

// Serve registers the client and starts the read and write pumps. It
// returns immediately; the pumps run until the connection drops. Serve
// reports whether the hub accepted the registration; when the hub has
// shut down the client is rejected and the caller should close the
// connection.
func (c *Client) Serve() bool {
	select {
	case c.hub.register <- c:
	case <-c.hub.done:
		return false
	}
	go c.writePump()
	go c.readPump()
	return true
}

// readPump drains inbound frames. Clients do not send application
// messages; the read loop exists to process control frames and detect
// disconnects.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	if c.hub.cfg.ReadLimitBytes > 0 {
		c.conn.SetReadLimit(c.hub.cfg.ReadLimitBytes)
	}

	pongWait := c.pingInterval() * 10 / 9
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump forwards queued messages to the connection and keeps it
// alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingInterval())
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout()))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout()))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) pingInterval() time.Duration {
	if c.hub.cfg.PingInterval > 0 {
		return c.hub.cfg.PingInterval
	}
	return 30 * time.Second
}

func (c *Client) writeTimeout() time.Duration {
	if c.hub.cfg.WriteTimeout > 0 {
		return c.hub.cfg.WriteTimeout
	}
	return 10 * time.Second
}
