package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"deskhive/models"
	"deskhive/utils"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Client is one websocket connection on the hub. Filters are owned by the
// hub (guarded by its mutex); the pumps only move bytes.
type Client struct {
	ID     string
	UserID string
	Send   chan []byte

	hub  *Hub
	conn *websocket.Conn

	// Guarded by the hub mutex.
	filters     models.FilterCriteria
	lastPayload []byte
	pushedGen   uint64
	closed      bool
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Send:   make(chan []byte, sendBuffer),
		hub:    hub,
		conn:   conn,
	}
}

// ReadPump consumes inbound messages until the connection drops. Clients
// send filter_update to change their view and ping as an application-level
// heartbeat on top of the protocol ping.
func (c *Client) ReadPump(pongWait time.Duration) {
	logger := utils.GetLogger()
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read error", zap.String("clientID", c.ID), zap.Error(err))
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Debug("ignoring malformed client message",
				zap.String("clientID", c.ID), zap.Error(err))
			continue
		}

		switch msg.Type {
		case "filter_update":
			filters := models.FilterCriteria{}
			if msg.Filters != nil {
				filters = *msg.Filters
			}
			c.hub.UpdateFilters(c, filters)
		case "ping":
			c.enqueue([]byte(`{"type":"pong"}`))
		default:
			logger.Debug("ignoring unknown client message type",
				zap.String("clientID", c.ID), zap.String("type", msg.Type))
		}
	}
}

// WritePump drains the send channel and keeps the connection alive with
// protocol pings.
func (c *Client) WritePump(pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue delivers without blocking the read pump; a full buffer drops the
// message rather than the connection since heartbeats are best effort.
func (c *Client) enqueue(payload []byte) {
	select {
	case c.Send <- payload:
	default:
	}
}
