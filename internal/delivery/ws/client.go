package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/satriowb/syncpad/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

// Client owns a single websocket connection: it pumps inbound events to
// the coordinator and outbound events from its send buffer to the peer.
// Events from one connection are dispatched in the order received.
type Client struct {
	ID        string
	coord     *Coordinator
	cast      *Broadcaster
	conn      *websocket.Conn
	send      chan []byte
	readLimit int64
}

// NewClient creates a Client for an upgraded connection. readLimit caps
// inbound frames and must fit a full content update.
func NewClient(connID string, conn *websocket.Conn, coord *Coordinator, cast *Broadcaster, readLimit int64) *Client {
	if readLimit <= 0 {
		readLimit = domain.MaxMessageSize
	}
	return &Client{
		ID:        connID,
		coord:     coord,
		cast:      cast,
		conn:      conn,
		send:      make(chan []byte, 256),
		readLimit: readLimit,
	}
}

// ReadPump pumps events from the websocket connection to the coordinator.
// On exit it runs the disconnect path exactly once and detaches the
// outbox.
func (c *Client) ReadPump() {
	ctx := context.Background()
	defer func() {
		c.coord.Disconnect(ctx, c.ID)
		c.cast.Detach(c.ID)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var incoming struct {
			Type    domain.EventType `json:"type"`
			Payload json.RawMessage  `json:"payload"`
		}
		if err := json.Unmarshal(message, &incoming); err != nil {
			continue
		}

		c.dispatch(ctx, incoming.Type, incoming.Payload)
	}
}

func (c *Client) dispatch(ctx context.Context, t domain.EventType, payload json.RawMessage) {
	switch t {
	case domain.EventJoin:
		var p domain.JoinPayload
		if err := json.Unmarshal(payload, &p); err == nil {
			c.coord.Join(ctx, c.ID, p.RoomID, p.Name)
		}

	case domain.EventUpdate:
		var p domain.UpdatePayload
		if err := json.Unmarshal(payload, &p); err == nil {
			c.coord.Update(ctx, c.ID, p.RoomID, p.Title, p.Content)
		}

	case domain.EventCursorMove:
		var p domain.CursorMovePayload
		if err := json.Unmarshal(payload, &p); err == nil {
			c.coord.CursorMove(ctx, c.ID, p.RoomID, domain.Cursor{X: p.X, Y: p.Y})
		}

	case domain.EventTypingStart:
		var p domain.RoomPayload
		if err := json.Unmarshal(payload, &p); err == nil {
			c.coord.SetTyping(ctx, c.ID, p.RoomID, true)
		}

	case domain.EventTypingStop:
		var p domain.RoomPayload
		if err := json.Unmarshal(payload, &p); err == nil {
			c.coord.SetTyping(ctx, c.ID, p.RoomID, false)
		}

	case domain.EventChatMessage:
		var p domain.ChatSendPayload
		if err := json.Unmarshal(payload, &p); err == nil {
			c.coord.Chat(ctx, c.ID, p.RoomID, p.Text)
		}

	case domain.EventChangeName:
		var p domain.ChangeNamePayload
		if err := json.Unmarshal(payload, &p); err == nil {
			c.coord.Rename(ctx, c.ID, p.Name)
		}

	case domain.EventLeave:
		c.coord.Leave(ctx, c.ID)
	}
}

// WritePump pumps events from the send buffer to the websocket
// connection and keeps the peer alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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

// Deliver adds an event to the client's send buffer, dropping it if the
// buffer is full.
func (c *Client) Deliver(data []byte) {
	select {
	case c.send <- data:
	default:
		// Buffer full
	}
}
