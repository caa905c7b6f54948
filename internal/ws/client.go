// The read pump listens for client events and hands them to the
// coordinator. The write pump drains the client's send channel back to the
// browser. Separating read/write avoids head-of-line blocking when a
// browser is slow.
package ws

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/pulsechat/pulse/internal/chat"
	"github.com/pulsechat/pulse/internal/metrics"
	"github.com/pulsechat/pulse/internal/models"
)

// sendBuffer is the per-client outbound queue depth. When it fills, events
// are dropped rather than blocking the coordinator.
const sendBuffer = 64

// Client represents a single WebSocket connection.
type Client struct {
	id    string
	conn  *websocket.Conn
	send  chan models.Event
	done  chan struct{}
	coord *chat.Coordinator
	log   zerolog.Logger
}

// Emit queues an outbound event for delivery. Never blocks; a full buffer
// drops the event.
func (c *Client) Emit(ev models.Event) {
	select {
	case c.send <- ev:
	case <-c.done:
	default:
		metrics.EventsDropped.Inc()
		c.log.Debug().Str("conn", c.id).Str("type", ev.Type).Msg("send buffer full, event dropped")
	}
}

func (c *Client) readPump() {
	defer func() {
		c.coord.Disconnect(c.id)
		close(c.done)
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var ev models.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			c.log.Debug().Str("conn", c.id).Err(err).Msg("unparseable event ignored")
			continue
		}
		c.handle(ev)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for {
		select {
		case ev := <-c.send:
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-c.done:
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// handle dispatches one inbound event to the coordinator. Malformed send
// payloads are rejected locally with a failure ack; other malformed events
// are ignored.
func (c *Client) handle(ev models.Event) {
	metrics.EventsTotal.WithLabelValues(ev.Type).Inc()

	switch ev.Type {
	case models.EventJoin:
		var p models.JoinPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return
		}
		c.coord.Join(c.id, p.Username)

	case models.EventJoinRoom:
		var p models.JoinRoomPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return
		}
		c.coord.JoinRoom(c.id, p.Room)

	case models.EventSendMessage:
		var p models.SendMessagePayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			c.rejectPayload()
			return
		}
		c.coord.Send(c.id, p)

	case models.EventPrivateMessage:
		var p models.PrivateMessagePayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			c.rejectPayload()
			return
		}
		c.coord.SendPrivate(c.id, p)

	case models.EventTyping:
		var p models.TypingPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return
		}
		c.coord.Typing(c.id, p.IsTyping)

	default:
		c.log.Debug().Str("conn", c.id).Str("type", ev.Type).Msg("unknown event type")
	}
}

func (c *Client) rejectPayload() {
	c.Emit(models.NewEvent(models.EventAck, models.Ack{
		Status: models.StatusRejected,
		Reason: "invalid payload",
	}))
}
