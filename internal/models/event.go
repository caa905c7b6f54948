package models

import "encoding/json"

// Client -> server event types.
const (
	EventJoin           = "join"
	EventJoinRoom       = "join_room"
	EventSendMessage    = "send_message"
	EventPrivateMessage = "private_message"
	EventTyping         = "typing"
)

// Server -> client event types.
const (
	EventUserList       = "user_list"
	EventUserJoined     = "user_joined"
	EventUserLeft       = "user_left"
	EventReceiveMessage = "receive_message"
	EventUnreadCounts   = "unread_counts"
	EventTypingUsers    = "typing_users"
	EventAck            = "ack"
)

// Event is the envelope exchanged over the websocket in both directions.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEvent wraps a payload value in an Event envelope. All payload types
// in this package marshal without error.
func NewEvent(eventType string, payload any) Event {
	data, _ := json.Marshal(payload)
	return Event{Type: eventType, Payload: data}
}

// JoinPayload names the user for presence.
type JoinPayload struct {
	Username string `json:"username"`
}

// JoinRoomPayload switches the connection's current room.
type JoinRoomPayload struct {
	Room string `json:"room"`
}

// SendMessagePayload posts a message to a room. Ref is the client's
// provisional ID, echoed back in the ack.
type SendMessagePayload struct {
	Ref     string `json:"ref,omitempty"`
	Message string `json:"message"`
	Room    string `json:"room,omitempty"`
}

// PrivateMessagePayload sends a direct message to one connection.
type PrivateMessagePayload struct {
	Ref     string `json:"ref,omitempty"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// TypingPayload toggles the sender's typing state.
type TypingPayload struct {
	IsTyping bool `json:"isTyping"`
}
