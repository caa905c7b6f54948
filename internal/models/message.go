package models

// Message is one chat utterance, either room-scoped or private.
// Exactly one of Room / (IsPrivate, To) is set; system notices always
// carry a room.
type Message struct {
	ID        string `json:"id"` // ULID
	SenderID  string `json:"senderId"`
	Sender    string `json:"sender"`
	Body      string `json:"message"`
	Timestamp int64  `json:"ts"` // Unix ms
	Room      string `json:"room,omitempty"`
	IsPrivate bool   `json:"isPrivate,omitempty"`
	To        string `json:"to,omitempty"` // Recipient connection ID for private messages
	System    bool   `json:"system,omitempty"`
}
