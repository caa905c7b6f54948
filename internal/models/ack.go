package models

// Ack statuses returned to a sender.
const (
	StatusDelivered = "delivered"
	StatusRejected  = "rejected"
)

// Ack is the synchronous delivery confirmation for a send. Ref echoes the
// client's provisional message ID so it can reconcile its optimistic copy
// with the server-issued ID and timestamp.
type Ack struct {
	Ref       string `json:"ref,omitempty"`
	Status    string `json:"status"`
	ID        string `json:"id,omitempty"`
	Timestamp int64  `json:"ts,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
