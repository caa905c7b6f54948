package models

// Presence identifies one connected user for presence broadcasts.
type Presence struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
