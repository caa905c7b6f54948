package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pulsechat/pulse/internal/chat"
	"github.com/pulsechat/pulse/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	coord *chat.Coordinator
	redis *store.RedisHistory // nil when no mirror is configured
}

// NewHandler creates a new Handler.
func NewHandler(coord *chat.Coordinator, redis *store.RedisHistory) *Handler {
	return &Handler{coord: coord, redis: redis}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
