package handlers

import "net/http"

// GetStats returns a summary of coordinator state: connection count,
// typing count and per-room membership and history sizes.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, h.coord.Snapshot())
}
