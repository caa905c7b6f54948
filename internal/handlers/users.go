package handlers

import "net/http"

// GetUsers returns the current presence snapshot.
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, h.coord.Presence())
}
