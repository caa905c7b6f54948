package handlers

import (
	"net/http"
	"strconv"
)

// GetMessages handles history backfill: one page of a room's buffered
// messages, oldest first within the page. Page 0 is the most recent page;
// an empty array signals no further pages.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	if room == "" {
		room = h.coord.DefaultRoom()
	}

	page := 0
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 0 {
			h.Error(w, http.StatusBadRequest, "invalid page")
			return
		}
		page = p
	}

	h.JSON(w, http.StatusOK, h.coord.History(room, page, 0))
}
