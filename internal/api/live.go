package api

import (
	"net/http"
)

// HandleRooms reports the live rooms and their subscriber counts, an
// operational view of the registry.
func (h *WSHandler) HandleRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Registry.Rooms())
}
