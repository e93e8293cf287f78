package handlers

import (
	"net/http"

	"github.com/swap24/backend/internal/middleware"
	"github.com/swap24/backend/internal/services"
)

type SocketServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID string)
}

// ServeWS upgrades an authenticated request to the realtime socket. Clients then
// send {"type":"joinRoom","room":"<their userId>"} to receive ledger events.
// @Summary Realtime socket
// @Tags Realtime
// @Security BearerAuth
// @Param token query string false "JWT for clients that cannot set headers"
// @Success 101
// @Failure 401 {object} services.ErrorResponse
// @Router /ws [get]
func ServeWS(hub SocketServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
			return
		}
		hub.ServeWS(w, r, userID)
	}
}
