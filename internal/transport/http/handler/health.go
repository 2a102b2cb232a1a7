package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HealthHandler handles health-check endpoints.
type HealthHandler struct {
	// channels lists the active mobile channels in priority order.
	channels []string
	email    string
}

func NewHealthHandler(mobileChannels []string, emailChannel string) *HealthHandler {
	return &HealthHandler{channels: mobileChannels, email: emailChannel}
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "channels":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"mobile": h.channels,
			"email":  h.email,
		})
	default:
		writeJSON(w, http.StatusBadRequest, MessageEnvelope{Error: "unknown action"})
	}
}
