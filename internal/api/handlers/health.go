package handlers

import (
	"delivery-area-service/internal/services"
	"net/http"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	res := map[string]string{"status": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}

type ReadyHandler struct {
	Areas *services.AreaService
}

// Ready reports 503 until the first catalog load succeeds.
func (h *ReadyHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	if !h.Areas.Ready() {
		writeError(w, r, http.StatusServiceUnavailable, "catalog not loaded")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
