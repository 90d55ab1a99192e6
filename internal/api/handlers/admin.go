package handlers

import (
	"crypto/subtle"
	"delivery-area-service/internal/api/dto"
	"delivery-area-service/internal/services"
	"log/slog"
	"net/http"
	"strings"
)

const AdminTokenHeader = "X-Admin-Token"

type AdminHandler struct {
	Areas *services.AreaService
	// Token guards Reload. Empty disables the endpoint.
	Token string
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	st, err := h.Areas.Stats()
	if err != nil {
		writeServiceError(w, r, "catalog stats", err)
		return
	}

	res := dto.StatsResponse{
		Version:     st.Version,
		Fingerprint: st.Fingerprint,
		LoadedAt:    st.LoadedAt,
		Areas:       st.Areas,
		Districts:   st.Districts,
		Divisions:   st.Divisions,
		Providers:   make([]string, 0, len(st.Providers)),
		Conflicts:   make([]dto.ProviderConflictResponse, 0, len(st.Conflicts)),
	}
	for _, p := range st.Providers {
		res.Providers = append(res.Providers, string(p))
	}
	for _, c := range st.Conflicts {
		res.Conflicts = append(res.Conflicts, dto.ProviderConflictResponse{
			Provider:          string(c.Provider),
			ProviderID:        c.ProviderID,
			KeptInternalID:    c.KeptInternalID,
			DroppedInternalID: c.DroppedInternalID,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Reload swaps in a freshly loaded catalog.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	if !h.authorized(r) {
		writeError(w, r, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.Areas.Reload(r.Context()); err != nil {
		writeServiceError(w, r, "reload catalog", err)
		return
	}
	slog.InfoContext(r.Context(), "catalog reload requested", "remote", r.RemoteAddr, "version", h.Areas.Version())
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) authorized(r *http.Request) bool {
	want := strings.TrimSpace(h.Token)
	if want == "" {
		return false
	}
	got := strings.TrimSpace(r.Header.Get(AdminTokenHeader))
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
