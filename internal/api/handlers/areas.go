package handlers

import (
	"delivery-area-service/internal/api/dto"
	"delivery-area-service/internal/catalog"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/services"
	"net/http"
	"strings"
)

// AreaHandler exposes read-only area lookups.
type AreaHandler struct {
	Areas *services.AreaService
}

// List returns all areas, optionally filtered by district, division and
// postcode. Filters combine with AND.
func (h *AreaHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var f services.AreaFilter
	var err error
	if f.DistrictID, err = queryInt(r, "district"); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if f.DivisionID, err = queryInt(r, "division"); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if raw := r.URL.Query().Get("postcode"); raw != "" {
		f.PostCode = domain.NormalizePostCode(raw)
		if !domain.ValidPostCode(f.PostCode) {
			writeError(w, r, http.StatusBadRequest, "postcode must be 4 digits")
			return
		}
	}

	areas, err := h.Areas.AllAreas(f)
	if err != nil {
		writeServiceError(w, r, "list areas", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewListAreasResponse(areas))
}

func (h *AreaHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.Areas.Area(id)
	if err != nil {
		writeServiceError(w, r, "get area", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewAreaResponse(a))
}

// Search matches area names; see catalog.Search for ordering.
func (h *AreaHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, r, http.StatusBadRequest, "q is required")
		return
	}

	var opts catalog.SearchOptions
	var err error
	if opts.Fuzzy, err = queryInt(r, "fuzzy"); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if opts.Limit, err = queryInt(r, "limit"); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	opts = opts.Normalized()

	areas, err := h.Areas.Search(r.Context(), q, opts)
	if err != nil {
		writeServiceError(w, r, "search areas", err)
		return
	}

	list := dto.NewListAreasResponse(areas)
	writeJSON(w, r, http.StatusOK, dto.SearchAreasResponse{
		Query: catalog.NormalizeQuery(q),
		Fuzzy: opts.Fuzzy,
		Limit: opts.Limit,
		Count: list.Count,
		Areas: list.Areas,
	})
}

// ByProvider resolves an area from a courier's own area ID.
func (h *AreaHandler) ByProvider(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	p, err := domain.ParseProvider(r.PathValue("provider"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "provider is required")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.Areas.AreaByProvider(p, id)
	if err != nil {
		writeServiceError(w, r, "get area by provider", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewAreaResponse(a))
}

func (h *AreaHandler) Providers(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	providers, err := h.Areas.Providers()
	if err != nil {
		writeServiceError(w, r, "list providers", err)
		return
	}

	res := dto.ListProvidersResponse{Providers: make([]string, 0, len(providers))}
	for _, p := range providers {
		res.Providers = append(res.Providers, string(p))
	}
	writeJSON(w, r, http.StatusOK, res)
}
