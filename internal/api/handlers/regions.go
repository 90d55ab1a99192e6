package handlers

import (
	"delivery-area-service/internal/api/dto"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/services"
	"net/http"
)

// RegionHandler exposes the district/division hierarchy and the postcode
// filter.
type RegionHandler struct {
	Areas *services.AreaService
}

func (h *RegionHandler) Districts(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	districts, err := h.Areas.Districts()
	if err != nil {
		writeServiceError(w, r, "list districts", err)
		return
	}

	res := dto.ListDistrictsResponse{Districts: make([]dto.DistrictResponse, 0, len(districts))}
	for _, d := range districts {
		res.Districts = append(res.Districts, dto.DistrictResponse{
			ID:           d.ID,
			Name:         d.Name,
			DivisionID:   d.DivisionID,
			DivisionName: d.DivisionName,
			AreaCount:    d.AreaCount,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *RegionHandler) DistrictAreas(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	areas, err := h.Areas.AreasByDistrict(id)
	if err != nil {
		writeServiceError(w, r, "list district areas", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewListAreasResponse(areas))
}

func (h *RegionHandler) Divisions(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	divisions, err := h.Areas.Divisions()
	if err != nil {
		writeServiceError(w, r, "list divisions", err)
		return
	}

	res := dto.ListDivisionsResponse{Divisions: make([]dto.DivisionResponse, 0, len(divisions))}
	for _, d := range divisions {
		res.Divisions = append(res.Divisions, dto.DivisionResponse{
			ID:            d.ID,
			Name:          d.Name,
			DistrictCount: d.DistrictCount,
			AreaCount:     d.AreaCount,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *RegionHandler) DivisionAreas(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	areas, err := h.Areas.AreasByDivision(id)
	if err != nil {
		writeServiceError(w, r, "list division areas", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewListAreasResponse(areas))
}

func (h *RegionHandler) PostCodeAreas(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	code := domain.NormalizePostCode(r.PathValue("code"))
	if !domain.ValidPostCode(code) {
		writeError(w, r, http.StatusBadRequest, "postcode must be 4 digits")
		return
	}

	areas, err := h.Areas.AreasByPostCode(code)
	if err != nil {
		writeServiceError(w, r, "list postcode areas", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewListAreasResponse(areas))
}
