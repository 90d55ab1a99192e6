package dto

import "delivery-area-service/internal/domain"

type AreaResponse struct {
	InternalID   int            `json:"internal_id"`
	Name         string         `json:"name"`
	PostCode     *string        `json:"post_code"`
	ZoneID       int            `json:"zone_id"`
	DistrictID   int            `json:"district_id"`
	DistrictName string         `json:"district_name"`
	DivisionID   int            `json:"division_id"`
	DivisionName string         `json:"division_name"`
	Providers    map[string]int `json:"providers"`
}

type ListAreasResponse struct {
	Count int            `json:"count"`
	Areas []AreaResponse `json:"areas"`
}

type SearchAreasResponse struct {
	Query string         `json:"query"`
	Fuzzy int            `json:"fuzzy"`
	Limit int            `json:"limit"`
	Count int            `json:"count"`
	Areas []AreaResponse `json:"areas"`
}

type ListProvidersResponse struct {
	Providers []string `json:"providers"`
}

func NewAreaResponse(a domain.Area) AreaResponse {
	res := AreaResponse{
		InternalID:   a.InternalID,
		Name:         a.Name,
		PostCode:     a.PostCode,
		ZoneID:       a.ZoneID,
		DistrictID:   a.DistrictID,
		DistrictName: a.DistrictName,
		DivisionID:   a.DivisionID,
		DivisionName: a.DivisionName,
		Providers:    make(map[string]int, len(a.Providers)),
	}
	for p, id := range a.Providers {
		res.Providers[string(p)] = id
	}
	return res
}

func NewListAreasResponse(areas []domain.Area) ListAreasResponse {
	res := ListAreasResponse{
		Count: len(areas),
		Areas: make([]AreaResponse, 0, len(areas)),
	}
	for _, a := range areas {
		res.Areas = append(res.Areas, NewAreaResponse(a))
	}
	return res
}
