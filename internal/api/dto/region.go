package dto

type DistrictResponse struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DivisionID   int    `json:"division_id"`
	DivisionName string `json:"division_name"`
	AreaCount    int    `json:"area_count"`
}

type ListDistrictsResponse struct {
	Districts []DistrictResponse `json:"districts"`
}

type DivisionResponse struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	DistrictCount int    `json:"district_count"`
	AreaCount     int    `json:"area_count"`
}

type ListDivisionsResponse struct {
	Divisions []DivisionResponse `json:"divisions"`
}
