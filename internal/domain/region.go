package domain

// Summary of a district derived from the areas it contains.
type District struct {
	ID           int
	Name         string
	DivisionID   int
	DivisionName string
	AreaCount    int
}

// Summary of a division derived from its districts and areas.
type Division struct {
	ID            int
	Name          string
	DistrictCount int
	AreaCount     int
}
