package ports

import (
	"context"
	"delivery-area-service/internal/domain"
)

// Port: a boundary for retrieving the area records a catalog is built from.
type AreaRepository interface {
	// Retrieve every area in flatten order (district ID, then dataset order).
	ListAreas(ctx context.Context) ([]domain.Area, error)
}
