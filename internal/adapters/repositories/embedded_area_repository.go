package repositories

import (
	"context"
	"delivery-area-service/internal/dataset"
	"delivery-area-service/internal/domain"
	"fmt"
)

// Serves the dataset compiled into the binary. This is the default source.
type EmbeddedAreaRepository struct{}

func NewEmbeddedAreaRepository() *EmbeddedAreaRepository {
	return &EmbeddedAreaRepository{}
}

// Return all embedded areas in flatten order.
func (r *EmbeddedAreaRepository) ListAreas(ctx context.Context) ([]domain.Area, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, err := dataset.Load()
	if err != nil {
		return nil, fmt.Errorf("list embedded areas: %w", err)
	}

	return d.Flatten(), nil
}
