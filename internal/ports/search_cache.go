package ports

import (
	"context"
	"delivery-area-service/internal/domain"
)

// Optional cache for name-search results.
// Keys are built by the caller and already include the catalog fingerprint.
type SearchCache interface {
	Get(ctx context.Context, key string) ([]domain.Area, bool, error)
	Put(ctx context.Context, key string, areas []domain.Area) error
}
