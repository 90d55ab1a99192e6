package repositories

import (
	"context"
	"database/sql"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/platform/obs"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the AreaRepository port.
type SQLAreaRepository struct{ DB *sql.DB }

func NewSQLAreaRepository(db *sql.DB) *SQLAreaRepository {
	return &SQLAreaRepository{DB: db}
}

// Return all stored areas ordered by district, then dataset position.
func (s *SQLAreaRepository) ListAreas(ctx context.Context) (areas []domain.Area, err error) {
	defer obs.Time(ctx, "repo.ListAreas")(&err)

	if s.DB == nil {
		return nil, errors.New("sql area repository: DB is nil")
	}

	query := `
	SELECT
		internal_id,
		name,
		post_code,
		zone_id,
		district_id,
		district_name,
		division_id,
		division_name
	FROM areas
	ORDER BY district_id, position, internal_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list areas: query areas table: %w", err)
	}
	defer rows.Close()

	areas = make([]domain.Area, 0, 128)
	byID := make(map[int]int, 128)
	for rows.Next() {
		var a domain.Area
		var postCode sql.NullString
		err := rows.Scan(
			&a.InternalID, &a.Name, &postCode, &a.ZoneID,
			&a.DistrictID, &a.DistrictName, &a.DivisionID, &a.DivisionName,
		)
		if err != nil {
			return nil, fmt.Errorf("list areas: scan row: %w", err)
		}
		if code := domain.NormalizePostCode(postCode.String); postCode.Valid && code != "" {
			a.PostCode = &code
		}
		a.Providers = make(domain.ProviderIDs)
		byID[a.InternalID] = len(areas)
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list areas: row iteration: %w", err)
	}

	if err := s.attachProviders(ctx, areas, byID); err != nil {
		return nil, err
	}

	return areas, nil
}

func (s *SQLAreaRepository) attachProviders(ctx context.Context, areas []domain.Area, byID map[int]int) error {
	query := `
	SELECT
		internal_id,
		provider,
		provider_id
	FROM area_provider_ids;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("list areas: query provider ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var internalID, providerID int
		var provider string
		if err := rows.Scan(&internalID, &provider, &providerID); err != nil {
			return fmt.Errorf("list areas: scan provider row: %w", err)
		}

		i, ok := byID[internalID]
		if !ok {
			continue
		}
		p, err := domain.ParseProvider(provider)
		if err != nil {
			return fmt.Errorf("list areas: internal_id=%d: %w", internalID, err)
		}
		areas[i].Providers[p] = providerID
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("list areas: provider row iteration: %w", err)
	}

	return nil
}
