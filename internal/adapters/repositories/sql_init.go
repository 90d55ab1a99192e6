package repositories

import (
	"context"
	"database/sql"
	"delivery-area-service/internal/dataset"
	"delivery-area-service/internal/domain"
	"errors"
	"fmt"
	"slices"
)

// Initialize the Postgres schema for the area catalog.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createAreasQuery := `
	CREATE TABLE IF NOT EXISTS areas (
		internal_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		post_code TEXT,
		zone_id INTEGER NOT NULL,
		district_id INTEGER NOT NULL,
		district_name TEXT NOT NULL,
		division_id INTEGER NOT NULL,
		division_name TEXT NOT NULL,
		position INTEGER NOT NULL
	);
	`

	createProviderIDsQuery := `
	CREATE TABLE IF NOT EXISTS area_provider_ids (
        internal_id INTEGER NOT NULL REFERENCES areas(internal_id) ON DELETE CASCADE,
        provider TEXT NOT NULL,
        provider_id INTEGER NOT NULL,
        PRIMARY KEY (internal_id, provider)
    );
	`

	// Flatten order is (district_id, position).
	createDistrictIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_areas_district_position
    ON areas(district_id, position);
	`

	createProviderIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_area_provider_ids_provider
    ON area_provider_ids(provider, provider_id);
	`

	statements := []string{
		createAreasQuery,
		createProviderIDsQuery,
		createDistrictIndexQuery,
		createProviderIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Make the areas tables mirror the given dataset in a single transaction.
// Existing rows are updated, provider mappings replaced, and areas absent
// from the dataset removed.
func SeedFromDataset(ctx context.Context, db *sql.DB, d dataset.Districts) error {
	if db == nil {
		return errors.New("seed areas: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed areas: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsertArea, err := tx.PrepareContext(ctx, `
	INSERT INTO areas (
		internal_id,
		name,
		post_code,
		zone_id,
		district_id,
		district_name,
		division_id,
		division_name,
		position
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (internal_id) DO UPDATE
	SET name = EXCLUDED.name,
		post_code = EXCLUDED.post_code,
		zone_id = EXCLUDED.zone_id,
		district_id = EXCLUDED.district_id,
		district_name = EXCLUDED.district_name,
		division_id = EXCLUDED.division_id,
		division_name = EXCLUDED.division_name,
		position = EXCLUDED.position;
	`)
	if err != nil {
		return fmt.Errorf("seed areas: prepare area upsert: %w", err)
	}
	defer upsertArea.Close()

	clearProviders, err := tx.PrepareContext(ctx, `DELETE FROM area_provider_ids WHERE internal_id = $1;`)
	if err != nil {
		return fmt.Errorf("seed areas: prepare provider delete: %w", err)
	}
	defer clearProviders.Close()

	insertProvider, err := tx.PrepareContext(ctx, `
	INSERT INTO area_provider_ids (internal_id, provider, provider_id)
	VALUES ($1, $2, $3);
	`)
	if err != nil {
		return fmt.Errorf("seed areas: prepare provider insert: %w", err)
	}
	defer insertProvider.Close()

	keep := make([]int, 0, 256)
	for _, districtID := range d.IDs() {
		for pos, a := range d[districtID] {
			var postCode sql.NullString
			if a.HasPostCode() {
				postCode = sql.NullString{String: *a.PostCode, Valid: true}
			}

			if _, err := upsertArea.ExecContext(ctx,
				a.InternalID, a.Name, postCode, a.ZoneID,
				a.DistrictID, a.DistrictName, a.DivisionID, a.DivisionName, pos,
			); err != nil {
				return fmt.Errorf("seed areas: upsert internal_id=%d: %w", a.InternalID, err)
			}

			if _, err := clearProviders.ExecContext(ctx, a.InternalID); err != nil {
				return fmt.Errorf("seed areas: clear providers internal_id=%d: %w", a.InternalID, err)
			}

			providers := make([]domain.Provider, 0, len(a.Providers))
			for p := range a.Providers {
				providers = append(providers, p)
			}
			slices.Sort(providers)
			for _, p := range providers {
				if _, err := insertProvider.ExecContext(ctx, a.InternalID, string(p), a.Providers[p]); err != nil {
					return fmt.Errorf("seed areas: insert provider %s internal_id=%d: %w", p, a.InternalID, err)
				}
			}

			keep = append(keep, a.InternalID)
		}
	}

	// Provider rows of pruned areas go with them (ON DELETE CASCADE).
	if _, err := tx.ExecContext(ctx, `DELETE FROM areas WHERE NOT (internal_id = ANY($1::int[]));`, keep); err != nil {
		return fmt.Errorf("seed areas: prune stale areas: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed areas: commit tx: %w", err)
	}

	return nil
}
