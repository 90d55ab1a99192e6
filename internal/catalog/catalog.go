// Package catalog indexes delivery areas for constant-time lookups.
//
// A Catalog is built once from a slice of areas and is immutable afterwards,
// so it is safe for concurrent use without locking. Every returned Area is a
// deep copy.
package catalog

import (
	"delivery-area-service/internal/domain"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"slices"
	"strconv"
	"strings"
)

// ProviderConflict records two areas claiming the same provider ID.
// The area that comes first in flatten order keeps the mapping.
type ProviderConflict struct {
	Provider          domain.Provider
	ProviderID        int
	KeptInternalID    int
	DroppedInternalID int
}

type Catalog struct {
	areas []domain.Area

	byID       map[int]int
	byProvider map[domain.Provider]map[int]int
	byDistrict map[int][]int
	byDivision map[int][]int
	byPostCode map[string][]int
	nameIndex  map[string][]int
	names      []string // normalized, parallel to areas

	districts []domain.District
	divisions []domain.Division
	providers []domain.Provider
	conflicts []ProviderConflict

	fingerprint string
}

// New validates the areas and builds every index.
//
// Areas are stably ordered by district ID, which yields flatten order when the
// input is already grouped in dataset order.
func New(areas []domain.Area) (*Catalog, error) {
	c := &Catalog{
		areas:      make([]domain.Area, 0, len(areas)),
		byID:       make(map[int]int, len(areas)),
		byProvider: make(map[domain.Provider]map[int]int),
		byDistrict: make(map[int][]int),
		byDivision: make(map[int][]int),
		byPostCode: make(map[string][]int),
		nameIndex:  make(map[string][]int, len(areas)),
		names:      make([]string, 0, len(areas)),
	}

	for _, a := range areas {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("build catalog: %w", err)
		}
		b := a.Clone()
		if err := normalizeProviders(&b); err != nil {
			return nil, fmt.Errorf("build catalog: %w", err)
		}
		c.areas = append(c.areas, b)
	}

	slices.SortStableFunc(c.areas, func(a, b domain.Area) int {
		return a.DistrictID - b.DistrictID
	})

	for i, a := range c.areas {
		if prev, dup := c.byID[a.InternalID]; dup {
			return nil, fmt.Errorf(
				"build catalog: duplicate internal id %d (%q and %q)",
				a.InternalID, c.areas[prev].Name, a.Name,
			)
		}
		c.byID[a.InternalID] = i

		for _, p := range sortedProviders(a.Providers) {
			id := a.Providers[p]
			ids, ok := c.byProvider[p]
			if !ok {
				ids = make(map[int]int)
				c.byProvider[p] = ids
			}
			if kept, taken := ids[id]; taken {
				c.conflicts = append(c.conflicts, ProviderConflict{
					Provider:          p,
					ProviderID:        id,
					KeptInternalID:    c.areas[kept].InternalID,
					DroppedInternalID: a.InternalID,
				})
				continue
			}
			ids[id] = i
		}

		c.byDistrict[a.DistrictID] = append(c.byDistrict[a.DistrictID], i)
		c.byDivision[a.DivisionID] = append(c.byDivision[a.DivisionID], i)
		if a.HasPostCode() {
			c.byPostCode[*a.PostCode] = append(c.byPostCode[*a.PostCode], i)
		}

		key := normalizeName(a.Name)
		c.nameIndex[key] = append(c.nameIndex[key], i)
		c.names = append(c.names, key)
	}

	c.buildSummaries()

	fp, err := fingerprint(c.areas)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	c.fingerprint = fp

	return c, nil
}

// fingerprint hashes the areas in flatten order. Map keys are sorted by
// encoding/json, so equal content always gives the same value.
func fingerprint(areas []domain.Area) (string, error) {
	h := fnv.New64a()
	enc := json.NewEncoder(h)
	for _, a := range areas {
		if err := enc.Encode(a); err != nil {
			return "", fmt.Errorf("fingerprint area %d: %w", a.InternalID, err)
		}
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

func (c *Catalog) buildSummaries() {
	districtIDs := make([]int, 0, len(c.byDistrict))
	for id := range c.byDistrict {
		districtIDs = append(districtIDs, id)
	}
	slices.Sort(districtIDs)

	districtsPerDivision := make(map[int]int)
	c.districts = make([]domain.District, 0, len(districtIDs))
	for _, id := range districtIDs {
		idx := c.byDistrict[id]
		first := c.areas[idx[0]]
		c.districts = append(c.districts, domain.District{
			ID:           id,
			Name:         first.DistrictName,
			DivisionID:   first.DivisionID,
			DivisionName: first.DivisionName,
			AreaCount:    len(idx),
		})
		districtsPerDivision[first.DivisionID]++
	}

	divisionIDs := make([]int, 0, len(c.byDivision))
	for id := range c.byDivision {
		divisionIDs = append(divisionIDs, id)
	}
	slices.Sort(divisionIDs)

	c.divisions = make([]domain.Division, 0, len(divisionIDs))
	for _, id := range divisionIDs {
		idx := c.byDivision[id]
		c.divisions = append(c.divisions, domain.Division{
			ID:            id,
			Name:          c.areas[idx[0]].DivisionName,
			DistrictCount: districtsPerDivision[id],
			AreaCount:     len(idx),
		})
	}

	c.providers = make([]domain.Provider, 0, len(c.byProvider))
	for p := range c.byProvider {
		c.providers = append(c.providers, p)
	}
	slices.Sort(c.providers)
}

// normalizeProviders rewrites provider keys to their ParseProvider form.
func normalizeProviders(a *domain.Area) error {
	if len(a.Providers) == 0 {
		return nil
	}

	out := make(domain.ProviderIDs, len(a.Providers))
	for k, id := range a.Providers {
		p, err := domain.ParseProvider(string(k))
		if err != nil {
			return fmt.Errorf("area %d: %w", a.InternalID, err)
		}
		if _, dup := out[p]; dup {
			return fmt.Errorf("area %d: duplicate provider key %q", a.InternalID, k)
		}
		out[p] = id
	}
	a.Providers = out
	return nil
}

func sortedProviders(ids domain.ProviderIDs) []domain.Provider {
	out := make([]domain.Provider, 0, len(ids))
	for p := range ids {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// ByID returns the area with the given internal ID.
func (c *Catalog) ByID(id int) (domain.Area, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Area{}, false
	}
	return c.areas[i].Clone(), true
}

// ByProviderID resolves a provider's own area ID. The provider key is
// matched case-insensitively.
func (c *Catalog) ByProviderID(provider domain.Provider, id int) (domain.Area, bool) {
	p := domain.Provider(strings.ToLower(strings.TrimSpace(string(provider))))
	i, ok := c.byProvider[p][id]
	if !ok {
		return domain.Area{}, false
	}
	return c.areas[i].Clone(), true
}

func (c *Catalog) ByDistrict(districtID int) []domain.Area {
	return c.collect(c.byDistrict[districtID])
}

func (c *Catalog) ByDivision(divisionID int) []domain.Area {
	return c.collect(c.byDivision[divisionID])
}

// ByPostCode filters by post code. Areas without a post code never match.
func (c *Catalog) ByPostCode(code string) []domain.Area {
	code = domain.NormalizePostCode(code)
	if code == "" {
		return []domain.Area{}
	}
	return c.collect(c.byPostCode[code])
}

// All returns every area in flatten order.
func (c *Catalog) All() []domain.Area {
	out := make([]domain.Area, 0, len(c.areas))
	for _, a := range c.areas {
		out = append(out, a.Clone())
	}
	return out
}

func (c *Catalog) Districts() []domain.District { return slices.Clone(c.districts) }

func (c *Catalog) Divisions() []domain.Division { return slices.Clone(c.divisions) }

func (c *Catalog) Providers() []domain.Provider { return slices.Clone(c.providers) }

func (c *Catalog) Conflicts() []ProviderConflict { return slices.Clone(c.conflicts) }

func (c *Catalog) Len() int { return len(c.areas) }

// Fingerprint identifies the catalog's content. Two catalogs built from the
// same areas share it.
func (c *Catalog) Fingerprint() string { return c.fingerprint }

func (c *Catalog) collect(idx []int) []domain.Area {
	out := make([]domain.Area, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.areas[i].Clone())
	}
	return out
}
