package domain

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// Provider identifies an external courier company by its lowercase key.
type Provider string

const (
	ProviderRedx      Provider = "redx"
	ProviderPathao    Provider = "pathao"
	ProviderSteadfast Provider = "steadfast"
)

// KnownProviders lists the couriers the catalog is generated against.
// Keys outside this list are still accepted from data.
var KnownProviders = []Provider{ProviderPathao, ProviderRedx, ProviderSteadfast}

// Normalize a provider key (trim + lowercase).
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return "", errors.New("parse provider: provider must be non-empty")
	}
	return p, nil
}

// External numeric area IDs keyed by provider.
type ProviderIDs map[Provider]int

// Represents a single named delivery locality inside a district.
// PostCode is nil when the locality has no postal code assigned.
type Area struct {
	InternalID   int
	Name         string
	PostCode     *string
	ZoneID       int
	DistrictID   int
	DistrictName string
	DivisionID   int
	DivisionName string
	Providers    ProviderIDs
}

// Return the area's ID in the given provider's numbering scheme.
func (a Area) ProviderID(p Provider) (int, bool) {
	id, ok := a.Providers[p]
	return id, ok
}

func (a Area) HasPostCode() bool {
	return a.PostCode != nil && *a.PostCode != ""
}

// Clone returns a deep copy so callers cannot mutate shared catalog state.
func (a Area) Clone() Area {
	out := a
	if a.PostCode != nil {
		pc := *a.PostCode
		out.PostCode = &pc
	}
	if a.Providers != nil {
		out.Providers = maps.Clone(a.Providers)
	}
	return out
}

// Validate checks the record-level invariants of an area.
func (a Area) Validate() error {
	if a.InternalID <= 0 {
		return fmt.Errorf("validate area: internal id must be positive, got %d", a.InternalID)
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("validate area %d: name must be non-empty", a.InternalID)
	}
	if a.DistrictID <= 0 {
		return fmt.Errorf("validate area %d: district id must be positive, got %d", a.InternalID, a.DistrictID)
	}
	if a.DivisionID <= 0 {
		return fmt.Errorf("validate area %d: division id must be positive, got %d", a.InternalID, a.DivisionID)
	}
	if a.PostCode != nil && *a.PostCode != "" && !ValidPostCode(*a.PostCode) {
		return fmt.Errorf("validate area %d: invalid post code %q", a.InternalID, *a.PostCode)
	}
	for p, id := range a.Providers {
		if p == "" {
			return fmt.Errorf("validate area %d: empty provider key", a.InternalID)
		}
		if id <= 0 {
			return fmt.Errorf("validate area %d: provider %s id must be positive, got %d", a.InternalID, p, id)
		}
	}
	return nil
}
