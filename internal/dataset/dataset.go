// Package dataset decodes and encodes the generated district → areas asset.
//
// Wire format: a JSON object keyed by decimal district ID, each value an
// array of area records. The embedded areas.json is the catalog shipped with
// the service; cmd/dbtool export regenerates it from Postgres.
package dataset

import (
	"bytes"
	"delivery-area-service/internal/domain"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

//go:embed areas.json
var embedded []byte

// Districts maps a district ID to its areas in dataset order.
type Districts map[int][]domain.Area

type record struct {
	InternalID   int            `json:"internalId"`
	Name         string         `json:"name"`
	PostCode     *string        `json:"postCode"`
	ZoneID       int            `json:"zoneId"`
	DistrictID   int            `json:"districtId"`
	DistrictName string         `json:"districtName"`
	DivisionID   int            `json:"divisionId"`
	DivisionName string         `json:"divisionName"`
	Providers    map[string]int `json:"providers"`
}

// Load decodes the embedded asset.
func Load() (Districts, error) {
	d, err := Decode(bytes.NewReader(embedded))
	if err != nil {
		return nil, fmt.Errorf("load embedded dataset: %w", err)
	}
	return d, nil
}

// Decode parses and validates a dataset document.
func Decode(r io.Reader) (Districts, error) {
	dec := json.NewDecoder(r)

	var raw map[string][]record
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dataset: parse json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode dataset: trailing data after document")
	}

	out := make(Districts, len(raw))
	for key, recs := range raw {
		// Keys must be canonical so "6" and "06" cannot name the same district.
		districtID, err := strconv.Atoi(key)
		if err != nil || districtID <= 0 || strconv.Itoa(districtID) != key {
			return nil, fmt.Errorf("decode dataset: invalid district key %q", key)
		}
		if _, dup := out[districtID]; dup {
			return nil, fmt.Errorf("decode dataset: duplicate district key %q", key)
		}

		areas := make([]domain.Area, 0, len(recs))
		for i, rec := range recs {
			a, err := rec.toArea()
			if err != nil {
				return nil, fmt.Errorf("decode dataset: district %d record #%d: %w", districtID, i+1, err)
			}
			if a.DistrictID != districtID {
				return nil, fmt.Errorf(
					"decode dataset: district %d record #%d: districtId %d does not match enclosing key",
					districtID, i+1, a.DistrictID,
				)
			}
			if err := a.Validate(); err != nil {
				return nil, fmt.Errorf("decode dataset: district %d record #%d: %w", districtID, i+1, err)
			}
			areas = append(areas, a)
		}
		out[districtID] = areas
	}

	return out, nil
}

func (rec record) toArea() (domain.Area, error) {
	a := domain.Area{
		InternalID:   rec.InternalID,
		Name:         rec.Name,
		ZoneID:       rec.ZoneID,
		DistrictID:   rec.DistrictID,
		DistrictName: rec.DistrictName,
		DivisionID:   rec.DivisionID,
		DivisionName: rec.DivisionName,
		Providers:    make(domain.ProviderIDs, len(rec.Providers)),
	}

	// An empty string and null both mean "no post code".
	if rec.PostCode != nil {
		if pc := domain.NormalizePostCode(*rec.PostCode); pc != "" {
			a.PostCode = &pc
		}
	}

	for k, id := range rec.Providers {
		p, err := domain.ParseProvider(k)
		if err != nil {
			return domain.Area{}, err
		}
		if _, dup := a.Providers[p]; dup {
			return domain.Area{}, fmt.Errorf("duplicate provider key %q", k)
		}
		a.Providers[p] = id
	}

	return a, nil
}

func fromArea(a domain.Area) record {
	rec := record{
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
		rec.Providers[string(p)] = id
	}
	return rec
}

// IDs returns the district IDs in ascending order.
func (d Districts) IDs() []int {
	ids := make([]int, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Flatten returns every area ordered by district ID, then dataset order.
func (d Districts) Flatten() []domain.Area {
	n := 0
	for _, areas := range d {
		n += len(areas)
	}

	out := make([]domain.Area, 0, n)
	for _, id := range d.IDs() {
		out = append(out, d[id]...)
	}
	return out
}

// Group is the inverse of Flatten. Input order is preserved within a district.
func Group(areas []domain.Area) Districts {
	out := make(Districts)
	for _, a := range areas {
		out[a.DistrictID] = append(out[a.DistrictID], a)
	}
	return out
}

// Encode writes d in the wire format with district keys in numeric order.
// encoding/json would order the keys lexically ("15" before "6").
func Encode(w io.Writer, d Districts) error {
	var buf bytes.Buffer
	buf.WriteString("{\n")

	ids := d.IDs()
	for i, id := range ids {
		recs := make([]record, 0, len(d[id]))
		for _, a := range d[id] {
			recs = append(recs, fromArea(a))
		}

		body, err := json.MarshalIndent(recs, "  ", "  ")
		if err != nil {
			return fmt.Errorf("encode dataset: district %d: %w", id, err)
		}

		fmt.Fprintf(&buf, "  %q: %s", strconv.Itoa(id), body)
		if i < len(ids)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("encode dataset: write: %w", err)
	}
	return nil
}
