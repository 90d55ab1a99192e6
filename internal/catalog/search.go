package catalog

import (
	"delivery-area-service/internal/domain"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	// maxQueryLen bounds the cost of Levenshtein comparisons per candidate.
	maxQueryLen = 128

	// maxFuzzyDistance caps SearchOptions.Fuzzy.
	maxFuzzyDistance = 2

	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// SearchOptions configures name search.
type SearchOptions struct {
	Fuzzy int // Max edit distance for typo tolerance (0 = disabled)
	Limit int // Max results (0 = DefaultSearchLimit)
}

// Normalized returns the options with defaults and caps applied.
func (o SearchOptions) Normalized() SearchOptions {
	if o.Fuzzy < 0 {
		o.Fuzzy = 0
	}
	if o.Fuzzy > maxFuzzyDistance {
		o.Fuzzy = maxFuzzyDistance
	}
	if o.Limit <= 0 {
		o.Limit = DefaultSearchLimit
	}
	if o.Limit > MaxSearchLimit {
		o.Limit = MaxSearchLimit
	}
	return o
}

// NormalizeQuery lowercases, collapses whitespace and truncates a query.
func NormalizeQuery(q string) string {
	q = normalizeName(q)
	if runes := []rune(q); len(runes) > maxQueryLen {
		q = string(runes[:maxQueryLen])
	}
	return q
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

type fuzzyHit struct {
	idx  int
	dist int
}

// Search finds areas by name.
//
// Results are tiered: exact name matches, then names containing the query,
// then (when opts.Fuzzy > 0) names or name words within the edit distance,
// closest first. Ties keep flatten order.
func (c *Catalog) Search(query string, opts SearchOptions) []domain.Area {
	opts = opts.Normalized()
	q := NormalizeQuery(query)
	if q == "" {
		return []domain.Area{}
	}

	seen := make(map[int]struct{})
	hits := make([]int, 0, opts.Limit)
	add := func(i int) bool {
		if _, ok := seen[i]; ok {
			return len(hits) < opts.Limit
		}
		seen[i] = struct{}{}
		hits = append(hits, i)
		return len(hits) < opts.Limit
	}

	for _, i := range c.nameIndex[q] {
		if !add(i) {
			return c.collect(hits)
		}
	}

	for i, name := range c.names {
		if _, ok := seen[i]; ok {
			continue
		}
		if strings.Contains(name, q) {
			if !add(i) {
				return c.collect(hits)
			}
		}
	}

	if opts.Fuzzy == 0 {
		return c.collect(hits)
	}

	fuzzy := make([]fuzzyHit, 0)
	for i, name := range c.names {
		if _, ok := seen[i]; ok {
			continue
		}
		if d, ok := nameDistance(q, name, opts.Fuzzy); ok {
			fuzzy = append(fuzzy, fuzzyHit{idx: i, dist: d})
		}
	}
	slices.SortStableFunc(fuzzy, func(a, b fuzzyHit) int { return a.dist - b.dist })

	for _, h := range fuzzy {
		if !add(h.idx) {
			break
		}
	}
	return c.collect(hits)
}

// nameDistance returns the smallest edit distance between the query and
// either the whole name or one of its words, if within maxDist.
func nameDistance(q, name string, maxDist int) (int, bool) {
	best := levenshtein.ComputeDistance(q, name)
	if !strings.Contains(q, " ") {
		for _, w := range strings.Fields(name) {
			if d := levenshtein.ComputeDistance(q, w); d < best {
				best = d
			}
		}
	}
	return best, best <= maxDist
}
