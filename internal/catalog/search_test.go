package catalog

import (
	"delivery-area-service/internal/domain"
	"strings"
	"testing"
)

func TestSearchExactBeforeSubstring(t *testing.T) {
	c := loadCatalog(t)

	got := names(c.Search("  MIRPUR ", SearchOptions{}))
	if len(got) != 2 {
		t.Fatalf("search mirpur = %v, want 2 results", got)
	}
	if got[0] != "Mirpur" || got[1] != "Mirpur DOHS" {
		t.Fatalf("search mirpur = %v, want [Mirpur Mirpur DOHS]", got)
	}
}

func TestSearchSameNameAcrossDistricts(t *testing.T) {
	c := loadCatalog(t)

	res := c.Search("kotwali", SearchOptions{})
	if len(res) != 2 {
		t.Fatalf("search kotwali = %d results, want 2", len(res))
	}
	if res[0].DistrictID != 6 || res[1].DistrictID != 15 {
		t.Fatalf("kotwali districts = %d, %d, want 6, 15", res[0].DistrictID, res[1].DistrictID)
	}
}

func TestSearchFuzzy(t *testing.T) {
	c := loadCatalog(t)

	if got := c.Search("gulshn", SearchOptions{}); len(got) != 0 {
		t.Fatalf("non-fuzzy search for typo returned %v", names(got))
	}

	got := names(c.Search("gulshn", SearchOptions{Fuzzy: 1}))
	if len(got) != 1 || got[0] != "Gulshan" {
		t.Fatalf("fuzzy gulshn = %v, want [Gulshan]", got)
	}

	// Matches a word inside a multi-word name.
	got = names(c.Search("cantonmant", SearchOptions{Fuzzy: 1}))
	if len(got) != 1 || got[0] != "Dhaka Cantonment" {
		t.Fatalf("fuzzy cantonmant = %v, want [Dhaka Cantonment]", got)
	}
}

func TestSearchRanksSubstringThenClosestFuzzy(t *testing.T) {
	// Flatten order is the reverse of the expected ranking.
	c, err := New([]domain.Area{
		{InternalID: 1, Name: "Golshon", DistrictID: 1, DivisionID: 1},
		{InternalID: 2, Name: "Gulshon", DistrictID: 1, DivisionID: 1},
		{InternalID: 3, Name: "Gulshan North", DistrictID: 1, DivisionID: 1},
		{InternalID: 4, Name: "Uttara", DistrictID: 1, DivisionID: 1},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}

	got := names(c.Search("gulshan", SearchOptions{Fuzzy: 2}))
	want := []string{"Gulshan North", "Gulshon", "Golshon"}
	if len(got) != len(want) {
		t.Fatalf("search gulshan = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("search gulshan = %v, want %v", got, want)
		}
	}

	got = names(c.Search("gulshan", SearchOptions{Fuzzy: 1}))
	if len(got) != 2 || got[0] != "Gulshan North" || got[1] != "Gulshon" {
		t.Fatalf("search gulshan fuzzy 1 = %v, want [Gulshan North Gulshon]", got)
	}

	got = names(c.Search("gulshan", SearchOptions{Fuzzy: 2, Limit: 2}))
	if len(got) != 2 || got[1] != "Gulshon" {
		t.Fatalf("search gulshan limit 2 = %v, want closest fuzzy hit second", got)
	}
}

func TestSearchFuzzyDistanceIsCapped(t *testing.T) {
	opts := SearchOptions{Fuzzy: 10, Limit: 1000}.Normalized()
	if opts.Fuzzy != maxFuzzyDistance {
		t.Fatalf("fuzzy = %d, want %d", opts.Fuzzy, maxFuzzyDistance)
	}
	if opts.Limit != MaxSearchLimit {
		t.Fatalf("limit = %d, want %d", opts.Limit, MaxSearchLimit)
	}

	opts = SearchOptions{Fuzzy: -3}.Normalized()
	if opts.Fuzzy != 0 || opts.Limit != DefaultSearchLimit {
		t.Fatalf("normalized = %+v", opts)
	}
}

func TestSearchLimitAndEmptyQuery(t *testing.T) {
	c := loadCatalog(t)

	if got := c.Search("a", SearchOptions{Limit: 5}); len(got) != 5 {
		t.Fatalf("limit 5 returned %d", len(got))
	}

	got := c.Search("   ", SearchOptions{})
	if got == nil || len(got) != 0 {
		t.Fatalf("blank query = %#v, want empty slice", got)
	}
}

func TestNormalizeQueryTruncates(t *testing.T) {
	q := NormalizeQuery(strings.Repeat("ঢা", 200))
	if n := len([]rune(q)); n != maxQueryLen {
		t.Fatalf("query runes = %d, want %d", n, maxQueryLen)
	}

	if got := NormalizeQuery("  Bashundhara   R/A "); got != "bashundhara r/a" {
		t.Fatalf("NormalizeQuery = %q", got)
	}
}
