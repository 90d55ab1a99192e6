package catalog

import (
	"delivery-area-service/internal/dataset"
	"delivery-area-service/internal/domain"
	"sync"
	"testing"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()

	d, err := dataset.Load()
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	c, err := New(d.Flatten())
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

func names(areas []domain.Area) []string {
	out := make([]string, 0, len(areas))
	for _, a := range areas {
		out = append(out, a.Name)
	}
	return out
}

func TestCatalogByID(t *testing.T) {
	c := loadCatalog(t)

	a, ok := c.ByID(24)
	if !ok {
		t.Fatal("expected area 24")
	}
	if a.Name != "Dhanmondi" || a.DistrictID != 26 || a.DivisionName != "Dhaka" {
		t.Fatalf("area 24 = %+v", a)
	}
	if !a.HasPostCode() || *a.PostCode != "1205" {
		t.Fatalf("area 24 post code = %v, want 1205", a.PostCode)
	}

	if _, ok := c.ByID(9999); ok {
		t.Fatal("expected miss for unknown id")
	}
}

func TestCatalogByProviderID(t *testing.T) {
	c := loadCatalog(t)

	a, ok := c.ByProviderID("REDX", 1364)
	if !ok {
		t.Fatal("expected redx 1364 to resolve")
	}
	if a.InternalID != 24 {
		t.Fatalf("redx 1364 -> %d, want 24", a.InternalID)
	}

	a, ok = c.ByProviderID(domain.ProviderSteadfast, 311)
	if !ok || a.Name != "Kotwali" || a.DistrictID != 15 {
		t.Fatalf("steadfast 311 -> %+v, %v", a, ok)
	}

	if _, ok := c.ByProviderID(domain.ProviderRedx, 1); ok {
		t.Fatal("expected miss for unknown redx id")
	}
	if _, ok := c.ByProviderID("ecourier", 1364); ok {
		t.Fatal("expected miss for unknown provider")
	}
}

func TestCatalogFilters(t *testing.T) {
	c := loadCatalog(t)

	dhaka := c.ByDistrict(26)
	if len(dhaka) != 24 {
		t.Fatalf("district 26 areas = %d, want 24", len(dhaka))
	}
	if dhaka[0].Name != "Motijheel" || dhaka[23].Name != "Demra" {
		t.Fatalf("district 26 order: first=%q last=%q", dhaka[0].Name, dhaka[23].Name)
	}

	division := c.ByDivision(30)
	if len(division) != 34 {
		t.Fatalf("division 30 areas = %d, want 34", len(division))
	}
	if division[0].DistrictID != 26 || division[33].Name != "Rupganj" {
		t.Fatalf("division 30 order: first district=%d last=%q", division[0].DistrictID, division[33].Name)
	}

	got := names(c.ByPostCode(" 1212 "))
	if len(got) != 2 || got[0] != "Gulshan" || got[1] != "Badda" {
		t.Fatalf("post code 1212 = %v, want [Gulshan Badda]", got)
	}

	for _, miss := range [][]domain.Area{c.ByDistrict(1), c.ByDivision(99), c.ByPostCode("0000"), c.ByPostCode("")} {
		if miss == nil || len(miss) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", miss)
		}
	}
}

func TestCatalogNullPostCodeNeverMatches(t *testing.T) {
	c := loadCatalog(t)

	a, ok := c.ByID(39)
	if !ok || a.Name != "Mirpur DOHS" {
		t.Fatalf("area 39 = %+v, %v", a, ok)
	}
	if a.HasPostCode() {
		t.Fatalf("Mirpur DOHS should have no post code, got %q", *a.PostCode)
	}

	for _, area := range c.ByPostCode("1216") {
		if area.InternalID == 39 {
			t.Fatal("area without post code matched a post code filter")
		}
	}
}

func TestCatalogAllAndSummaries(t *testing.T) {
	c := loadCatalog(t)

	all := c.All()
	if len(all) != 68 || c.Len() != 68 {
		t.Fatalf("all = %d, len = %d, want 68", len(all), c.Len())
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].DistrictID > all[i].DistrictID {
			t.Fatalf("flatten order broken at %d: %d > %d", i, all[i-1].DistrictID, all[i].DistrictID)
		}
	}

	districts := c.Districts()
	if len(districts) != 11 {
		t.Fatalf("districts = %d, want 11", len(districts))
	}
	if districts[0].ID != 6 || districts[0].Name != "Barishal" || districts[0].AreaCount != 3 {
		t.Fatalf("first district = %+v", districts[0])
	}

	divisions := c.Divisions()
	if len(divisions) != 8 {
		t.Fatalf("divisions = %d, want 8", len(divisions))
	}
	var dhaka domain.Division
	for _, d := range divisions {
		if d.ID == 30 {
			dhaka = d
		}
	}
	if dhaka.Name != "Dhaka" || dhaka.DistrictCount != 3 || dhaka.AreaCount != 34 {
		t.Fatalf("dhaka division = %+v", dhaka)
	}

	providers := c.Providers()
	want := []domain.Provider{domain.ProviderPathao, domain.ProviderRedx, domain.ProviderSteadfast}
	if len(providers) != len(want) {
		t.Fatalf("providers = %v, want %v", providers, want)
	}
	for i := range want {
		if providers[i] != want[i] {
			t.Fatalf("providers = %v, want %v", providers, want)
		}
	}

	if len(c.Conflicts()) != 0 {
		t.Fatalf("embedded dataset has conflicts: %+v", c.Conflicts())
	}
}

func TestCatalogResultsAreCopies(t *testing.T) {
	c := loadCatalog(t)

	a, _ := c.ByID(24)
	a.Providers[domain.ProviderRedx] = -1
	*a.PostCode = "0000"
	a.Name = "changed"

	again, _ := c.ByID(24)
	if again.Name != "Dhanmondi" || *again.PostCode != "1205" || again.Providers[domain.ProviderRedx] != 1364 {
		t.Fatalf("catalog state mutated through returned value: %+v", again)
	}

	d := c.Districts()
	d[0].Name = "changed"
	if c.Districts()[0].Name != "Barishal" {
		t.Fatal("district summary mutated through returned slice")
	}
}

func TestCatalogRejectsDuplicateInternalID(t *testing.T) {
	areas := []domain.Area{
		{InternalID: 1, Name: "A", DistrictID: 1, DivisionID: 1},
		{InternalID: 1, Name: "B", DistrictID: 2, DivisionID: 1},
	}
	if _, err := New(areas); err == nil {
		t.Fatal("expected duplicate internal id error")
	}
}

func TestCatalogRejectsInvalidArea(t *testing.T) {
	areas := []domain.Area{{InternalID: 1, Name: "", DistrictID: 1, DivisionID: 1}}
	if _, err := New(areas); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCatalogProviderConflictKeepsFirst(t *testing.T) {
	areas := []domain.Area{
		{InternalID: 2, Name: "Later", DistrictID: 9, DivisionID: 1, Providers: domain.ProviderIDs{domain.ProviderRedx: 77}},
		{InternalID: 1, Name: "Earlier", DistrictID: 3, DivisionID: 1, Providers: domain.ProviderIDs{domain.ProviderRedx: 77}},
	}

	c, err := New(areas)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, ok := c.ByProviderID(domain.ProviderRedx, 77)
	if !ok || a.InternalID != 1 {
		t.Fatalf("redx 77 -> %d, want 1 (first in flatten order)", a.InternalID)
	}

	conflicts := c.Conflicts()
	if len(conflicts) != 1 {
		t.Fatalf("conflicts = %d, want 1", len(conflicts))
	}
	got := conflicts[0]
	if got.Provider != domain.ProviderRedx || got.ProviderID != 77 || got.KeptInternalID != 1 || got.DroppedInternalID != 2 {
		t.Fatalf("conflict = %+v", got)
	}
}

func TestCatalogNormalizesProviderKeys(t *testing.T) {
	areas := []domain.Area{
		{InternalID: 1, Name: "A", DistrictID: 1, DivisionID: 1, Providers: domain.ProviderIDs{"RedX": 5, " Pathao ": 6}},
	}

	c, err := New(areas)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, p := range []domain.Provider{"RedX", "redx", "REDX"} {
		if a, ok := c.ByProviderID(p, 5); !ok || a.InternalID != 1 {
			t.Fatalf("ByProviderID(%q, 5) = %d, %v", p, a.InternalID, ok)
		}
	}
	if a, ok := c.ByProviderID(domain.ProviderPathao, 6); !ok || a.InternalID != 1 {
		t.Fatalf("pathao 6 = %d, %v", a.InternalID, ok)
	}

	got := c.Providers()
	if len(got) != 2 || got[0] != domain.ProviderPathao || got[1] != domain.ProviderRedx {
		t.Fatalf("providers = %v, want [pathao redx]", got)
	}

	a, _ := c.ByID(1)
	if id, ok := a.ProviderID(domain.ProviderRedx); !ok || id != 5 {
		t.Fatalf("area 1 redx id = %d, %v", id, ok)
	}
}

func TestCatalogRejectsProviderKeysEqualAfterNormalizing(t *testing.T) {
	areas := []domain.Area{
		{InternalID: 1, Name: "A", DistrictID: 1, DivisionID: 1, Providers: domain.ProviderIDs{"redx": 5, "REDX": 6}},
	}
	if _, err := New(areas); err == nil {
		t.Fatal("expected duplicate provider key error")
	}
}

func TestCatalogConcurrentReads(t *testing.T) {
	c := loadCatalog(t)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if _, ok := c.ByID(24); !ok {
					t.Error("lookup failed")
					return
				}
				_ = c.ByDivision(30)
				_ = c.Search("mirpur", SearchOptions{Fuzzy: 1})
			}
		}()
	}
	wg.Wait()
}

func TestCatalogFingerprint(t *testing.T) {
	a := loadCatalog(t)
	b := loadCatalog(t)
	if a.Fingerprint() == "" || a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprints differ for equal content: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}

	areas := a.All()
	areas[0].Name = "Barishal City"
	c, err := New(areas)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	if c.Fingerprint() == a.Fingerprint() {
		t.Fatal("fingerprint did not change with content")
	}
}
