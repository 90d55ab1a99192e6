package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLookupCountsHitAndMiss(t *testing.T) {
	hits := testutil.ToFloat64(LookupsTotal.WithLabelValues("test_kind", "hit"))
	misses := testutil.ToFloat64(LookupsTotal.WithLabelValues("test_kind", "miss"))

	Lookup("test_kind", true)
	Lookup("test_kind", false)
	Lookup("test_kind", false)

	if got := testutil.ToFloat64(LookupsTotal.WithLabelValues("test_kind", "hit")); got != hits+1 {
		t.Fatalf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(LookupsTotal.WithLabelValues("test_kind", "miss")); got != misses+2 {
		t.Fatalf("misses = %v, want %v", got, misses+2)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	CatalogAreas.Set(68)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(string(body), "areas_catalog_areas 68") {
		t.Fatalf("metrics output missing catalog gauge:\n%s", body)
	}
}
