package api

import (
	"delivery-area-service/internal/api/handlers"
	"delivery-area-service/internal/platform/metrics"
	"delivery-area-service/internal/services"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers check methods themselves so 405s carry a JSON body and an Allow header.
func NewRouter(areas *services.AreaService, adminToken string) http.Handler {
	mux := http.NewServeMux()

	ready := &handlers.ReadyHandler{Areas: areas}
	areaHandler := &handlers.AreaHandler{Areas: areas}
	regionHandler := &handlers.RegionHandler{Areas: areas}
	adminHandler := &handlers.AdminHandler{Areas: areas, Token: adminToken}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/ready", ready.Ready)

	mux.HandleFunc("/areas", areaHandler.List)
	mux.HandleFunc("/areas/search", areaHandler.Search)
	mux.HandleFunc("/areas/{id}", areaHandler.Get)
	mux.HandleFunc("/providers", areaHandler.Providers)
	mux.HandleFunc("/providers/{provider}/areas/{id}", areaHandler.ByProvider)

	mux.HandleFunc("/districts", regionHandler.Districts)
	mux.HandleFunc("/districts/{id}/areas", regionHandler.DistrictAreas)
	mux.HandleFunc("/divisions", regionHandler.Divisions)
	mux.HandleFunc("/divisions/{id}/areas", regionHandler.DivisionAreas)
	mux.HandleFunc("/postcodes/{code}/areas", regionHandler.PostCodeAreas)

	mux.HandleFunc("/stats", adminHandler.Stats)
	mux.HandleFunc("/admin/reload", adminHandler.Reload)

	mux.Handle("/metrics", metrics.Handler())

	return requestIDMiddleware(loggingMiddleware(metricsMiddleware(mux)))
}
