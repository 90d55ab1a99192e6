package services

import (
	"context"
	"delivery-area-service/internal/catalog"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/platform/logger"
	"delivery-area-service/internal/platform/metrics"
	"delivery-area-service/internal/platform/obs"
	"delivery-area-service/internal/ports"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
	ErrAreaNotFound     = errors.New("area not found")
)

// snapshot is one loaded catalog generation.
type snapshot struct {
	cat      *catalog.Catalog
	version  uint64
	loadedAt time.Time
}

type Stats struct {
	Version     uint64
	Fingerprint string
	LoadedAt    time.Time
	Areas       int
	Districts   int
	Divisions   int
	Providers   []domain.Provider
	Conflicts   []catalog.ProviderConflict
}

// AreaFilter narrows AllAreas. Zero values are ignored; set fields are ANDed.
type AreaFilter struct {
	DistrictID int
	DivisionID int
	PostCode   string
}

// AreaService serves lookups from the current catalog and swaps in a new
// one on reload. Readers never block on a reload.
type AreaService struct {
	repo   ports.AreaRepository
	cache  ports.SearchCache
	log    *slog.Logger
	now    func() time.Time
	loads  singleflight.Group
	latest atomic.Uint64
	cur    atomic.Pointer[snapshot]
}

type Option func(*AreaService)

// WithSearchCache enables cache-aside search through c.
func WithSearchCache(c ports.SearchCache) Option {
	return func(s *AreaService) { s.cache = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *AreaService) { s.log = l }
}

func NewAreaService(repo ports.AreaRepository, opts ...Option) *AreaService {
	s := &AreaService{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.L()
	}
	return s
}

// Load fetches every area from the repository, builds a catalog and makes it
// current. Concurrent calls share one fetch, which is not cancelled when the
// caller that started it goes away. On failure the previous catalog stays in
// place.
func (s *AreaService) Load(ctx context.Context) error {
	_, err, _ := s.loads.Do("load", func() (any, error) {
		return nil, s.load(context.WithoutCancel(ctx))
	})
	return err
}

// Reload is Load for an already serving catalog; it logs the outcome.
func (s *AreaService) Reload(ctx context.Context) error {
	prev := s.Version()
	if err := s.Load(ctx); err != nil {
		s.log.ErrorContext(ctx, "catalog reload failed", "version", prev, "err", err)
		return err
	}
	s.log.InfoContext(ctx, "catalog reloaded", "from_version", prev, "version", s.Version())
	return nil
}

func (s *AreaService) load(ctx context.Context) (err error) {
	defer obs.Time(ctx, "catalog.load")(&err)
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.CatalogReloadsTotal.WithLabelValues(result).Inc()
	}()

	if s.repo == nil {
		return errors.New("load catalog: repository is nil")
	}

	areas, err := s.repo.ListAreas(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	cat, err := catalog.New(areas)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	for _, c := range cat.Conflicts() {
		s.log.WarnContext(ctx, "provider id claimed by more than one area",
			"provider", c.Provider,
			"provider_id", c.ProviderID,
			"kept_internal_id", c.KeptInternalID,
			"dropped_internal_id", c.DroppedInternalID,
		)
	}

	snap := &snapshot{cat: cat, version: s.latest.Add(1), loadedAt: s.now()}
	s.cur.Store(snap)

	metrics.CatalogAreas.Set(float64(cat.Len()))
	metrics.CatalogVersion.Set(float64(snap.version))
	metrics.ProviderConflicts.Set(float64(len(cat.Conflicts())))

	s.log.InfoContext(ctx, "catalog loaded",
		"version", snap.version,
		"areas", cat.Len(),
		"districts", len(cat.Districts()),
		"conflicts", len(cat.Conflicts()),
	)
	return nil
}

// StartAutoReload reloads every interval until ctx is done. A non-positive
// interval does nothing.
func (s *AreaService) StartAutoReload(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if ctx.Err() != nil {
					return
				}
				_ = s.Reload(ctx)
			}
		}
	}()
}

func (s *AreaService) Ready() bool { return s.cur.Load() != nil }

// Version returns the current catalog version, 0 before the first load.
func (s *AreaService) Version() uint64 {
	if snap := s.cur.Load(); snap != nil {
		return snap.version
	}
	return 0
}

func (s *AreaService) current() (*snapshot, error) {
	snap := s.cur.Load()
	if snap == nil {
		return nil, ErrCatalogNotLoaded
	}
	return snap, nil
}

func (s *AreaService) Area(id int) (domain.Area, error) {
	snap, err := s.current()
	if err != nil {
		return domain.Area{}, err
	}

	a, ok := snap.cat.ByID(id)
	metrics.Lookup("id", ok)
	if !ok {
		return domain.Area{}, fmt.Errorf("area %d: %w", id, ErrAreaNotFound)
	}
	return a, nil
}

func (s *AreaService) AreaByProvider(p domain.Provider, id int) (domain.Area, error) {
	snap, err := s.current()
	if err != nil {
		return domain.Area{}, err
	}

	a, ok := snap.cat.ByProviderID(p, id)
	metrics.Lookup("provider", ok)
	if !ok {
		return domain.Area{}, fmt.Errorf("%s area %d: %w", p, id, ErrAreaNotFound)
	}
	return a, nil
}

func (s *AreaService) AreasByDistrict(id int) ([]domain.Area, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	out := snap.cat.ByDistrict(id)
	metrics.Lookup("district", len(out) > 0)
	return out, nil
}

func (s *AreaService) AreasByDivision(id int) ([]domain.Area, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	out := snap.cat.ByDivision(id)
	metrics.Lookup("division", len(out) > 0)
	return out, nil
}

func (s *AreaService) AreasByPostCode(code string) ([]domain.Area, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	out := snap.cat.ByPostCode(code)
	metrics.Lookup("postcode", len(out) > 0)
	return out, nil
}

// AllAreas returns every area in flatten order, narrowed by f.
func (s *AreaService) AllAreas(f AreaFilter) ([]domain.Area, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}

	// Start from the narrowest index, then apply the rest.
	var base []domain.Area
	switch {
	case domain.NormalizePostCode(f.PostCode) != "":
		base = snap.cat.ByPostCode(f.PostCode)
	case f.DistrictID != 0:
		base = snap.cat.ByDistrict(f.DistrictID)
	case f.DivisionID != 0:
		base = snap.cat.ByDivision(f.DivisionID)
	default:
		return snap.cat.All(), nil
	}

	out := base[:0]
	for _, a := range base {
		if f.DistrictID != 0 && a.DistrictID != f.DistrictID {
			continue
		}
		if f.DivisionID != 0 && a.DivisionID != f.DivisionID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *AreaService) Districts() ([]domain.District, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.cat.Districts(), nil
}

func (s *AreaService) Divisions() ([]domain.Division, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.cat.Divisions(), nil
}

func (s *AreaService) Providers() ([]domain.Provider, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.cat.Providers(), nil
}

// Search runs a name search, going through the search cache when one is
// configured. Cache failures are logged and the catalog is searched directly.
func (s *AreaService) Search(ctx context.Context, query string, opts catalog.SearchOptions) ([]domain.Area, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}

	opts = opts.Normalized()
	q := catalog.NormalizeQuery(query)
	if q == "" || s.cache == nil {
		return snap.cat.Search(q, opts), nil
	}

	key := searchKey(snap.cat.Fingerprint(), q, opts)
	cached, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.SearchCacheTotal.WithLabelValues("error").Inc()
		s.log.WarnContext(ctx, "search cache get failed", "req_id", obs.RequestID(ctx), "err", err)
	case ok:
		metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.SearchCacheTotal.WithLabelValues("miss").Inc()
	}

	out := snap.cat.Search(q, opts)
	if err := s.cache.Put(ctx, key, out); err != nil {
		s.log.WarnContext(ctx, "search cache put failed", "req_id", obs.RequestID(ctx), "err", err)
	}
	return out, nil
}

// searchKey scopes cached results to the catalog content they came from,
// so a reload or a restart against different data never sees stale entries.
func searchKey(fingerprint, q string, opts catalog.SearchOptions) string {
	return fingerprint +
		":f" + strconv.Itoa(opts.Fuzzy) +
		":l" + strconv.Itoa(opts.Limit) +
		":" + q
}

func (s *AreaService) Stats() (Stats, error) {
	snap, err := s.current()
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Version:     snap.version,
		Fingerprint: snap.cat.Fingerprint(),
		LoadedAt:    snap.loadedAt,
		Areas:       snap.cat.Len(),
		Districts:   len(snap.cat.Districts()),
		Divisions:   len(snap.cat.Divisions()),
		Providers:   snap.cat.Providers(),
		Conflicts:   snap.cat.Conflicts(),
	}, nil
}
