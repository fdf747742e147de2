package similarity

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"flagCompare/business/gallery"
	"flagCompare/domain"
	"flagCompare/pkg/logger"
	"flagCompare/pkg/metrics"
)

// ---- Repository interfaces ----

type DatasetRepository interface {
	LoadDataset(ctx context.Context) (domain.Dataset, error)
}

// MatrixCache stores built matrices keyed by dataset version.
type MatrixCache interface {
	GetMatrix(ctx context.Context, version string) (*domain.SimilarityMatrix, bool, error)
	SaveMatrix(ctx context.Context, matrix *domain.SimilarityMatrix) error
}

// snapshot is one complete, immutable build. Readers never see a partial one.
type snapshot struct {
	version    string
	matrix     *domain.SimilarityMatrix
	flags      []domain.Flag
	index      map[string]int
	unresolved []string
}

type SimilarityService struct {
	datasetRepo DatasetRepository
	cache       MatrixCache
	cfg         Config

	reloadMu sync.Mutex
	current  atomic.Pointer[snapshot]
}

// NewSimilarityService wires the service; cache may be nil.
func NewSimilarityService(datasetRepo DatasetRepository, cache MatrixCache, cfg Config) *SimilarityService {
	return &SimilarityService{
		datasetRepo: datasetRepo,
		cache:       cache,
		cfg:         cfg.withDefaults(),
	}
}

// Reload loads the dataset and swaps in a new matrix when the dataset
// version changed, or always when force is set.
func (s *SimilarityService) Reload(ctx context.Context, force bool) (domain.RebuildStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.RebuildStats{}, fmt.Errorf("context error: %w", err)
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	tid := TraceIDFromContext(ctx)
	start := time.Now()

	ds, err := s.datasetRepo.LoadDataset(ctx)
	if err != nil {
		metrics.MatrixReloads.WithLabelValues("failed").Inc()
		logger.Error("failed to load dataset", "trace_id", tid, err)
		return domain.RebuildStats{}, fmt.Errorf("load dataset: %w", err)
	}

	version, err := MatrixVersion(ds, s.cfg.DefaultAssetKey)
	if err != nil {
		metrics.MatrixReloads.WithLabelValues("failed").Inc()
		return domain.RebuildStats{}, err
	}

	if cur := s.current.Load(); cur != nil && cur.version == version && !force {
		metrics.MatrixReloads.WithLabelValues("unchanged").Inc()
		return s.stats(cur, ds, false, false, time.Since(start)), nil
	}

	next, fromCache, err := s.build(ctx, ds, version, force)
	if err != nil {
		metrics.MatrixReloads.WithLabelValues("failed").Inc()
		logger.Error("failed to build similarity matrix", "trace_id", tid, "version", version, err)
		return domain.RebuildStats{}, err
	}

	s.current.Store(next)

	outcome := "rebuilt"
	if fromCache {
		outcome = "cached"
	}
	metrics.MatrixReloads.WithLabelValues(outcome).Inc()
	metrics.FlagsLoaded.Set(float64(len(next.flags)))
	metrics.UnresolvedAssets.Set(float64(len(next.unresolved)))

	stats := s.stats(next, ds, true, fromCache, time.Since(start))
	logger.Info("similarity matrix ready",
		"trace_id", tid,
		"version", version,
		"from_cache", fromCache,
		"flags", stats.Flags,
		"features", stats.Features,
		"unresolved", stats.Unresolved,
		"duration", stats.Duration.String(),
	)

	return stats, nil
}

func (s *SimilarityService) build(ctx context.Context, ds domain.Dataset, version string, force bool) (*snapshot, bool, error) {
	reg, err := NewRegistry(ds.Features)
	if err != nil {
		return nil, false, fmt.Errorf("feature registry: %w", err)
	}

	index := make(map[string]int, len(ds.Flags))
	for i, f := range ds.Flags {
		if _, dup := index[f.Name]; dup {
			return nil, false, fmt.Errorf("%w: %s", domain.ErrDuplicateFlag, f.Name)
		}
		index[f.Name] = i
	}

	resolver := gallery.NewResolver(ds.Gallery, s.cfg.DefaultAssetKey)

	snap := &snapshot{
		version:    version,
		flags:      ds.Flags,
		index:      index,
		unresolved: gallery.UnresolvedReport(ds.Flags, resolver),
	}

	if s.cache != nil && !force {
		m, ok, err := s.cache.GetMatrix(ctx, version)
		if err != nil {
			logger.Warn("similarity cache read failed", "version", version, err)
		} else if ok && len(m.Profiles) == len(ds.Flags) {
			snap.matrix = m
			return snap, true, nil
		}
	}

	buildStart := time.Now()
	m, err := BuildMatrix(ctx, ds.Flags, reg, resolver, s.cfg.Workers)
	if err != nil {
		return nil, false, err
	}
	metrics.MatrixBuildDuration.Observe(time.Since(buildStart).Seconds())

	m.Version = version
	snap.matrix = m

	if s.cache != nil {
		if err := s.cache.SaveMatrix(ctx, m); err != nil {
			logger.Warn("similarity cache write failed", "version", version, err)
		}
	}

	return snap, false, nil
}

func (s *SimilarityService) stats(snap *snapshot, ds domain.Dataset, rebuilt, fromCache bool, d time.Duration) domain.RebuildStats {
	return domain.RebuildStats{
		Version:    snap.version,
		Rebuilt:    rebuilt,
		FromCache:  fromCache,
		Flags:      len(snap.flags),
		Features:   len(ds.Features),
		Unresolved: len(snap.unresolved),
		Duration:   d,
	}
}

// Watch reloads on every tick until ctx is done. Unchanged data is a no-op.
func (s *SimilarityService) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Reload(ctx, false); err != nil {
				logger.Warn("periodic similarity reload failed", err)
			}
		}
	}
}

func (s *SimilarityService) active() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrMatrixNotReady
	}
	return snap, nil
}
