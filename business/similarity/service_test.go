//go:build !integration

package similarity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"flagCompare/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type fakeDatasetRepo struct {
	mu    sync.Mutex
	ds    domain.Dataset
	err   error
	loads int
}

func (f *fakeDatasetRepo) LoadDataset(_ context.Context) (domain.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return f.ds, f.err
}

func (f *fakeDatasetRepo) set(ds domain.Dataset, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ds, f.err = ds, err
}

type fakeCache struct {
	matrices map[string]*domain.SimilarityMatrix
	getErr   error
	saves    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{matrices: map[string]*domain.SimilarityMatrix{}}
}

func (c *fakeCache) GetMatrix(_ context.Context, version string) (*domain.SimilarityMatrix, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	m, ok := c.matrices[version]
	return m, ok, nil
}

func (c *fakeCache) SaveMatrix(_ context.Context, m *domain.SimilarityMatrix) error {
	c.saves++
	c.matrices[m.Version] = m
	return nil
}

func sampleDataset() domain.Dataset {
	return domain.Dataset{
		Flags: []domain.Flag{
			flag("Switzerland", map[string]any{"continent": "Europe", "red": 1, "colors": 2, "motto": ""}),
			flag("Japan", map[string]any{"continent": "Asia", "red": 1, "colors": 2, "motto": "none"}),
			flag("China", map[string]any{"continent": "Asia", "red": 1, "stars": 5, "colors": 2}),
			flag("Cabo Verde", map[string]any{"continent": "Africa", "red": 1, "stars": 10, "colors": 4}),
			flag("Atlantis", map[string]any{"continent": "Ocean"}),
		},
		Features: []domain.FeatureWeight{
			{Key: "continent", Weight: 1, Kind: domain.FeatureDiscrete},
			{Key: "red", Weight: 1, Kind: domain.FeatureBoolean},
			{Key: "stars", Weight: 1, Kind: domain.FeatureNumeric},
			{Key: "colors", Weight: 1, Kind: domain.FeatureNumeric},
		},
		Gallery: map[string]string{
			"Switzerland": "ch.svg",
			"Japan":       "jp.svg",
			"China":       "cn.svg",
			"Cape Verde":  "cv.svg",
		},
	}
}

func newTestService(t *testing.T, cache MatrixCache) (*SimilarityService, *fakeDatasetRepo) {
	t.Helper()
	repo := &fakeDatasetRepo{ds: sampleDataset()}
	svc := NewSimilarityService(repo, cache, Config{Workers: 2})
	_, err := svc.Reload(context.Background(), false)
	require.NoError(t, err)
	return svc, repo
}

// --- Tests ---

func TestService_NotReady(t *testing.T) {
	svc := NewSimilarityService(&fakeDatasetRepo{}, nil, Config{})

	_, err := svc.Profile("Japan")
	assert.ErrorIs(t, err, domain.ErrMatrixNotReady)
	_, err = svc.Unresolved()
	assert.ErrorIs(t, err, domain.ErrMatrixNotReady)
	assert.Equal(t, "", svc.Version())
}

func TestService_ReloadBuildsSnapshot(t *testing.T) {
	svc, _ := newTestService(t, nil)

	p, err := svc.Profile("Japan")
	require.NoError(t, err)
	assert.Equal(t, "jp.svg", p.AssetReference)
	assert.Len(t, p.Similarities, 5)

	names, err := svc.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"Switzerland", "Japan", "China", "Cabo Verde", "Atlantis"}, names)

	unresolved, err := svc.Unresolved()
	require.NoError(t, err)
	assert.Equal(t, []string{"Atlantis"}, unresolved)
	assert.NotEmpty(t, svc.Version())
}

func TestService_ProfileNotFound(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Profile("Narnia")
	assert.ErrorIs(t, err, domain.ErrFlagNotFound)
	assert.False(t, svc.HasFlag("Narnia"))
	assert.True(t, svc.HasFlag("China"))
}

func TestService_ReloadUnchangedIsNoop(t *testing.T) {
	svc, _ := newTestService(t, nil)
	before, err := svc.Matrix()
	require.NoError(t, err)

	stats, err := svc.Reload(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, stats.Rebuilt)

	after, err := svc.Matrix()
	require.NoError(t, err)
	assert.Same(t, before, after)
}

func TestService_ForceRebuilds(t *testing.T) {
	svc, _ := newTestService(t, nil)
	before, _ := svc.Matrix()

	stats, err := svc.Reload(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, stats.Rebuilt)
	assert.False(t, stats.FromCache)

	after, _ := svc.Matrix()
	assert.NotSame(t, before, after)
	assert.Equal(t, before.Version, after.Version)
}

func TestService_DataChangeRebuilds(t *testing.T) {
	svc, repo := newTestService(t, nil)
	oldVersion := svc.Version()

	ds := sampleDataset()
	ds.Flags = append(ds.Flags, flag("Vietnam", map[string]any{"continent": "Asia", "red": 1, "stars": 1}))
	repo.set(ds, nil)

	stats, err := svc.Reload(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, stats.Rebuilt)
	assert.Equal(t, 6, stats.Flags)
	assert.NotEqual(t, oldVersion, svc.Version())
	assert.True(t, svc.HasFlag("Vietnam"))
}

func TestService_FailedReloadKeepsPrevious(t *testing.T) {
	svc, repo := newTestService(t, nil)
	version := svc.Version()

	repo.set(domain.Dataset{}, errors.New("source down"))
	_, err := svc.Reload(context.Background(), true)
	assert.Error(t, err)
	assert.Equal(t, version, svc.Version())

	ds := sampleDataset()
	ds.Features[0].Weight = -1
	repo.set(ds, nil)
	_, err = svc.Reload(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrInvalidWeight)
	assert.Equal(t, version, svc.Version())

	ds = sampleDataset()
	ds.Flags = append(ds.Flags, ds.Flags[0])
	repo.set(ds, nil)
	_, err = svc.Reload(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrDuplicateFlag)
	assert.Equal(t, version, svc.Version())
}

func TestService_CacheRoundTrip(t *testing.T) {
	cache := newFakeCache()
	svc, repo := newTestService(t, cache)
	assert.Equal(t, 1, cache.saves)

	other := NewSimilarityService(repo, cache, Config{})
	stats, err := other.Reload(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, stats.FromCache)
	assert.Equal(t, 1, cache.saves)

	a, _ := svc.Matrix()
	b, _ := other.Matrix()
	assert.Same(t, a, b)

	unresolved, err := other.Unresolved()
	require.NoError(t, err)
	assert.Equal(t, []string{"Atlantis"}, unresolved)
}

func TestService_CacheErrorFallsBackToBuild(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")

	svc, _ := newTestService(t, cache)
	_, err := svc.Profile("Japan")
	assert.NoError(t, err)
}

func TestService_TopSimilar(t *testing.T) {
	svc, _ := newTestService(t, nil)

	top, err := svc.TopSimilar("Japan", 0)
	require.NoError(t, err)
	require.Len(t, top, 4)

	for _, s := range top {
		assert.NotEqual(t, "Japan", s.Name)
	}
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Similarity, top[i].Similarity)
	}
	// China shares the continent
	assert.Equal(t, "China", top[0].Name)
	assert.Equal(t, "cn.svg", top[0].AssetReference)

	top, err = svc.TopSimilar("Japan", 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	_, err = svc.TopSimilar("Narnia", 2)
	assert.ErrorIs(t, err, domain.ErrFlagNotFound)
}

func TestService_Search(t *testing.T) {
	svc, _ := newTestService(t, nil)

	f, err := svc.Search("Verde")
	require.NoError(t, err)
	assert.Equal(t, "Cabo Verde", f.Name)

	// first in dataset order
	f, err = svc.Search("a")
	require.NoError(t, err)
	assert.Equal(t, "Switzerland", f.Name)

	_, err = svc.Search("verde")
	assert.ErrorIs(t, err, domain.ErrFlagNotFound)

	f, err = svc.Search("")
	require.NoError(t, err)
	assert.Equal(t, "Switzerland", f.Name)
}

func TestService_SearchProfile(t *testing.T) {
	svc, _ := newTestService(t, nil)

	p, err := svc.SearchProfile("Verde")
	require.NoError(t, err)
	assert.Equal(t, "Cabo Verde", p.Name)
	assert.Equal(t, "cv.svg", p.AssetReference)

	_, err = svc.SearchProfile("Narnia")
	assert.ErrorIs(t, err, domain.ErrFlagNotFound)
}

func TestService_SearchProfileNotReady(t *testing.T) {
	svc := NewSimilarityService(&fakeDatasetRepo{ds: sampleDataset()}, nil, Config{})

	_, err := svc.SearchProfile("Verde")
	assert.ErrorIs(t, err, domain.ErrMatrixNotReady)
}

func TestService_TopSimilarTiesKeepDatasetOrder(t *testing.T) {
	ds := domain.Dataset{
		Flags: []domain.Flag{
			flag("Zambia", map[string]any{"red": 1}),
			flag("Mali", map[string]any{"red": 1}),
			flag("Austria", map[string]any{"red": 1}),
			flag("Chad", map[string]any{"red": 1}),
		},
		Features: []domain.FeatureWeight{{Key: "red", Weight: 1, Kind: domain.FeatureBoolean}},
	}
	svc := NewSimilarityService(&fakeDatasetRepo{ds: ds}, nil, Config{Workers: 2})
	_, err := svc.Reload(context.Background(), false)
	require.NoError(t, err)

	top, err := svc.TopSimilar("Mali", 3)
	require.NoError(t, err)

	names := make([]string, 0, len(top))
	for _, s := range top {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Zambia", "Austria", "Chad"}, names)
}

func TestService_DetailValues(t *testing.T) {
	svc, _ := newTestService(t, nil)

	values, err := svc.DetailValues("stars")
	require.NoError(t, err)
	assert.Equal(t, []domain.DetailValue{
		{Name: "China", Value: 5},
		{Name: "Cabo Verde", Value: 10},
	}, values)

	values, err = svc.DetailValues("motto")
	require.NoError(t, err)
	assert.Equal(t, []domain.DetailValue{{Name: "Japan", Value: "none"}}, values)

	values, err = svc.DetailValues("anthem")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestService_Attributes(t *testing.T) {
	svc, _ := newTestService(t, nil)

	attrs, err := svc.Attributes("China")
	require.NoError(t, err)
	require.Len(t, attrs, 4)
	assert.Equal(t, "colors", attrs[0].Key)
	assert.Equal(t, "stars", attrs[3].Key)

	_, err = svc.Attributes("Narnia")
	assert.ErrorIs(t, err, domain.ErrFlagNotFound)
}

func TestService_WatchStopsOnCancel(t *testing.T) {
	svc, repo := newTestService(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Watch(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.loads > 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestService_ContextCancelled(t *testing.T) {
	svc := NewSimilarityService(&fakeDatasetRepo{ds: sampleDataset()}, nil, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Reload(ctx, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDatasetVersion_Stable(t *testing.T) {
	a, err := DatasetVersion(sampleDataset())
	require.NoError(t, err)
	b, err := DatasetVersion(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	ds := sampleDataset()
	ds.Gallery["Atlantis"] = "at.svg"
	c, err := DatasetVersion(ds)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestMatrixVersion_DependsOnDefaultAsset(t *testing.T) {
	a, err := MatrixVersion(sampleDataset(), "default.svg")
	require.NoError(t, err)
	b, err := MatrixVersion(sampleDataset(), "placeholder.svg")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	plain, err := DatasetVersion(sampleDataset())
	require.NoError(t, err)
	noKey, err := MatrixVersion(sampleDataset(), "")
	require.NoError(t, err)
	assert.Equal(t, plain, noKey)
}

func TestService_CacheMissOnDefaultAssetChange(t *testing.T) {
	cache := newFakeCache()
	_, repo := newTestService(t, cache)
	require.Equal(t, 1, cache.saves)

	other := NewSimilarityService(repo, cache, Config{DefaultAssetKey: "placeholder.svg"})
	stats, err := other.Reload(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, stats.FromCache)
	assert.Equal(t, 2, cache.saves)

	p, err := other.Profile("Atlantis")
	require.NoError(t, err)
	assert.Equal(t, "placeholder.svg", p.AssetReference)
	assert.False(t, p.AssetResolved)
}
