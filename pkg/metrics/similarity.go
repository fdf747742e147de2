package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Duration of a full matrix build, cache hits excluded
	MatrixBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "similarity_matrix_build_seconds",
		Help:    "Duration of a full similarity matrix build",
		Buckets: prometheus.DefBuckets,
	})

	// Reload attempts by outcome: rebuilt, cached, unchanged, failed
	MatrixReloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "similarity_matrix_reloads_total",
		Help: "Similarity matrix reloads by outcome",
	}, []string{"outcome"})

	FlagsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "similarity_flags",
		Help: "Number of flags in the active similarity matrix",
	})

	UnresolvedAssets = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "similarity_unresolved_assets",
		Help: "Number of flags without a gallery asset",
	})
)

func Init() {
	prometheus.MustRegister(
		MatrixBuildDuration,
		MatrixReloads,
		FlagsLoaded,
		UnresolvedAssets,
	)
}
