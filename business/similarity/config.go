package similarity

import (
	"runtime"

	"flagCompare/business/gallery"
)

type Config struct {
	// goroutines used for the row pass
	Workers int

	// asset key used when a flag has no gallery entry
	DefaultAssetKey string

	// size of the "most similar" list when the caller gives none
	TopN int

	// upper bound for a caller-supplied top list size
	MaxTopN int
}

const (
	defaultTopN    = 5
	defaultMaxTopN = 50
)

func DefaultConfig() Config {
	return Config{
		Workers:         runtime.GOMAXPROCS(0),
		DefaultAssetKey: gallery.DefaultAssetKey,
		TopN:            defaultTopN,
		MaxTopN:         defaultMaxTopN,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.DefaultAssetKey == "" {
		c.DefaultAssetKey = d.DefaultAssetKey
	}
	if c.TopN <= 0 {
		c.TopN = d.TopN
	}
	if c.MaxTopN <= 0 {
		c.MaxTopN = d.MaxTopN
	}
	return c
}
