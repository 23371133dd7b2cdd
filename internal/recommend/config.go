// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package recommend

import (
	"errors"
	"fmt"

	"github.com/tomtom215/trackrec/internal/index"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// K is the neighbor budget per query. It is lowered to the corpus size
	// at fit time; the lowered value is the engine's kCap.
	K int `json:"k"`

	// Metric names the distance metric: cosine, euclidean or manhattan.
	Metric string `json:"metric"`

	// Index names the neighbor index implementation: brute or kdtree.
	Index string `json:"index"`

	// MaxN is the largest result count a single query may ask for.
	MaxN int `json:"max_n"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// CacheConfig controls the query result cache.
type CacheConfig struct {
	// Enabled turns result caching on.
	Enabled bool `json:"enabled"`

	// MaxEntries bounds the number of cached results (LRU eviction).
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		K:      200,
		Metric: index.Cosine.Name(),
		Index:  string(index.KindBrute),
		MaxN:   500,
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 1024,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.K < 1 {
		errs = append(errs, fmt.Errorf("k must be at least 1, got %d", c.K))
	}
	if c.MaxN < 1 {
		errs = append(errs, fmt.Errorf("max_n must be at least 1, got %d", c.MaxN))
	}

	metric, err := index.ParseMetric(c.Metric)
	if err != nil {
		errs = append(errs, err)
	}
	kind, err := index.ParseKind(c.Index)
	if err != nil {
		errs = append(errs, err)
	}
	if metric != nil && kind == index.KindKDTree && metric.Name() == index.Manhattan.Name() {
		errs = append(errs, fmt.Errorf("index %q does not support metric %q: %w", kind, metric.Name(), index.ErrUnsupportedMetric))
	}

	if c.Cache.Enabled && c.Cache.MaxEntries < 1 {
		errs = append(errs, fmt.Errorf("cache.max_entries must be at least 1 when caching is enabled, got %d", c.Cache.MaxEntries))
	}

	return errors.Join(errs...)
}
