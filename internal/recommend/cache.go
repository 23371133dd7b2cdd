// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package recommend

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// resultCache is an LRU of query results. A nil *resultCache is a disabled
// cache: lookups miss and stores are dropped.
type resultCache struct {
	lru *lru.Cache[string, []Row]
}

func newResultCache(cfg CacheConfig) (*resultCache, error) {
	if !cfg.Enabled {
		return nil, nil //nolint:nilnil // nil is the disabled cache
	}
	c, err := lru.New[string, []Row](cfg.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	return &resultCache{lru: c}, nil
}

// cacheKey normalises a request. Seed order does not change a result, so the
// ids are sorted; repeats weight the centroid and are kept. Each id is length
// prefixed so ids containing the separator cannot collide with a seed list.
// The model generation keeps a result computed against a replaced model from
// being served after a refit.
func cacheKey(generation uint64, ids []string, n int, includeSeed bool) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)

	var b strings.Builder
	b.WriteString(strconv.FormatUint(generation, 10))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(n))
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(includeSeed))
	for _, id := range sorted {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(len(id)))
		b.WriteByte(':')
		b.WriteString(id)
	}
	return b.String()
}

// get returns a copy of the cached rows so callers may modify them.
func (c *resultCache) get(key string) ([]Row, bool) {
	if c == nil {
		return nil, false
	}
	rows, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return slices.Clone(rows), true
}

func (c *resultCache) put(key string, rows []Row) {
	if c == nil {
		return
	}
	c.lru.Add(key, slices.Clone(rows))
}

func (c *resultCache) purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

func (c *resultCache) len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
