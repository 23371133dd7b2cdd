// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package index

// bruteIndex scans every row per query. It supports every Metric.
type bruteIndex struct {
	base
}

func (x *bruteIndex) Kind() Kind { return KindBrute }

func (x *bruteIndex) Query(v []float64, k int) ([]Neighbor, error) {
	k, err := x.check(v, k)
	if err != nil {
		return nil, err
	}
	if k == 0 {
		return []Neighbor{}, nil
	}

	top := newTopK(k)
	for pos, row := range x.rows {
		top.offer(Neighbor{Pos: pos, Distance: x.metric.Distance(v, row)})
	}
	return top.sorted(), nil
}
