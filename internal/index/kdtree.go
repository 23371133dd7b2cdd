// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package index

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// kdIndex searches a gonum k-d tree under squared Euclidean distance.
//
// For Cosine the tree holds L2-normalised rows, where squared Euclidean
// distance is exactly twice the cosine distance, so both orders agree.
// Zero rows have no direction; they are kept aside and sit at cosine
// distance 1 from every query.
//
// The tree only selects candidates. Final distances come from the metric
// over the original rows, the same computation bruteIndex performs, which
// keeps the two kinds in exact agreement.
type kdIndex struct {
	base
	tree      *kdtree.Tree
	treeLen   int
	zeroRows  []int
	normalise bool
}

func newKDTreeIndex(b base) (*kdIndex, error) {
	x := &kdIndex{base: b}
	switch b.metric.Name() {
	case Cosine.Name():
		x.normalise = true
	case Euclidean.Name():
	default:
		return nil, fmt.Errorf("%w: %s with %s", ErrUnsupportedMetric, KindKDTree, b.metric.Name())
	}

	pts := make(points, 0, len(b.rows))
	for pos, row := range b.rows {
		vec := row
		if x.normalise {
			norm := floats.Norm(row, 2)
			if norm == 0 {
				x.zeroRows = append(x.zeroRows, pos)
				continue
			}
			vec = make([]float64, len(row))
			floats.ScaleTo(vec, 1/norm, row)
		}
		pts = append(pts, point{vec: vec, pos: pos})
	}
	x.treeLen = len(pts)
	if len(pts) > 0 {
		x.tree = kdtree.New(pts, false)
	}
	return x, nil
}

func (x *kdIndex) Kind() Kind { return KindKDTree }

func (x *kdIndex) Query(v []float64, k int) ([]Neighbor, error) {
	k, err := x.check(v, k)
	if err != nil {
		return nil, err
	}
	if k == 0 {
		return []Neighbor{}, nil
	}

	q := v
	if x.normalise {
		norm := floats.Norm(v, 2)
		if norm == 0 {
			// Every row is at distance 1 from a zero query.
			out := make([]Neighbor, k)
			for i := range out {
				out[i] = Neighbor{Pos: i, Distance: 1}
			}
			return out, nil
		}
		q = make([]float64, len(v))
		floats.ScaleTo(q, 1/norm, v)
	}

	top := newTopK(k)
	for _, pos := range x.candidates(point{vec: q, pos: -1}, k) {
		top.offer(Neighbor{Pos: pos, Distance: x.metric.Distance(v, x.rows[pos])})
	}
	// Only the first k zero rows by position can make the cut.
	for i, pos := range x.zeroRows {
		if i == k {
			break
		}
		top.offer(Neighbor{Pos: pos, Distance: x.metric.Distance(v, x.rows[pos])})
	}
	return top.sorted(), nil
}

// candidates returns the tree positions that can appear among the k nearest
// to q. After finding the k nearest it widens to every point within the
// k-th radius, so rows tied with the k-th are all present and the final
// position tie-break sees them.
func (x *kdIndex) candidates(q point, k int) []int {
	if x.tree == nil {
		return nil
	}

	nk := kdtree.NewNKeeper(min(k, x.treeLen))
	x.tree.NearestSet(nk, q)

	radius := 0.0
	for _, c := range nk.Heap {
		if c.Comparable != nil && c.Dist > radius {
			radius = c.Dist
		}
	}
	radius += 1e-9 * math.Max(1, radius)

	dk := kdtree.NewDistKeeper(radius)
	x.tree.NearestSet(dk, q)

	out := make([]int, 0, len(dk.Heap))
	for _, c := range dk.Heap {
		if c.Comparable == nil {
			continue
		}
		out = append(out, c.Comparable.(point).pos)
	}
	return out
}

// point is a tree entry: a search vector and the row it came from.
type point struct {
	vec []float64
	pos int
}

func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.vec[d] - c.(point).vec[d]
}

func (p point) Dims() int { return len(p.vec) }

// Distance is squared Euclidean, as kdtree expects.
func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	var sum float64
	for i, v := range p.vec {
		d := v - q.vec[i]
		sum += d * d
	}
	return sum
}

// points implements kdtree.Interface.
type points []point

func (p points) Index(i int) kdtree.Comparable         { return p[i] }
func (p points) Len() int                              { return len(p) }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }
func (p points) Pivot(d kdtree.Dim) int                { return plane{points: p, dim: d}.Pivot() }

// plane sorts points along one dimension for median partitioning.
type plane struct {
	points
	dim kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.points[i].vec[p.dim] < p.points[j].vec[p.dim]
}

func (p plane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{points: p.points[start:end], dim: p.dim}
}

func (p plane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
