// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package index

import (
	"container/heap"
	"slices"
)

// closer is the result order: distance first, then position.
func closer(a, b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Pos < b.Pos
}

func compareNeighbors(a, b Neighbor) int {
	switch {
	case closer(a, b):
		return -1
	case closer(b, a):
		return 1
	default:
		return 0
	}
}

// sortNeighbors orders ns in place by distance then position.
func sortNeighbors(ns []Neighbor) {
	slices.SortFunc(ns, compareNeighbors)
}

// topK keeps the k closest neighbors offered to it. The root of the heap is
// the current worst kept neighbor.
type topK struct {
	k  int
	ns []Neighbor
}

func newTopK(k int) *topK {
	return &topK{k: k, ns: make([]Neighbor, 0, k)}
}

func (t *topK) Len() int           { return len(t.ns) }
func (t *topK) Less(i, j int) bool { return closer(t.ns[j], t.ns[i]) }
func (t *topK) Swap(i, j int)      { t.ns[i], t.ns[j] = t.ns[j], t.ns[i] }
func (t *topK) Push(x any)         { t.ns = append(t.ns, x.(Neighbor)) }
func (t *topK) Pop() any {
	n := t.ns[len(t.ns)-1]
	t.ns = t.ns[:len(t.ns)-1]
	return n
}

func (t *topK) offer(n Neighbor) {
	if len(t.ns) < t.k {
		heap.Push(t, n)
		return
	}
	if closer(n, t.ns[0]) {
		t.ns[0] = n
		heap.Fix(t, 0)
	}
}

// sorted returns the kept neighbors in result order.
func (t *topK) sorted() []Neighbor {
	out := slices.Clone(t.ns)
	sortNeighbors(out)
	return out
}
