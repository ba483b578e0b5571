// Package spatial provides spatial search structures for point data.
package spatial

import (
	"sort"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
)

// Tree is a kd-tree over items with a position in 3D space.
// Built once, then queried concurrently.
type Tree[T any] struct {
	items    []T
	position func(T) core.Vec3
	root     *node
}

type node struct {
	index       int // Index into items
	axis        int
	left, right *node
}

// NewTree builds a kd-tree over the given items. The position function
// extracts the spatial location of each item.
func NewTree[T any](items []T, position func(T) core.Vec3) *Tree[T] {
	t := &Tree[T]{items: items, position: position}
	if len(items) > 0 {
		indices := make([]int, len(items))
		for i := range indices {
			indices[i] = i
		}
		t.root = t.build(indices, 0)
	}
	return t
}

// Len returns the number of items in the tree
func (t *Tree[T]) Len() int { return len(t.items) }

// At returns the item at the given index
func (t *Tree[T]) At(i int) T { return t.items[i] }

// Items returns the underlying item slice
func (t *Tree[T]) Items() []T { return t.items }

func (t *Tree[T]) build(indices []int, depth int) *node {
	if len(indices) == 0 {
		return nil
	}

	axis := depth % 3
	sort.Slice(indices, func(a, b int) bool {
		return axisValue(t.position(t.items[indices[a]]), axis) <
			axisValue(t.position(t.items[indices[b]]), axis)
	})

	median := len(indices) / 2
	return &node{
		index: indices[median],
		axis:  axis,
		left:  t.build(indices[:median], depth+1),
		right: t.build(indices[median+1:], depth+1),
	}
}

func axisValue(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// neighbor pairs an item index with its squared distance to the query point
type neighbor struct {
	index  int
	distSq float64
}

// Nearest returns the indices of the k items closest to the query point,
// ordered nearest first. Returns fewer than k if the tree is smaller.
func (t *Tree[T]) Nearest(query core.Vec3, k int) []int {
	if t.root == nil || k <= 0 {
		return nil
	}

	best := make([]neighbor, 0, k)
	t.search(t.root, query, k, &best)

	result := make([]int, len(best))
	for i, n := range best {
		result[i] = n.index
	}
	return result
}

func (t *Tree[T]) search(n *node, query core.Vec3, k int, best *[]neighbor) {
	if n == nil {
		return
	}

	pos := t.position(t.items[n.index])
	distSq := pos.Subtract(query).LengthSquared()
	insertNeighbor(best, k, neighbor{index: n.index, distSq: distSq})

	delta := axisValue(query, n.axis) - axisValue(pos, n.axis)
	near, far := n.left, n.right
	if delta > 0 {
		near, far = n.right, n.left
	}

	t.search(near, query, k, best)

	// Only cross the splitting plane if the far side could hold a closer item
	if len(*best) < k || delta*delta < (*best)[len(*best)-1].distSq {
		t.search(far, query, k, best)
	}
}

// insertNeighbor inserts into a bounded slice kept sorted by distance
func insertNeighbor(best *[]neighbor, k int, nb neighbor) {
	b := *best
	pos := len(b)
	for pos > 0 && b[pos-1].distSq > nb.distSq {
		pos--
	}
	if pos >= k {
		return
	}
	if len(b) < k {
		b = append(b, neighbor{})
	}
	copy(b[pos+1:], b[pos:])
	b[pos] = nb
	*best = b
}
