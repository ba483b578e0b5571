package geometry

import (
	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/material"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Leaf shapes (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection
type BVH struct {
	Root *BVHNode
}

// Leaf threshold: nodes with this many or fewer shapes become leaves
const leafThreshold = 4

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{Root: nil}
	}

	// Copy so concurrent builds never mutate the caller's slice
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	return &BVH{Root: buildBVH(shapesCopy)}
}

// buildBVH recursively builds the BVH using median splits along the longest axis
func buildBVH(shapes []Shape) *BVHNode {
	boundingBox := shapes[0].BoundingBox()
	for i := 1; i < len(shapes); i++ {
		boundingBox = boundingBox.Union(shapes[i].BoundingBox())
	}

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	axis := boundingBox.LongestAxis()
	splitPos := boundingBox.Axis(axis)

	var left, right []Shape
	for _, shape := range shapes {
		if shape.BoundingBox().Axis(axis) < splitPos {
			left = append(left, shape)
		} else {
			right = append(right, shape)
		}
	}

	// Degenerate split, keep a leaf
	if len(left) == 0 || len(right) == 0 {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(left),
		Right:       buildBVH(right),
	}
}

// Hit tests if a ray intersects any shape in the BVH, returning the closest hit
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	return hitNode(bvh.Root, ray, tMin, tMax)
}

// hitNode recursively tests ray intersection with BVH nodes
func hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	if node.Shapes != nil {
		var closest *material.SurfaceInteraction
		closestSoFar := tMax
		for _, shape := range node.Shapes {
			if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
				closest = hit
				closestSoFar = hit.T
			}
		}
		return closest, closest != nil
	}

	var closest *material.SurfaceInteraction
	closestSoFar := tMax
	if node.Left != nil {
		if hit, isHit := hitNode(node.Left, ray, tMin, closestSoFar); isHit {
			closest = hit
			closestSoFar = hit.T
		}
	}
	if node.Right != nil {
		if hit, isHit := hitNode(node.Right, ray, tMin, closestSoFar); isHit {
			closest = hit
			closestSoFar = hit.T
		}
	}
	return closest, closest != nil
}
