package geometry

import (
	"math"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min core.Vec3 // Minimum corner
	Max core.Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(minPoint, maxPoint core.Vec3) AABB {
	return AABB{Min: minPoint, Max: maxPoint}
}

// Union returns the smallest AABB containing both boxes
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: core.NewVec3(
			math.Min(aabb.Min.X, other.Min.X),
			math.Min(aabb.Min.Y, other.Min.Y),
			math.Min(aabb.Min.Z, other.Min.Z),
		),
		Max: core.NewVec3(
			math.Max(aabb.Max.X, other.Max.X),
			math.Max(aabb.Max.Y, other.Max.Y),
			math.Max(aabb.Max.Z, other.Max.Z),
		),
	}
}

// Center returns the center point of the box
func (aabb AABB) Center() core.Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the largest extent
func (aabb AABB) LongestAxis() int {
	extent := aabb.Max.Subtract(aabb.Min)
	if extent.X >= extent.Y && extent.X >= extent.Z {
		return 0
	}
	if extent.Y >= extent.Z {
		return 1
	}
	return 2
}

// Axis returns the center coordinate along the given axis
func (aabb AABB) Axis(axis int) float64 {
	c := aabb.Center()
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}

// Hit tests if a ray intersects with this AABB using the slab method
func (aabb AABB) Hit(ray core.Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		var lo, hi, origin, direction float64

		switch axis {
		case 0:
			lo, hi = aabb.Min.X, aabb.Max.X
			origin, direction = ray.Origin.X, ray.Direction.X
		case 1:
			lo, hi = aabb.Min.Y, aabb.Max.Y
			origin, direction = ray.Origin.Y, ray.Direction.Y
		case 2:
			lo, hi = aabb.Min.Z, aabb.Max.Z
			origin, direction = ray.Origin.Z, ray.Direction.Z
		}

		// Ray parallel to this axis
		if math.Abs(direction) < 1e-8 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (lo - origin) * invDirection
		t2 := (hi - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}
