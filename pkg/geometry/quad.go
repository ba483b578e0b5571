package geometry

import (
	"math"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/material"
)

// Quad represents a rectangular surface defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3 // One corner of the quad
	U        core.Vec3 // First edge vector
	V        core.Vec3 // Second edge vector
	Normal   core.Vec3 // Normal vector (computed from U x V)
	Material material.Material
	D        float64   // Plane equation constant: normal . corner
	W        core.Vec3 // Cached cross product for barycentric coordinates
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, mat material.Material) *Quad {
	normal := u.Cross(v).Normalize()
	d := normal.Dot(corner)

	// w = normal / (normal . (u x v)), used for barycentric coordinates
	cross := u.Cross(v)
	w := normal.Multiply(1.0 / normal.Dot(cross))

	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: mat,
		D:        d,
		W:        w,
	}
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	denominator := ray.Direction.Dot(q.Normal)

	// Ray parallel to quad
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hitPoint := ray.At(t)
	hitVector := hitPoint.Subtract(q.Corner)

	// Barycentric coordinates within the quad
	alpha := q.W.Dot(hitVector.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	hit := &material.SurfaceInteraction{
		T:        t,
		Point:    hitPoint,
		Material: q.Material,
	}
	hit.SetFaceNormal(ray, q.Normal)

	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this quad
func (q *Quad) BoundingBox() AABB {
	p0 := q.Corner
	p1 := q.Corner.Add(q.U)
	p2 := q.Corner.Add(q.V)
	p3 := q.Corner.Add(q.U).Add(q.V)

	minP := core.NewVec3(
		math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X)),
		math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y)),
		math.Min(math.Min(p0.Z, p1.Z), math.Min(p2.Z, p3.Z)),
	)
	maxP := core.NewVec3(
		math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X)),
		math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y)),
		math.Max(math.Max(p0.Z, p1.Z), math.Max(p2.Z, p3.Z)),
	)

	// Pad flat boxes so the slab test stays robust
	const pad = 1e-4
	extent := maxP.Subtract(minP)
	if extent.X < pad {
		minP.X -= pad
		maxP.X += pad
	}
	if extent.Y < pad {
		minP.Y -= pad
		maxP.Y += pad
	}
	if extent.Z < pad {
		minP.Z -= pad
		maxP.Z += pad
	}

	return NewAABB(minP, maxP)
}
