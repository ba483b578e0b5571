package core

import "math"

// Direction pairs a unit direction with its cosine against a reference
// surface normal. Connection code builds one per endpoint of a candidate
// connection and rejects the pair before any BRDF or visibility work when
// either side is degenerate.
type Direction struct {
	vec Vec3
	cos float64
}

// NewDirection creates a Direction from a unit vector and the normal of the
// surface it leaves. The caller is responsible for normalizing unit.
func NewDirection(unit Vec3, normal Vec3) Direction {
	return Direction{vec: unit, cos: unit.Dot(normal)}
}

// Vec returns the unit direction vector
func (d Direction) Vec() Vec3 {
	return d.vec
}

// Cos returns the signed cosine against the reference normal
func (d Direction) Cos() float64 {
	return d.cos
}

// AbsCos returns the absolute cosine against the reference normal
func (d Direction) AbsCos() float64 {
	return math.Abs(d.cos)
}

// IsInvalid reports whether the direction is unusable: non-finite or
// (near) zero length, as happens when two connection endpoints coincide
func (d Direction) IsInvalid() bool {
	lenSq := d.vec.LengthSquared()
	return math.IsNaN(lenSq) || math.IsInf(lenSq, 0) || lenSq < 1e-12 || math.IsNaN(d.cos)
}

// InLowerHemisphere reports whether the direction points below the surface
// the reference normal belongs to
func (d Direction) InLowerHemisphere() bool {
	return d.cos <= 0
}
