package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	// GetInt returns a uniform integer in [0, n)
	GetInt(n int) int
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// GetInt returns a uniform random integer in [0, n)
func (r *RandomSampler) GetInt(n int) int {
	if n <= 0 {
		return 0
	}
	return r.random.Intn(n)
}

// SampleCosineHemisphere generates a cosine-weighted random direction in hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	// Generate point in unit disk using uniform random sampling
	a := 2.0 * math.Pi * sample.X
	z := sample.Y
	r := math.Sqrt(z)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	zCoord := math.Sqrt(1.0 - z)

	tangent, bitangent := OrthonormalBasis(normal)
	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(zCoord))
}

// CosineHemispherePDF returns the solid-angle density of SampleCosineHemisphere
// for a direction with the given cosine against the normal
func CosineHemispherePDF(cosTheta float64) float64 {
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}

// SampleCone samples a direction uniformly within a cone around axis.
// cosTotalWidth is the cosine of the cone's half angle.
func SampleCone(axis Vec3, cosTotalWidth float64, sample Vec2) Vec3 {
	u, v := OrthonormalBasis(axis)

	cosTheta := 1.0 - sample.X*(1.0-cosTotalWidth)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y

	x := sinTheta * math.Cos(phi)
	y := sinTheta * math.Sin(phi)
	z := cosTheta

	return u.Multiply(x).Add(v.Multiply(y)).Add(axis.Multiply(z))
}

// UniformConePDF returns the solid-angle density of SampleCone
func UniformConePDF(cosTotalWidth float64) float64 {
	if cosTotalWidth >= 1 {
		return 0
	}
	return 1.0 / (2.0 * math.Pi * (1.0 - cosTotalWidth))
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z in [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// OrthonormalBasis builds two unit vectors spanning the plane perpendicular
// to the given unit normal
func OrthonormalBasis(normal Vec3) (tangent, bitangent Vec3) {
	var nt Vec3
	if math.Abs(normal.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	tangent = nt.Cross(normal).Normalize()
	bitangent = normal.Cross(tangent)
	return tangent, bitangent
}
