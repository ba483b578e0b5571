package material

import (
	"math"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	// Cosine-weighted random direction in the hemisphere around the normal
	scatterDirection := core.SampleCosineHemisphere(hit.Normal, sampler.Get2D())
	scattered := core.Ray{Origin: hit.Point, Direction: scatterDirection}

	cosTheta := scatterDirection.Dot(hit.Normal)
	if cosTheta < 0 {
		cosTheta = 0
	}
	pdf := cosTheta / math.Pi

	// BRDF: albedo / pi
	attenuation := l.Albedo.Multiply(1.0 / math.Pi)

	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   scattered,
		Attenuation: attenuation,
		PDF:         pdf,
	}, true
}

// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions
func (l *Lambertian) EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3 {
	if outgoingDir.Dot(normal) <= 0 {
		return core.Vec3{} // Below surface
	}
	return l.Albedo.Multiply(1.0 / math.Pi)
}

// PDF calculates the scattering density for specific incoming/outgoing directions
func (l *Lambertian) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	cosTheta := outgoingDir.Dot(normal)
	if cosTheta <= 0 {
		return 0.0, false
	}
	return cosTheta / math.Pi, false
}
