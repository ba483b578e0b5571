package material

import (
	"github.com/df07/go-cachepoint-renderer/pkg/core"
)

// Metal represents a metallic material with mirror reflection
type Metal struct {
	Albedo core.Vec3 // Metal color
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3) *Metal {
	return &Metal{Albedo: albedo}
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	reflected := reflect(rayIn.Direction.Normalize(), hit.Normal)
	scattered := core.Ray{Origin: hit.Point, Direction: reflected}

	// Only scatter if the ray is above the surface
	scatters := scattered.Direction.Dot(hit.Normal) > 0

	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   scattered,
		Attenuation: m.Albedo, // No pi factor for specular
		PDF:         0,        // Specular materials have no PDF
	}, scatters
}

// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions
func (m *Metal) EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3 {
	// Delta function: a sampled connection direction never matches the
	// mirror direction, so connections through metal contribute nothing
	reflected := reflect(incomingDir.Negate(), normal)
	if outgoingDir.Subtract(reflected).Length() < 0.001 {
		return m.Albedo
	}
	return core.Vec3{}
}

// PDF calculates the scattering density for specific incoming/outgoing directions
func (m *Metal) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0.0, true // Delta function
}

// reflect calculates the reflection of a vector v off a surface with normal n
func reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
