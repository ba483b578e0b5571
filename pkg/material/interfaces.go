package material

import (
	"github.com/df07/go-cachepoint-renderer/pkg/core"
)

// Material interface for objects that can scatter rays
type Material interface {
	// Scatter generates a random scattered direction from the hit point
	Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool)

	// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions
	EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3

	// PDF calculates the density for scattering from incomingDir to outgoingDir.
	// Returns (pdf, isDelta) where isDelta indicates a delta (specular) function.
	PDF(incomingDir, outgoingDir, normal core.Vec3) (pdf float64, isDelta bool)
}

// Emitter interface for materials that emit light
type Emitter interface {
	Emit(rayIn core.Ray) core.Vec3
}

// IsEmissive reports whether a material emits light
func IsEmissive(m Material) bool {
	_, ok := m.(Emitter)
	return ok
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Incoming    core.Ray  // The incoming ray
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // BRDF value (specular: reflectance)
	PDF         float64   // Probability density (0 for specular materials)
}

// IsSpecular returns true if this is specular scattering (no PDF)
func (s ScatterResult) IsSpecular() bool {
	return s.PDF <= 0
}

// SurfaceInteraction contains information about a ray-object intersection
type SurfaceInteraction struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal at intersection
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *SurfaceInteraction) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Multiply(-1)
	}
}
