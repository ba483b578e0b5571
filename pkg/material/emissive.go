package material

import (
	"github.com/df07/go-cachepoint-renderer/pkg/core"
)

// Emissive represents a light-emitting material
type Emissive struct {
	Emission core.Vec3 // Emitted radiance
}

// NewEmissive creates a new emissive material
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: emission}
}

// Scatter implements the Material interface for emissive materials.
// Emissive materials don't scatter rays, they only emit light.
func (e *Emissive) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emit returns the emitted radiance for this material
func (e *Emissive) Emit(rayIn core.Ray) core.Vec3 {
	return e.Emission
}

// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions
func (e *Emissive) EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3 {
	// Lights don't reflect
	return core.Vec3{}
}

// PDF calculates the scattering density for specific incoming/outgoing directions
func (e *Emissive) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0.0, false // No scattering
}
