package scene

import (
	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/geometry"
	"github.com/df07/go-cachepoint-renderer/pkg/lights"
	"github.com/df07/go-cachepoint-renderer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera *geometry.Camera
	Shapes []geometry.Shape // Objects in the scene
	Lights []lights.Light   // Lights in the scene
	BVH    *geometry.BVH    // Acceleration structure for ray-object intersection

	lightForMaterial map[material.Material]lights.Light
}

// Preprocess prepares the scene for rendering. Must be called before the
// first Hit or LightFor query.
func (s *Scene) Preprocess() error {
	s.BVH = geometry.NewBVH(s.Shapes)

	// Map emissive materials back to the light they belong to so that a
	// surface intersection can be identified as a light hit
	s.lightForMaterial = make(map[material.Material]lights.Light, len(s.Lights))
	for _, light := range s.Lights {
		switch l := light.(type) {
		case *lights.QuadLight:
			s.lightForMaterial[l.Quad.Material] = light
		case *lights.SphereLight:
			s.lightForMaterial[l.Sphere.Material] = light
		}
	}

	return nil
}

// Hit finds the closest intersection of the ray with the scene
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	return s.BVH.Hit(ray, tMin, tMax)
}

// Occluded reports whether anything blocks the segment from point along
// direction up to the given distance
func (s *Scene) Occluded(point, direction core.Vec3, distance float64) bool {
	ray := core.NewRay(point, direction)
	_, hit := s.BVH.Hit(ray, 0.001, distance-0.001)
	return hit
}

// Visible reports mutual visibility between two points
func (s *Scene) Visible(from, to core.Vec3) bool {
	segment := to.Subtract(from)
	distance := segment.Length()
	if distance < 1e-6 {
		return true
	}
	return !s.Occluded(from, segment.Multiply(1.0/distance), distance)
}

// LightFor returns the light whose surface carries the given material,
// or nil if the material does not belong to a light
func (s *Scene) LightFor(mat material.Material) lights.Light {
	return s.lightForMaterial[mat]
}

// AddQuadLight adds a rectangular area light to the scene
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) {
	emissiveMat := material.NewEmissive(emission)
	quadLight := lights.NewQuadLight(corner, u, v, emissiveMat)
	s.Lights = append(s.Lights, quadLight)
	s.Shapes = append(s.Shapes, quadLight.Quad)
}

// AddSphereLight adds a spherical light to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) {
	emissiveMat := material.NewEmissive(emission)
	sphereLight := lights.NewSphereLight(center, radius, emissiveMat)
	s.Lights = append(s.Lights, sphereLight)
	s.Shapes = append(s.Shapes, sphereLight.Sphere)
}
