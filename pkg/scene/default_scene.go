package scene

import (
	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/geometry"
	"github.com/df07/go-cachepoint-renderer/pkg/material"
)

// NewDefaultScene creates an open scene with a ground plane, two spheres
// and a spherical area light
func NewDefaultScene(width int) *Scene {
	config := geometry.CameraConfig{
		Center:      core.NewVec3(0, 1.2, 4),
		LookAt:      core.NewVec3(0, 0.6, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       width,
		AspectRatio: 16.0 / 9.0,
		VFov:        45.0,
	}

	s := &Scene{
		Camera: geometry.NewCamera(config),
		Shapes: make([]geometry.Shape, 0),
	}

	gray := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	rust := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.2))
	steel := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8))

	// Large ground quad instead of an infinite plane
	ground := geometry.NewQuad(
		core.NewVec3(-50, 0, -50),
		core.NewVec3(100, 0, 0),
		core.NewVec3(0, 0, 100),
		gray,
	)
	s.Shapes = append(s.Shapes, ground)

	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(-0.9, 0.6, 0), 0.6, rust),
		geometry.NewSphere(core.NewVec3(0.9, 0.6, 0), 0.6, steel),
	)

	s.AddSphereLight(core.NewVec3(0, 3.5, 1), 0.5, core.NewVec3(20, 20, 20))

	return s
}
