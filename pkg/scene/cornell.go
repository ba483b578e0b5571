package scene

import (
	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/geometry"
	"github.com/df07/go-cachepoint-renderer/pkg/material"
)

// NewCornellScene creates a classic Cornell box scene with quad walls and area lighting
func NewCornellScene(width int) *Scene {
	config := geometry.CameraConfig{
		Center:      core.NewVec3(278, 278, -800), // Position camera outside the box looking in
		LookAt:      core.NewVec3(278, 278, 0),    // Look at the center of the box
		Up:          core.NewVec3(0, 1, 0),
		Width:       width,
		AspectRatio: 1.0, // Square aspect ratio for Cornell box
		VFov:        40.0,
	}

	s := &Scene{
		Camera: geometry.NewCamera(config),
		Shapes: make([]geometry.Shape, 0),
	}

	// Create materials
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0

	// Floor (white) - XZ plane at y=0
	floor := geometry.NewQuad(
		core.NewVec3(0, 0, 0),
		core.NewVec3(boxSize, 0, 0),
		core.NewVec3(0, 0, boxSize),
		white,
	)

	// Ceiling (white) - XZ plane at y=boxSize
	ceiling := geometry.NewQuad(
		core.NewVec3(0, boxSize, 0),
		core.NewVec3(boxSize, 0, 0),
		core.NewVec3(0, 0, boxSize),
		white,
	)

	// Back wall (white) - XY plane at z=boxSize
	backWall := geometry.NewQuad(
		core.NewVec3(0, 0, boxSize),
		core.NewVec3(boxSize, 0, 0),
		core.NewVec3(0, boxSize, 0),
		white,
	)

	// Left wall (red) - YZ plane at x=0
	leftWall := geometry.NewQuad(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, boxSize),
		core.NewVec3(0, boxSize, 0),
		red,
	)

	// Right wall (green) - YZ plane at x=boxSize
	rightWall := geometry.NewQuad(
		core.NewVec3(boxSize, 0, 0),
		core.NewVec3(0, boxSize, 0),
		core.NewVec3(0, 0, boxSize),
		green,
	)

	s.Shapes = append(s.Shapes, floor, ceiling, backWall, leftWall, rightWall)

	// Ceiling light (smaller quad in the center of the ceiling)
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	s.AddQuadLight(
		core.NewVec3(lightOffset, boxSize-1, lightOffset), // slightly below ceiling
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		core.NewVec3(15.0, 15.0, 15.0),
	)

	// Two spheres in the box

	// Left sphere (metallic)
	leftSphere := geometry.NewSphere(
		core.NewVec3(185, 82.5, 169),
		82.5,
		material.NewMetal(core.NewVec3(0.8, 0.8, 0.9)),
	)

	// Right sphere (diffuse)
	rightSphere := geometry.NewSphere(
		core.NewVec3(370, 90, 351),
		90,
		material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73)),
	)

	s.Shapes = append(s.Shapes, leftSphere, rightSphere)

	return s
}
