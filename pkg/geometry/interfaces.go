package geometry

import (
	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/material"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool)
	BoundingBox() AABB
}
