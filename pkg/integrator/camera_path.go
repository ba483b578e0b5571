package integrator

import (
	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/geometry"
	"github.com/df07/go-cachepoint-renderer/pkg/scene"
)

// ConstructCameraPath builds one eye sub-path into dst for pixel (x, y).
// Every surface vertex gets its nearest cache anchors attached so the
// resampling strategies and their MIS terms can reach cache distributions.
func ConstructCameraPath(dst *Path, s *scene.Scene, camera *geometry.Camera, x, y int, sampler core.Sampler, caches *CacheIndex, cfg Config) {
	dst.Reset()

	ray := camera.GetRay(x, y, sampler.Get2D())
	directionPDF := camera.DirectionPDF(ray.Direction)

	// Lens vertex. The pinhole position is deterministic, so its forward
	// density is one.
	cameraVertex := Vertex{
		Point:          ray.Origin,
		Normal:         camera.GetCameraForward(),
		Camera:         camera,
		AreaPdfForward: 1.0,
		IsCamera:       true,
		Beta:           core.NewVec3(1, 1, 1),
	}
	dst.append(cameraVertex)

	extendPath(dst, s, ray, core.NewVec3(1, 1, 1), directionPDF, sampler, cfg.MaxDepth, true)

	if caches != nil && caches.Len() > 0 && cfg.NumNeighborCaches > 0 {
		for i := 1; i < dst.Length; i++ {
			v := &dst.Vertices[i]
			v.Anchors = caches.Nearest(v.Point, cfg.NumNeighborCaches)
		}
	}
}
