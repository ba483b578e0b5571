package geometry

import (
	"math"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
)

// CameraConfig holds camera configuration parameters
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera looks at
	Up          core.Vec3 // Up direction
	Width       int       // Image width in pixels
	AspectRatio float64   // Width / height
	VFov        float64   // Vertical field of view in degrees
}

// Camera generates primary rays and evaluates importance for pinhole optics
type Camera struct {
	config      CameraConfig
	height      int
	u, v, w     core.Vec3 // Camera basis vectors (w points behind the camera)
	pixel00     core.Vec3 // Center of the upper left pixel
	pixelDeltaU core.Vec3
	pixelDeltaV core.Vec3
	filmArea    float64 // Viewport area at unit focal distance
}

// NewCamera creates a pinhole camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	c := &Camera{config: config}
	c.setup()
	return c
}

func (c *Camera) setup() {
	c.height = int(math.Round(float64(c.config.Width) / c.config.AspectRatio))
	if c.height < 1 {
		c.height = 1
	}

	theta := c.config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := viewportHeight * float64(c.config.Width) / float64(c.height)
	c.filmArea = viewportWidth * viewportHeight

	// Basis: w points from lookAt back toward the camera
	c.w = c.config.Center.Subtract(c.config.LookAt).Normalize()
	c.u = c.config.Up.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	viewportU := c.u.Multiply(viewportWidth)
	viewportV := c.v.Multiply(-viewportHeight)
	c.pixelDeltaU = viewportU.Multiply(1.0 / float64(c.config.Width))
	c.pixelDeltaV = viewportV.Multiply(1.0 / float64(c.height))

	viewportUpperLeft := c.config.Center.
		Subtract(c.w).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	c.pixel00 = viewportUpperLeft.
		Add(c.pixelDeltaU.Multiply(0.5)).
		Add(c.pixelDeltaV.Multiply(0.5))
}

// Config returns a copy of the camera configuration
func (c *Camera) Config() CameraConfig { return c.config }

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.config.Width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// Center returns the camera position
func (c *Camera) Center() core.Vec3 { return c.config.Center }

// Resize changes the image resolution, preserving the field of view
func (c *Camera) Resize(width int) {
	c.config.Width = width
	c.setup()
}

// GetCameraForward returns the normalized viewing direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// GetRay generates a ray through pixel (x, y), jittered within the pixel
func (c *Camera) GetRay(x, y int, jitter core.Vec2) core.Ray {
	pixelCenter := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(x) + jitter.X - 0.5)).
		Add(c.pixelDeltaV.Multiply(float64(y) + jitter.Y - 0.5))
	direction := pixelCenter.Subtract(c.config.Center).Normalize()
	return core.NewRay(c.config.Center, direction)
}

// MapRayToPixel projects a ray from the camera center back onto the image
// plane. Returns false if the ray does not intersect the visible viewport.
func (c *Camera) MapRayToPixel(ray core.Ray) (x, y int, ok bool) {
	cosTheta := ray.Direction.Dot(c.GetCameraForward())
	if cosTheta <= 1e-9 {
		return 0, 0, false
	}

	// Intersect with the image plane at unit focal distance
	planePoint := ray.Origin.Add(ray.Direction.Multiply(1.0 / cosTheta))
	offset := planePoint.Subtract(c.pixel00)

	pu := offset.Dot(c.pixelDeltaU) / c.pixelDeltaU.LengthSquared()
	pv := offset.Dot(c.pixelDeltaV) / c.pixelDeltaV.LengthSquared()

	x = int(math.Round(pu))
	y = int(math.Round(pv))
	if x < 0 || x >= c.config.Width || y < 0 || y >= c.height {
		return 0, 0, false
	}
	return x, y, true
}

// EvaluateRayImportance returns the camera importance We for a ray leaving
// the camera. Zero for rays that miss the viewport.
func (c *Camera) EvaluateRayImportance(ray core.Ray) core.Vec3 {
	if _, _, ok := c.MapRayToPixel(ray); !ok {
		return core.Vec3{}
	}
	cosTheta := ray.Direction.Dot(c.GetCameraForward())
	cos2 := cosTheta * cosTheta
	we := float64(c.config.Width*c.height) / (c.filmArea * cos2 * cos2)
	return core.NewVec3(we, we, we)
}

// DirectionPDF returns the solid angle density for sampling a camera ray in
// the given direction. Zero for directions outside the viewport.
func (c *Camera) DirectionPDF(direction core.Vec3) float64 {
	ray := core.NewRay(c.config.Center, direction)
	if _, _, ok := c.MapRayToPixel(ray); !ok {
		return 0
	}
	cosTheta := direction.Dot(c.GetCameraForward())
	return float64(c.config.Width*c.height) / (c.filmArea * cosTheta * cosTheta * cosTheta)
}
