package integrator

import (
	"math"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/geometry"
	"github.com/df07/go-cachepoint-renderer/pkg/lights"
	"github.com/df07/go-cachepoint-renderer/pkg/material"
)

// Vertex represents a single vertex in a light transport path
type Vertex struct {
	Point    core.Vec3         // 3D position
	Normal   core.Vec3         // Surface normal
	Material material.Material // Material at this vertex
	Light    lights.Light      // Light at this vertex
	Camera   *geometry.Camera  // Camera at this vertex

	// Direction the ray arrived from, pointing away from the surface
	IncomingDirection core.Vec3

	// MIS probability densities, per unit area
	AreaPdfForward float64
	AreaPdfReverse float64

	// Vertex classification
	IsLight    bool
	IsCamera   bool
	IsSpecular bool

	// Accumulated throughput from the path origin to this vertex.
	// Le*throughput for light paths, throughput*We for camera paths.
	Beta         core.Vec3
	EmittedLight core.Vec3

	// Nearest cache anchors, camera vertices only
	Anchors []*CacheAnchor
}

// Path represents a sequence of vertices in a light transport path
type Path struct {
	Vertices []Vertex
	Length   int
}

// Reset clears the path for reuse without releasing its backing storage
func (p *Path) Reset() {
	p.Vertices = p.Vertices[:0]
	p.Length = 0
}

func (p *Path) append(v Vertex) {
	p.Vertices = append(p.Vertices, v)
	p.Length++
}

// convertPDFDensity converts a solid angle density at v into a per unit
// area density at the next vertex
func (v *Vertex) convertPDFDensity(next *Vertex, pdfDir float64) float64 {
	direction := next.Point.Subtract(v.Point)
	distanceSquared := direction.LengthSquared()
	if distanceSquared == 0 {
		return 0.0
	}
	invDist2 := 1.0 / distanceSquared

	pdf := pdfDir
	if next.Material != nil {
		cosTheta := direction.Multiply(math.Sqrt(invDist2)).Dot(next.Normal)
		pdf *= math.Abs(cosTheta)
	}
	return pdf * invDist2
}

// BRDF evaluates the surface response at the vertex for a given outgoing
// direction. Light origin vertices respond with identity since their
// emission is already folded into Beta.
func (v *Vertex) BRDF(outgoing core.Vec3) core.Vec3 {
	if v.IsLight && v.Material == nil {
		return core.NewVec3(1, 1, 1)
	}
	if v.Material == nil {
		return core.Vec3{}
	}
	return v.Material.EvaluateBRDF(v.IncomingDirection, outgoing, v.Normal)
}

// AnchorCount returns the number of real cache anchors attached to the vertex
func (v *Vertex) AnchorCount() int {
	return len(v.Anchors)
}
