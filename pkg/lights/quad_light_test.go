package lights

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/material"
)

func testQuadLight() *QuadLight {
	emissive := material.NewEmissive(core.NewVec3(10, 10, 10))
	return NewQuadLight(
		core.NewVec3(-1, 5, -1),
		core.NewVec3(2, 0, 0),
		core.NewVec3(0, 0, 2),
		emissive,
	)
}

func TestQuadLightSamplePosition(t *testing.T) {
	light := testQuadLight()
	rng := rand.New(rand.NewSource(21))

	for i := 0; i < 50; i++ {
		point, normal, areaPDF := light.SamplePosition(core.NewVec2(rng.Float64(), rng.Float64()))

		assert.InDelta(t, 5.0, point.Y, 1e-9, "sampled point off the quad plane")
		assert.True(t, point.X >= -1 && point.X <= 1, "X outside quad: %f", point.X)
		assert.True(t, point.Z >= -1 && point.Z <= 1, "Z outside quad: %f", point.Z)
		assert.InDelta(t, 1.0, math.Abs(normal.Y), 1e-9)
		assert.InDelta(t, 0.25, areaPDF, 1e-9, "area PDF should be 1/area for a 2x2 quad")
	}
}

func TestQuadLightPDFLeConsistency(t *testing.T) {
	light := testQuadLight()
	rng := rand.New(rand.NewSource(22))

	for i := 0; i < 50; i++ {
		sample := light.SampleEmission(
			core.NewVec2(rng.Float64(), rng.Float64()),
			core.NewVec2(rng.Float64(), rng.Float64()),
		)

		pdfPos, pdfDir := light.PDF_Le(sample.Point, sample.Direction)
		require.Greater(t, pdfPos, 0.0)
		assert.InDelta(t, sample.AreaPDF, pdfPos, 1e-12)
		assert.InDelta(t, sample.DirectionPDF, pdfDir, 1e-9)
	}
}

func TestQuadLightPDFLeOffSurface(t *testing.T) {
	light := testQuadLight()

	pdfPos, pdfDir := light.PDF_Le(core.NewVec3(10, 5, 0), core.NewVec3(0, 1, 0))
	assert.Zero(t, pdfPos, "position off the quad should have zero position PDF")
	assert.Zero(t, pdfDir)

	// On the plane but outside the quad bounds
	pdfPos, _ = light.PDF_Le(core.NewVec3(1.5, 5, 0), core.NewVec3(0, 1, 0))
	assert.Zero(t, pdfPos)
}

func TestQuadLightPDFLeBackwardDirection(t *testing.T) {
	light := testQuadLight()

	pdfPos, pdfDir := light.PDF_Le(core.NewVec3(0, 5, 0), light.Normal.Negate())
	assert.Greater(t, pdfPos, 0.0, "position PDF valid even for a backward direction")
	assert.Zero(t, pdfDir, "direction below the surface should have zero directional PDF")
}

func TestQuadLightEmit(t *testing.T) {
	light := testQuadLight()
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, 1, 0))
	assert.Equal(t, core.NewVec3(10, 10, 10), light.Emit(ray))

	dark := NewQuadLight(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1),
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	assert.True(t, dark.Emit(ray).IsZero(), "non-emissive material should emit nothing")
}
