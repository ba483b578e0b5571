package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampleCosineHemisphereAboveSurface(t *testing.T) {
	rng := rand.New(rand.NewSource(81))
	normal := NewVec3(1, 2, -1).Normalize()

	for i := 0; i < 200; i++ {
		dir := SampleCosineHemisphere(normal, NewVec2(rng.Float64(), rng.Float64()))
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("direction not unit length: %g", dir.Length())
		}
		if dir.Dot(normal) < 0 {
			t.Fatalf("direction below surface, cos=%g", dir.Dot(normal))
		}
	}
}

func TestSampleConeWithinCone(t *testing.T) {
	rng := rand.New(rand.NewSource(82))
	axis := NewVec3(0, -1, 0)
	const cosWidth = 0.95

	for i := 0; i < 200; i++ {
		dir := SampleCone(axis, cosWidth, NewVec2(rng.Float64(), rng.Float64()))
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("direction not unit length: %g", dir.Length())
		}
		if dir.Dot(axis) < cosWidth-1e-9 {
			t.Fatalf("direction outside cone, cos=%g", dir.Dot(axis))
		}
	}
}

func TestConePDFNormalization(t *testing.T) {
	// Uniform cone density times its solid angle must integrate to one
	const cosWidth = 0.8
	solidAngle := 2 * math.Pi * (1 - cosWidth)
	if math.Abs(UniformConePDF(cosWidth)*solidAngle-1) > 1e-12 {
		t.Errorf("cone pdf %g does not normalize over its solid angle", UniformConePDF(cosWidth))
	}
	if UniformConePDF(1.0) != 0 {
		t.Error("degenerate cone should have zero pdf")
	}
}

func TestCosineHemispherePDF(t *testing.T) {
	if CosineHemispherePDF(-0.5) != 0 {
		t.Error("below-surface cosine pdf should be zero")
	}
	if math.Abs(CosineHemispherePDF(1)-1/math.Pi) > 1e-12 {
		t.Errorf("straight-up cosine pdf %g, want 1/pi", CosineHemispherePDF(1))
	}
}

func TestOrthonormalBasis(t *testing.T) {
	for _, normal := range []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0, 0, -1),
		NewVec3(1, 1, 1).Normalize(),
	} {
		tangent, bitangent := OrthonormalBasis(normal)
		if math.Abs(tangent.Length()-1) > 1e-9 || math.Abs(bitangent.Length()-1) > 1e-9 {
			t.Errorf("basis for %v not unit length", normal)
		}
		if math.Abs(tangent.Dot(normal)) > 1e-9 ||
			math.Abs(bitangent.Dot(normal)) > 1e-9 ||
			math.Abs(tangent.Dot(bitangent)) > 1e-9 {
			t.Errorf("basis for %v not orthogonal", normal)
		}
	}
}

func TestDirectionClassification(t *testing.T) {
	normal := NewVec3(0, 1, 0)

	up := NewDirection(NewVec3(0, 1, 0), normal)
	if up.IsInvalid() || up.InLowerHemisphere() {
		t.Error("straight-up direction misclassified")
	}
	if up.Cos() != 1 || up.AbsCos() != 1 {
		t.Errorf("unexpected cosines %g / %g", up.Cos(), up.AbsCos())
	}

	down := NewDirection(NewVec3(0, -1, 0), normal)
	if !down.InLowerHemisphere() {
		t.Error("downward direction should be in the lower hemisphere")
	}
	if down.AbsCos() != 1 {
		t.Errorf("downward abs cosine %g", down.AbsCos())
	}

	zero := NewDirection(Vec3{}, normal)
	if !zero.IsInvalid() {
		t.Error("zero direction should be invalid")
	}
	bad := NewDirection(NewVec3(math.NaN(), 0, 0), normal)
	if !bad.IsInvalid() {
		t.Error("NaN direction should be invalid")
	}
}
