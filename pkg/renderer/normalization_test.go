package renderer

import (
	"math"
	"testing"
)

func TestNormalizationEstimatorStartsAtZero(t *testing.T) {
	var e NormalizationEstimator
	if e.Estimate() != 0 {
		t.Errorf("estimate before any frame = %g, want 0", e.Estimate())
	}
	if e.Iterations() != 0 || e.Sum() != 0 {
		t.Errorf("fresh estimator has iterations=%d sum=%g", e.Iterations(), e.Sum())
	}
}

func TestNormalizationEstimatorExactAccumulation(t *testing.T) {
	var e NormalizationEstimator

	terms := []float64{2.5, 0, 1.75, 3.25}
	sum := 0.0
	for i, term := range terms {
		e.AddFrame(term)
		sum += term

		if e.Iterations() != i+1 {
			t.Fatalf("after frame %d: iterations = %d", i+1, e.Iterations())
		}
		if e.Sum() != sum {
			t.Fatalf("after frame %d: sum = %g, want %g", i+1, e.Sum(), sum)
		}
		want := sum / float64(i+1)
		if math.Abs(e.Estimate()-want) > 1e-15 {
			t.Fatalf("after frame %d: estimate = %g, want %g", i+1, e.Estimate(), want)
		}
	}
}

func TestNormalizationEstimatorConstantTerms(t *testing.T) {
	var e NormalizationEstimator
	for i := 0; i < 100; i++ {
		e.AddFrame(0.8)
	}
	if math.Abs(e.Estimate()-0.8) > 1e-12 {
		t.Errorf("constant-term estimate drifted to %g", e.Estimate())
	}
}
