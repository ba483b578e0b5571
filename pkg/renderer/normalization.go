package renderer

// NormalizationEstimator is the progressive estimate of the virtual cache
// point's normalization factor Qp: an arithmetic mean of one term per frame,
// never reset for the lifetime of the renderer. Mutated only by the
// orchestrator between parallel phases.
type NormalizationEstimator struct {
	sum        float64
	iterations int
}

// AddFrame accumulates one frame's term and advances the iteration counter
func (e *NormalizationEstimator) AddFrame(term float64) {
	e.sum += term
	e.iterations++
}

// Iterations returns the number of frames accumulated so far
func (e *NormalizationEstimator) Iterations() int {
	return e.iterations
}

// Sum returns the accumulated running sum
func (e *NormalizationEstimator) Sum() float64 {
	return e.sum
}

// Estimate returns the current mean, zero before the first frame
func (e *NormalizationEstimator) Estimate() float64 {
	if e.iterations == 0 {
		return 0
	}
	return e.sum / float64(e.iterations)
}
