package integrator

// Config holds the estimator parameters shared by path construction,
// cache distributions and MIS weighting.
type Config struct {
	M                  int     // Number of pre-sampled light sub-paths feeding the candidate pool
	MaxDepth           int     // Maximum sub-path length (vertices beyond the origin)
	NumNeighborCaches  int     // Nc: real cache points considered per camera vertex
	MISThreshold       float64 // Floor for Q/weight ratios in resampling MIS terms
	GuidedEmissionProb float64 // Probability of cone-guided emission sampling
	LightTracingCount  int     // ns1: number of light-tracing samples per frame (width*height)
}

// DefaultConfig returns the estimator defaults
func DefaultConfig() Config {
	return Config{
		M:                  1024,
		MaxDepth:           8,
		NumNeighborCaches:  3,
		MISThreshold:       0.1,
		GuidedEmissionProb: 0.5,
	}
}
