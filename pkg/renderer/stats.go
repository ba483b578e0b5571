package renderer

import "time"

// RenderStats summarizes one rendered iteration
type RenderStats struct {
	Iteration      int
	CacheCount     int
	CandidateCount int
	Qp             float64
	Elapsed        time.Duration
}
