package integrator

// Candidate is an immutable reference to one vertex of one pooled light
// sub-path: S is the light-side vertex count, so the referenced vertex is
// Path.Vertices[S-1].
type Candidate struct {
	Path *Path
	S    int
}

// Vertex returns the light vertex the candidate refers to
func (c Candidate) Vertex() *Vertex {
	return &c.Path.Vertices[c.S-1]
}

// BuildCandidatePool flattens every vertex of the first m light sub-paths,
// in subpath-then-vertex order, into a candidate pool. m must not exceed
// the pool of light paths.
func BuildCandidatePool(lightPaths []Path, m int) []Candidate {
	size := 0
	for i := 0; i < m; i++ {
		size += lightPaths[i].Length
	}

	pool := make([]Candidate, 0, size)
	for i := 0; i < m; i++ {
		for j := 1; j <= lightPaths[i].Length; j++ {
			pool = append(pool, Candidate{Path: &lightPaths[i], S: j})
		}
	}
	return pool
}
