package mesh

import "go.uber.org/zap"

// edgeKey returns an order-independent key for the undirected edge
// between vertices a and b. Collision-free for any valid index pair.
func edgeKey(a, b int32) [2]int32 {
	if a > b {
		a, b = b, a
	}
	return [2]int32{a, b}
}

// Subdivide refines the mesh in place by one level: every triangle is
// replaced by four, split at its edge midpoints. Each undirected edge
// yields exactly one midpoint vertex, shared by both adjacent
// triangles, so the refined surface stays crack-free. The index
// sequence is replaced wholesale (growing exactly 4x) and all normals
// are recomputed. Repeated calls keep refining.
func (m *Mesh) Subdivide() {
	oldIndices := m.Indices
	midpoints := make(map[[2]int32]int32)
	newIndices := make([]int32, 0, len(oldIndices)*4)

	midpoint := func(a, b int32) int32 {
		key := edgeKey(a, b)
		if idx, ok := midpoints[key]; ok {
			return idx
		}
		pos := m.Vertices[a].Position.Midpoint(m.Vertices[b].Position)
		idx := int32(len(m.Vertices))
		m.Vertices = append(m.Vertices, Vertex{Position: pos})
		midpoints[key] = idx
		return idx
	}

	for i := 0; i+2 < len(oldIndices); i += 3 {
		a, b, c := oldIndices[i], oldIndices[i+1], oldIndices[i+2]

		midAC := midpoint(a, c)
		midAB := midpoint(a, b)
		midBC := midpoint(b, c)

		// Four children per triangle, counter-clockwise winding preserved.
		newIndices = append(newIndices,
			a, midAB, midAC,
			midAC, midAB, midBC,
			midAC, midBC, c,
			midAB, b, midBC,
		)
	}

	m.Indices = newIndices
	m.RecalculateNormals()

	log.Debug("mesh subdivided",
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("triangles", m.TriangleCount()),
		zap.Int("new_midpoints", len(midpoints)))
}
