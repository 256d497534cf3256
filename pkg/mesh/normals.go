package mesh

import "github.com/Faultbox/meshview/pkg/math"

// RecalculateNormals recomputes every vertex's smooth normal from the
// current positions and topology. Each accumulator is zeroed exactly
// once, then every triangle adds its face normal to its three
// vertices. Runs after load and after every subdivision; there is no
// incremental path.
func (m *Mesh) RecalculateNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math.Vec3{}
	}

	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.TriangleAt(t)
		n := tri.FaceNormal(m.Vertices)

		m.Vertices[tri.A].Normal = m.Vertices[tri.A].Normal.Add(n)
		m.Vertices[tri.B].Normal = m.Vertices[tri.B].Normal.Add(n)
		m.Vertices[tri.C].Normal = m.Vertices[tri.C].Normal.Add(n)
	}
}
