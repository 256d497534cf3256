package mesh

import "github.com/Faultbox/meshview/pkg/math"

// InsideRayDirection is the fixed direction used by IsInside. It is
// deliberately off the coordinate diagonals so that rays from points
// aligned with an axis-aligned mesh rarely pass exactly through an
// edge or vertex. When they do, the parity count is unreliable; this
// is a known limitation and is not mitigated.
var InsideRayDirection = math.Vec3{X: 1, Y: 0.5, Z: 0.25}

// epsilon32 is the machine epsilon for float32.
const epsilon32 = 1.1920929e-07

// IsInside reports whether p is enclosed by the mesh surface, by
// counting ray-triangle intersections along InsideRayDirection: the
// point is inside iff the count is odd. Assumes a closed (watertight)
// mesh. Sequential over all triangles, O(triangle count) per query.
func (m *Mesh) IsInside(p math.Vec3) bool {
	hits := 0
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.TriangleAt(t)
		if rayHitsTriangle(p, InsideRayDirection,
			m.Vertices[tri.A].Position,
			m.Vertices[tri.B].Position,
			m.Vertices[tri.C].Position) {
			hits++
		}
	}
	return hits%2 == 1
}

// rayHitsTriangle is the Moller-Trumbore intersection test. Rays
// parallel to the triangle plane are rejected by the near-zero
// determinant check; only intersections strictly ahead of the origin
// (t > epsilon) count.
func rayHitsTriangle(origin, dir, v0, v1, v2 math.Vec3) bool {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	h := dir.Cross(edge2)
	det := edge1.Dot(h)
	if det > -epsilon32 && det < epsilon32 {
		return false
	}

	invDet := 1 / det
	s := origin.Sub(v0)
	u := invDet * s.Dot(h)
	if u < 0 || u > 1 {
		return false
	}

	q := s.Cross(edge1)
	v := invDet * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return false
	}

	t := invDet * edge2.Dot(q)
	return t > epsilon32
}
