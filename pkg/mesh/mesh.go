// Package mesh implements a triangle-mesh geometry engine: loading,
// smooth normal computation, parallel area statistics, midpoint
// subdivision, and point containment queries.
//
// A Mesh owns the vertex and index buffers that a rendering layer
// reads directly after any mutating operation. Indices come in groups
// of three with counter-clockwise winding.
package mesh

import (
	"fmt"
	"sync"

	"github.com/Faultbox/meshview/pkg/math"
)

// Vertex is a mesh vertex: a position and a normal accumulator.
//
// Normal is the unnormalized sum of the face normals of every incident
// triangle. It is only meaningful as a direction; consumers normalize
// before use.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
}

// Mesh is the geometry record: an ordered vertex sequence and an
// ordered index sequence whose length is always a multiple of three.
// Every index is a valid position in Vertices.
type Mesh struct {
	Vertices []Vertex
	Indices  []int32

	statsMu      sync.Mutex
	statsPending bool
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// TriangleAt returns the transient view of triangle t (0-based).
// It panics if t is out of range; a bad triangle number is a contract
// violation, not a recoverable condition.
func (m *Mesh) TriangleAt(t int) Triangle {
	if t < 0 || t >= m.TriangleCount() {
		panic(fmt.Sprintf("mesh: triangle %d out of range [0,%d)", t, m.TriangleCount()))
	}
	i := t * 3
	return Triangle{m.Indices[i], m.Indices[i+1], m.Indices[i+2]}
}

// Triangle is a transient view of one triangle: three indices into a
// mesh's vertex sequence. The vertex slice is borrowed at call time so
// the view stays valid even if the mesh reallocates its vertices.
type Triangle struct {
	A, B, C int32
}

// FaceNormal returns the unnormalized face normal. The edge ordering
// (vA-vB crossed with vC-vB) is fixed; it determines the sign of the
// normal relative to the winding and must match the winding convention
// used by the subdivision engine.
func (t Triangle) FaceNormal(verts []Vertex) math.Vec3 {
	e1 := verts[t.A].Position.Sub(verts[t.B].Position)
	e2 := verts[t.C].Position.Sub(verts[t.B].Position)
	return e1.Cross(e2)
}

// Area returns the triangle's area: half the face normal's length.
func (t Triangle) Area(verts []Vertex) float32 {
	return t.FaceNormal(verts).Length() * 0.5
}
