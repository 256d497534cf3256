package mesh

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/pkg/math"
)

// Load errors. A failed load never returns a partially populated mesh.
var (
	ErrUnreadableSource  = errors.New("mesh: unreadable source")
	ErrMalformedDocument = errors.New("mesh: malformed document")
	ErrMissingField      = errors.New("mesh: missing field")
	ErrVertexValue       = errors.New("mesh: vertex value is not a number")
	ErrIndexValue        = errors.New("mesh: index value is not an integer")
	ErrIndexRange        = errors.New("mesh: triangle index out of range")
)

// LoadFile reads and parses a mesh document from disk.
func LoadFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSource, err)
	}
	return Load(data)
}

// Load parses a mesh document of the form
//
//	{"geometry_object": {"vertices": [x,y,z,...], "triangles": [a,b,c,...]}}
//
// into a Mesh with freshly computed smooth normals. A trailing partial
// group in either array (length not a multiple of three) is dropped
// with a warning rather than rejected.
func Load(data []byte) (*Mesh, error) {
	var doc struct {
		Geometry json.RawMessage `json:"geometry_object"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if doc.Geometry == nil {
		return nil, fmt.Errorf("%w: geometry_object", ErrMissingField)
	}

	var geo struct {
		Vertices  []json.RawMessage `json:"vertices"`
		Triangles []json.RawMessage `json:"triangles"`
	}
	if err := json.Unmarshal(doc.Geometry, &geo); err != nil {
		return nil, fmt.Errorf("%w: geometry_object: %v", ErrMalformedDocument, err)
	}
	if geo.Vertices == nil {
		return nil, fmt.Errorf("%w: geometry_object.vertices", ErrMissingField)
	}
	if geo.Triangles == nil {
		return nil, fmt.Errorf("%w: geometry_object.triangles", ErrMissingField)
	}

	coords := make([]float32, 0, len(geo.Vertices))
	for i, raw := range geo.Vertices {
		var c float32
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: vertices[%d]", ErrVertexValue, i)
		}
		coords = append(coords, c)
	}
	if extra := len(coords) % 3; extra != 0 {
		log.Warn("dropping trailing partial vertex group",
			zap.Int("extra_values", extra))
		coords = coords[:len(coords)-extra]
	}

	verts := make([]Vertex, 0, len(coords)/3)
	for i := 0; i < len(coords); i += 3 {
		verts = append(verts, Vertex{
			Position: math.Vec3{X: coords[i], Y: coords[i+1], Z: coords[i+2]},
		})
	}

	indices := make([]int32, 0, len(geo.Triangles))
	for i, raw := range geo.Triangles {
		var idx int32
		if err := json.Unmarshal(raw, &idx); err != nil {
			return nil, fmt.Errorf("%w: triangles[%d]", ErrIndexValue, i)
		}
		indices = append(indices, idx)
	}
	if extra := len(indices) % 3; extra != 0 {
		log.Warn("dropping trailing partial triangle group",
			zap.Int("extra_indices", extra))
		indices = indices[:len(indices)-extra]
	}

	for i, idx := range indices {
		if idx < 0 || int(idx) >= len(verts) {
			return nil, fmt.Errorf("%w: triangles[%d] = %d, vertex count %d",
				ErrIndexRange, i, idx, len(verts))
		}
	}

	m := &Mesh{Vertices: verts, Indices: indices}
	m.RecalculateNormals()

	log.Debug("mesh loaded",
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("triangles", m.TriangleCount()))
	return m, nil
}
