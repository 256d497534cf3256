package mesh

import (
	"encoding/binary"
	"fmt"
	gomath "math"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/pkg/math"
)

// LoadGLTF loads a glTF 2.0 or GLB document into a Mesh. All triangle
// primitives of all meshes in the document are appended into one
// record; normals from the document are discarded and recomputed the
// same way the JSON loader computes them. Only embedded (GLB) buffers
// are supported.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSource, err)
	}
	return meshFromDocument(doc)
}

func meshFromDocument(doc *gltf.Document) (*Mesh, error) {
	m := &Mesh{}

	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			// Mode 0 tolerates documents built without an explicit mode.
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				continue
			}

			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := readPositions(doc, posIdx)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: %w", gm.Name, err)
			}

			base := int32(len(m.Vertices))
			for _, p := range positions {
				m.Vertices = append(m.Vertices, Vertex{Position: p})
			}

			if prim.Indices != nil {
				idx, err := readIndices(doc, *prim.Indices)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: %w", gm.Name, err)
				}
				for i := 0; i+2 < len(idx); i += 3 {
					a, b, c := idx[i], idx[i+1], idx[i+2]
					if int(a) >= len(positions) || int(b) >= len(positions) || int(c) >= len(positions) {
						return nil, fmt.Errorf("%w: gltf index beyond primitive vertex count", ErrIndexRange)
					}
					m.Indices = append(m.Indices, base+int32(a), base+int32(b), base+int32(c))
				}
			} else {
				// No index accessor: sequential triangles.
				for i := 0; i+2 < len(positions); i += 3 {
					m.Indices = append(m.Indices, base+int32(i), base+int32(i+1), base+int32(i+2))
				}
			}
		}
	}

	m.RecalculateNormals()

	log.Debug("gltf mesh loaded",
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("triangles", m.TriangleCount()))
	return m, nil
}

// readPositions reads a float VEC3 accessor as positions.
func readPositions(doc *gltf.Document, accessorIdx int) ([]math.Vec3, error) {
	acc := doc.Accessors[accessorIdx]
	if acc.Type != gltf.AccessorVec3 || acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("%w: POSITION accessor must be a float VEC3", ErrMalformedDocument)
	}

	data, start, stride, err := accessorLayout(doc, acc, 12)
	if err != nil {
		return nil, err
	}

	out := make([]math.Vec3, acc.Count)
	for i := range out {
		off := start + i*stride
		if off+12 > len(data) {
			return nil, fmt.Errorf("%w: POSITION accessor overruns buffer", ErrMalformedDocument)
		}
		out[i] = math.Vec3{
			X: gomath.Float32frombits(binary.LittleEndian.Uint32(data[off:])),
			Y: gomath.Float32frombits(binary.LittleEndian.Uint32(data[off+4:])),
			Z: gomath.Float32frombits(binary.LittleEndian.Uint32(data[off+8:])),
		}
	}
	return out, nil
}

// readIndices reads a scalar index accessor (ubyte, ushort or uint).
func readIndices(doc *gltf.Document, accessorIdx int) ([]uint32, error) {
	acc := doc.Accessors[accessorIdx]
	if acc.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("%w: index accessor must be SCALAR", ErrMalformedDocument)
	}

	var size int
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("%w: unsupported index component type %v", ErrMalformedDocument, acc.ComponentType)
	}

	data, start, stride, err := accessorLayout(doc, acc, size)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, acc.Count)
	for i := range out {
		off := start + i*stride
		if off+size > len(data) {
			return nil, fmt.Errorf("%w: index accessor overruns buffer", ErrMalformedDocument)
		}
		switch size {
		case 1:
			out[i] = uint32(data[off])
		case 2:
			out[i] = uint32(binary.LittleEndian.Uint16(data[off:]))
		case 4:
			out[i] = binary.LittleEndian.Uint32(data[off:])
		}
	}
	return out, nil
}

// accessorLayout resolves an accessor to its backing bytes, the byte
// offset of the first element and the stride between elements.
func accessorLayout(doc *gltf.Document, acc *gltf.Accessor, elemSize int) (data []byte, start, stride int, err error) {
	if acc.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("%w: accessor has no buffer view", ErrMalformedDocument)
	}
	view := doc.BufferViews[*acc.BufferView]
	buf := doc.Buffers[view.Buffer]

	if buf.URI != "" {
		return nil, 0, 0, fmt.Errorf("%w: external gltf buffers are not supported", ErrMalformedDocument)
	}
	if buf.Data == nil {
		return nil, 0, 0, fmt.Errorf("%w: gltf buffer has no data", ErrMalformedDocument)
	}

	stride = view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	return buf.Data, view.ByteOffset + acc.ByteOffset, stride, nil
}
