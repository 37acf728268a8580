package buffer

import "github.com/tinyrange/glquad/internal/gowin/gl"

// Element describes one vertex attribute in a VertexLayout.
type Element struct {
	Type       uint32
	Count      int32
	Normalized bool
}

// Size returns the attribute size in bytes.
func (e Element) Size() int32 {
	return e.Count * typeSize(e.Type)
}

func typeSize(xtype uint32) int32 {
	switch xtype {
	case gl.Float, gl.UnsignedInt:
		return 4
	case gl.UnsignedByte:
		return 1
	default:
		return 0
	}
}

// VertexLayout lists the attributes of one interleaved vertex, in
// attribute-index order.
type VertexLayout struct {
	elements []Element
	stride   int32
}

func (l *VertexLayout) push(e Element) *VertexLayout {
	l.elements = append(l.elements, e)
	l.stride += e.Size()
	return l
}

// Float32 appends an attribute of count floats.
func (l *VertexLayout) Float32(count int32) *VertexLayout {
	return l.push(Element{Type: gl.Float, Count: count})
}

// Uint32 appends an attribute of count unsigned ints.
func (l *VertexLayout) Uint32(count int32) *VertexLayout {
	return l.push(Element{Type: gl.UnsignedInt, Count: count})
}

// Uint8 appends an attribute of count bytes, optionally normalized to [0, 1].
func (l *VertexLayout) Uint8(count int32, normalized bool) *VertexLayout {
	return l.push(Element{Type: gl.UnsignedByte, Count: count, Normalized: normalized})
}

func (l *VertexLayout) Elements() []Element { return l.elements }

// Stride returns the size of one vertex in bytes.
func (l *VertexLayout) Stride() int32 { return l.stride }
