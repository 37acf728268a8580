package buffer

import (
	"unsafe"

	"github.com/tinyrange/glquad/internal/gowin/gl"
)

// IndexBuffer owns a GL_ELEMENT_ARRAY_BUFFER object of unsigned 32-bit
// indices and remembers how many it holds.
type IndexBuffer struct {
	gl    gl.OpenGL
	id    uint32
	count int
}

// NewIndexBuffer uploads indices into a new element buffer, which is left
// bound to the current vertex array.
func NewIndexBuffer(g gl.OpenGL, indices []uint32) (*IndexBuffer, error) {
	if len(indices) == 0 {
		return nil, ErrEmpty
	}
	id, err := upload(g, gl.ElementArrayBuffer, unsafe.Pointer(&indices[0]), len(indices)*4)
	if err != nil {
		return nil, err
	}
	return &IndexBuffer{gl: g, id: id, count: len(indices)}, nil
}

func (ib *IndexBuffer) ID() uint32 { return ib.id }

// Count returns the number of indices given at construction.
func (ib *IndexBuffer) Count() int { return ib.count }

func (ib *IndexBuffer) Bind() ElementBinding {
	ib.gl.BindBuffer(gl.ElementArrayBuffer, ib.id)
	return ElementBinding{ib: ib}
}

func (ib *IndexBuffer) Unbind() {
	ib.gl.BindBuffer(gl.ElementArrayBuffer, 0)
}

// Destroy deletes the buffer object. Calls after the first do nothing.
func (ib *IndexBuffer) Destroy() {
	release(ib.gl, &ib.id)
}
