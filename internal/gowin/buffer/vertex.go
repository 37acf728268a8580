package buffer

import (
	"unsafe"

	"github.com/tinyrange/glquad/internal/gowin/gl"
)

// VertexBuffer owns a GL_ARRAY_BUFFER object holding raw vertex data.
type VertexBuffer struct {
	gl   gl.OpenGL
	id   uint32
	size int
}

// NewVertexBuffer uploads data into a new array buffer, which is left bound.
func NewVertexBuffer(g gl.OpenGL, data []byte) (*VertexBuffer, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	id, err := upload(g, gl.ArrayBuffer, unsafe.Pointer(&data[0]), len(data))
	if err != nil {
		return nil, err
	}
	return &VertexBuffer{gl: g, id: id, size: len(data)}, nil
}

// NewVertexBufferFloat32 uploads tightly packed float32 vertex data.
func NewVertexBufferFloat32(g gl.OpenGL, data []float32) (*VertexBuffer, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	size := len(data) * 4
	id, err := upload(g, gl.ArrayBuffer, unsafe.Pointer(&data[0]), size)
	if err != nil {
		return nil, err
	}
	return &VertexBuffer{gl: g, id: id, size: size}, nil
}

// ID returns the driver handle, or 0 after Destroy.
func (vb *VertexBuffer) ID() uint32 { return vb.id }

// Size returns the number of bytes uploaded at construction.
func (vb *VertexBuffer) Size() int { return vb.size }

// Bind makes vb the active array buffer.
func (vb *VertexBuffer) Bind() ArrayBinding {
	vb.gl.BindBuffer(gl.ArrayBuffer, vb.id)
	return ArrayBinding{vb: vb}
}

// Unbind clears the array buffer binding.
func (vb *VertexBuffer) Unbind() {
	vb.gl.BindBuffer(gl.ArrayBuffer, 0)
}

// Destroy deletes the buffer object. Calls after the first do nothing.
func (vb *VertexBuffer) Destroy() {
	release(vb.gl, &vb.id)
}
