package buffer

import (
	"fmt"

	"github.com/tinyrange/glquad/internal/gowin/gl"
)

// VertexArray owns a vertex array object. It records the attribute layout
// and the element buffer bound while it is active.
type VertexArray struct {
	gl gl.OpenGL
	id uint32
	// next attribute index handed out by AddBuffer.
	next uint32
}

// ArrayObjectBinding proves a vertex array was bound.
type ArrayObjectBinding struct {
	va *VertexArray
}

func (b ArrayObjectBinding) Array() *VertexArray { return b.va }

// NewVertexArray creates a vertex array object. It is not bound.
func NewVertexArray(g gl.OpenGL) (*VertexArray, error) {
	gl.ClearErrors(g)
	var id uint32
	g.GenVertexArrays(1, &id)
	if err := gl.CheckError(g, "glGenVertexArrays"); err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, fmt.Errorf("vertex array: driver returned no handle")
	}
	return &VertexArray{gl: g, id: id}, nil
}

func (va *VertexArray) ID() uint32 { return va.id }

func (va *VertexArray) Bind() ArrayObjectBinding {
	va.gl.BindVertexArray(va.id)
	return ArrayObjectBinding{va: va}
}

func (va *VertexArray) Unbind() {
	va.gl.BindVertexArray(0)
}

// AddBuffer points the next attributes of the bound vertex array at the
// bound vertex buffer, one per layout element with running offsets.
func (va *VertexArray) AddBuffer(array ArrayObjectBinding, vertices ArrayBinding, layout *VertexLayout) error {
	if array.va != va {
		return fmt.Errorf("vertex array %d: binding is for another vertex array", va.id)
	}
	if vertices.vb == nil || vertices.vb.id == 0 {
		return fmt.Errorf("vertex array %d: vertex buffer is not live", va.id)
	}
	gl.ClearErrors(va.gl)
	var offset uintptr
	for _, e := range layout.Elements() {
		va.gl.EnableVertexAttribArray(va.next)
		va.gl.VertexAttribPointer(va.next, e.Count, e.Type, e.Normalized, layout.Stride(), offset)
		offset += uintptr(e.Size())
		va.next++
	}
	return gl.CheckError(va.gl, "glVertexAttribPointer")
}

// Destroy deletes the vertex array object. Calls after the first do nothing.
func (va *VertexArray) Destroy() {
	if va.id == 0 {
		return
	}
	va.gl.DeleteVertexArrays(1, &va.id)
	va.id = 0
}
