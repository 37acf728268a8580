// Package buffer wraps OpenGL buffer and vertex array objects.
//
// Each wrapper owns exactly one driver handle from construction until
// Destroy, which deletes it once. Release is explicit; callers pair every
// constructor with a deferred Destroy in the scope that owns the object.
//
// Bind methods return a binding token. Code that issues attribute setup or
// draw calls takes the token as a parameter, so the required bind has to
// happen before the call can even be written.
package buffer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/tinyrange/glquad/internal/gowin/gl"
)

// ErrEmpty is returned when a buffer would be created with no data.
var ErrEmpty = errors.New("buffer: no data to upload")

// ArrayBinding proves a vertex buffer was bound to GL_ARRAY_BUFFER.
type ArrayBinding struct {
	vb *VertexBuffer
}

// Buffer returns the bound vertex buffer.
func (b ArrayBinding) Buffer() *VertexBuffer { return b.vb }

// ElementBinding proves an index buffer was bound to GL_ELEMENT_ARRAY_BUFFER.
type ElementBinding struct {
	ib *IndexBuffer
}

// Buffer returns the bound index buffer.
func (b ElementBinding) Buffer() *IndexBuffer { return b.ib }

// Count is the number of indices in the bound buffer.
func (b ElementBinding) Count() int { return b.ib.Count() }

// upload creates a buffer object on target and fills it with size bytes from
// data using the static-draw hint. The new buffer stays bound.
func upload(g gl.OpenGL, target uint32, data unsafe.Pointer, size int) (uint32, error) {
	if size <= 0 || data == nil {
		return 0, ErrEmpty
	}
	gl.ClearErrors(g)

	var id uint32
	g.GenBuffers(1, &id)
	g.BindBuffer(target, id)
	g.BufferData(target, size, data, gl.StaticDraw)

	if err := gl.CheckError(g, "glBufferData"); err != nil {
		if id != 0 {
			g.DeleteBuffers(1, &id)
		}
		return 0, fmt.Errorf("upload %d bytes: %w", size, err)
	}
	return id, nil
}

func release(g gl.OpenGL, id *uint32) {
	if *id == 0 {
		return
	}
	g.DeleteBuffers(1, id)
	*id = 0
}
