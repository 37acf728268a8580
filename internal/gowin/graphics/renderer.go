package graphics

import (
	"image/color"

	"github.com/tinyrange/glquad/internal/gowin/buffer"
	"github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/shader"
)

// Renderer issues clear and draw calls. It holds no GPU objects of its own.
type Renderer struct {
	gl         gl.OpenGL
	clearColor color.Color
}

func NewRenderer(g gl.OpenGL) *Renderer {
	return &Renderer{gl: g, clearColor: ColorBlack}
}

func (r *Renderer) GL() gl.OpenGL { return r.gl }

func (r *Renderer) SetClearColor(c color.Color) {
	r.clearColor = c
}

// Clear fills the color buffer with the clear color.
func (r *Renderer) Clear() {
	rgba := ColorToFloat32(r.clearColor)
	r.gl.ClearColor(rgba[0], rgba[1], rgba[2], rgba[3])
	r.gl.Clear(gl.ColorBufferBit)
}

// Draw renders the indices of ib as a triangle list using the attributes of
// va and program p. Both bindings must come from Bind calls made for this
// draw; ib must have been bound while va was bound.
// Zero-value bindings draw nothing.
func (r *Renderer) Draw(va buffer.ArrayObjectBinding, ib buffer.ElementBinding, p *shader.Program) {
	if va.Array() == nil || ib.Buffer() == nil || ib.Count() == 0 {
		return
	}
	p.Use()
	r.gl.DrawElements(gl.Triangles, int32(ib.Count()), gl.UnsignedInt, 0)
}
