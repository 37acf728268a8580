package graphics

import (
	"context"

	"github.com/tinyrange/glquad/internal/gowin/window"
)

// Frame is passed to the step function once per frame.
type Frame interface {
	// Index counts frames from 0.
	Index() uint64
	// Size returns the framebuffer size in pixels.
	Size() (width, height int)
	GetKeyState(key window.Key) window.KeyState
	Renderer() *Renderer
}

type frame struct {
	index  uint64
	width  int
	height int
	win    window.Window
	r      *Renderer
}

func (f *frame) Index() uint64                              { return f.index }
func (f *frame) Size() (int, int)                           { return f.width, f.height }
func (f *frame) GetKeyState(key window.Key) window.KeyState { return f.win.GetKeyState(key) }
func (f *frame) Renderer() *Renderer                        { return f.r }

// Loop calls step once per frame until the window closes, ctx is done or
// step returns an error. Each frame sets the viewport to the framebuffer
// size before step and swaps buffers after it. The window is not closed.
func Loop(ctx context.Context, win window.Window, r *Renderer, step func(f Frame) error) error {
	f := &frame{win: win, r: r}
	for win.Poll() {
		if err := ctx.Err(); err != nil {
			return err
		}

		f.width, f.height = win.BackingSize()
		r.gl.Viewport(0, 0, int32(f.width), int32(f.height))

		if err := step(f); err != nil {
			return err
		}

		win.Swap()
		f.index++
	}
	return nil
}
