// Package desktop implements window.Window with glfw.
package desktop

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/window"
)

var glfwKeys = map[window.Key]glfw.Key{
	window.KeyEscape: glfw.KeyEscape,
	window.KeySpace:  glfw.KeySpace,
	window.KeyEnter:  glfw.KeyEnter,
	window.KeyR:      glfw.KeyR,
	window.KeyUp:     glfw.KeyUp,
	window.KeyDown:   glfw.KeyDown,
	window.KeyLeft:   glfw.KeyLeft,
	window.KeyRight:  glfw.KeyRight,
}

// GLFW is a Window backed by a glfw window and its OpenGL context.
type GLFW struct {
	win  *glfw.Window
	keys window.KeyTracker
}

// New creates a window and makes its context current. It must be called
// from the main thread, which the caller locks with runtime.LockOSThread.
func New(opts window.Options) (window.Window, error) {
	opts = opts.WithDefaults()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, opts.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, opts.Minor)
	if opts.ForwardCompat {
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}
	if opts.CoreProfile {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	}

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(opts.SwapInterval)

	return &GLFW{win: win}, nil
}

func (w *GLFW) GL() (gl.OpenGL, error) {
	return gl.Load(glfw.GetProcAddress)
}

func (w *GLFW) Poll() bool {
	glfw.PollEvents()
	w.keys.Sample(func(k window.Key) bool {
		key, ok := glfwKeys[k]
		return ok && w.win.GetKey(key) == glfw.Press
	})
	if w.keys.State(window.KeyEscape) == window.KeyStatePressed {
		w.win.SetShouldClose(true)
	}
	return !w.win.ShouldClose()
}

func (w *GLFW) Swap() {
	w.win.SwapBuffers()
}

func (w *GLFW) BackingSize() (int, int) {
	return w.win.GetFramebufferSize()
}

func (w *GLFW) Scale() float32 {
	x, _ := w.win.GetContentScale()
	if x <= 0 {
		return 1
	}
	return x
}

func (w *GLFW) GetKeyState(key window.Key) window.KeyState {
	return w.keys.State(key)
}

// Close destroys the window and shuts glfw down.
func (w *GLFW) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
}
