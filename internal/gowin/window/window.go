package window

import "github.com/tinyrange/glquad/internal/gowin/gl"

type Window interface {
	// GL loads the driver for this window's context, which must be current
	// on the calling thread.
	GL() (gl.OpenGL, error)
	Close()
	// Poll processes pending events and reports whether the window is still
	// open.
	Poll() bool
	Swap()
	BackingSize() (width, height int)
	Scale() float32
	GetKeyState(key Key) KeyState
}

// Options configure the window and its context. Zero fields take the values
// from DefaultOptions.
type Options struct {
	Title  string
	Width  int
	Height int

	// Requested context version. Forward-compatible core contexts are needed
	// on macOS for anything above 2.1.
	Major         int
	Minor         int
	CoreProfile   bool
	ForwardCompat bool

	// SwapInterval is the number of vblanks per swap; 0 disables vsync.
	SwapInterval int
}

func DefaultOptions() Options {
	return Options{
		Title:         "Triangle",
		Width:         640,
		Height:        480,
		Major:         4,
		Minor:         1,
		CoreProfile:   true,
		ForwardCompat: true,
		SwapInterval:  1,
	}
}

// WithDefaults fills zero fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Major <= 0 {
		o.Major, o.Minor = d.Major, d.Minor
	}
	if o.SwapInterval < 0 {
		o.SwapInterval = d.SwapInterval
	}
	return o
}
