package graphics

import (
	"context"
	"errors"
	"image/color"
	"slices"
	"strings"
	"testing"

	"github.com/tinyrange/glquad/internal/gowin/buffer"
	"github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/gl/gltest"
	"github.com/tinyrange/glquad/internal/gowin/shader"
	"github.com/tinyrange/glquad/internal/gowin/window"
)

const testShader = `#shader vertex
#version 330 core
layout(location = 0) in vec4 position;
void main() { gl_Position = position; }
#shader fragment
#version 330 core
layout(location = 0) out vec4 color;
uniform vec4 u_Color;
void main() { color = u_Color; }
`

func newProgram(t *testing.T, g gl.OpenGL) *shader.Program {
	t.Helper()
	src, err := shader.ParseSource(strings.NewReader(testShader))
	if err != nil {
		t.Fatal(err)
	}
	p, err := shader.Compile(g, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDrawReadsIndicesInOrder(t *testing.T) {
	d := gltest.New()

	va, err := buffer.NewVertexArray(d)
	if err != nil {
		t.Fatal(err)
	}
	vab := va.Bind()
	vb, err := buffer.NewVertexBufferFloat32(d, []float32{-0.5, -0.5, 0.5, -0.5, 0.5, 0.5, -0.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	var layout buffer.VertexLayout
	layout.Float32(2)
	if err := va.AddBuffer(vab, vb.Bind(), &layout); err != nil {
		t.Fatal(err)
	}
	ib, err := buffer.NewIndexBuffer(d, []uint32{0, 1, 2, 2, 3, 0})
	if err != nil {
		t.Fatal(err)
	}
	p := newProgram(t, d)

	r := NewRenderer(d)
	r.Draw(va.Bind(), ib.Bind(), p)

	draws := d.Draws()
	if len(draws) != 1 {
		t.Fatalf("expected 1 draw, got %d (pending errors %v)", len(draws), d.Pending())
	}
	dc := draws[0]
	if dc.Mode != gl.Triangles || dc.Count != 6 {
		t.Errorf("unexpected draw %+v", dc)
	}
	if !slices.Equal(dc.Indices, []uint32{0, 1, 2, 2, 3, 0}) {
		t.Errorf("draw read indices %v", dc.Indices)
	}
	if dc.Program != p.ID() || dc.VAO != va.ID() {
		t.Errorf("draw used program %d vao %d", dc.Program, dc.VAO)
	}

	p.Destroy()
	ib.Destroy()
	ib.Unbind()
	vb.Destroy()
	vb.Unbind()
	va.Destroy()

	if got := gl.Bound(d, gl.ArrayBuffer); got != 0 {
		t.Errorf("array buffer slot holds %d", got)
	}
	if got := gl.Bound(d, gl.ElementArrayBuffer); got != 0 {
		t.Errorf("element buffer slot holds %d", got)
	}
	if d.LiveBuffers() != 0 {
		t.Errorf("%d buffers leaked", d.LiveBuffers())
	}
}

func TestDrawZeroBindingsIsNoop(t *testing.T) {
	d := gltest.New()
	p := newProgram(t, d)
	defer p.Destroy()

	NewRenderer(d).Draw(buffer.ArrayObjectBinding{}, buffer.ElementBinding{}, p)
	if len(d.Draws()) != 0 {
		t.Error("zero bindings produced a draw")
	}
}

func TestClear(t *testing.T) {
	d := gltest.New()
	r := NewRenderer(d)
	r.SetClearColor(color.RGBA{R: 255, G: 0, B: 0, A: 255})
	r.Clear()

	if d.Clears != 1 {
		t.Errorf("expected 1 clear, got %d", d.Clears)
	}
	if d.ClearColorValue != [4]float32{1, 0, 0, 1} {
		t.Errorf("unexpected clear color %v", d.ClearColorValue)
	}
}

func TestColorPulse(t *testing.T) {
	p := NewColorPulse(0, 0.5)
	var got []float32
	for i := 0; i < 6; i++ {
		got = append(got, p.Step())
	}
	want := []float32{0.5, 1, 1.5, 1, 0.5, 0}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if p.Step() != -0.5 || p.Step() != 0 {
		t.Error("pulse did not turn around below zero")
	}
}

func TestColorToFloat32(t *testing.T) {
	if got := ColorToFloat32(ColorWhite); got != [4]float32{1, 1, 1, 1} {
		t.Errorf("white: %v", got)
	}
	if got := ColorToFloat32(ColorBlack); got != [4]float32{0, 0, 0, 1} {
		t.Errorf("black: %v", got)
	}
}

type fakeWindow struct {
	frames int
	polls  int
	swaps  int
}

func (w *fakeWindow) GL() (gl.OpenGL, error) { return gltest.New(), nil }
func (w *fakeWindow) Close()                 {}
func (w *fakeWindow) Poll() bool {
	w.polls++
	return w.polls <= w.frames
}
func (w *fakeWindow) Swap()                                  { w.swaps++ }
func (w *fakeWindow) BackingSize() (int, int)                { return 800, 600 }
func (w *fakeWindow) Scale() float32                         { return 1 }
func (w *fakeWindow) GetKeyState(window.Key) window.KeyState { return window.KeyStateUp }

func TestLoopRunsUntilWindowCloses(t *testing.T) {
	d := gltest.New()
	win := &fakeWindow{frames: 3}
	var indices []uint64

	err := Loop(context.Background(), win, NewRenderer(d), func(f Frame) error {
		indices = append(indices, f.Index())
		if w, h := f.Size(); w != 800 || h != 600 {
			t.Errorf("unexpected size %dx%d", w, h)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Loop failed: %v", err)
	}
	if !slices.Equal(indices, []uint64{0, 1, 2}) {
		t.Errorf("unexpected frame indices %v", indices)
	}
	if win.swaps != 3 {
		t.Errorf("expected 3 swaps, got %d", win.swaps)
	}
	if d.ViewportValue != [4]int32{0, 0, 800, 600} {
		t.Errorf("unexpected viewport %v", d.ViewportValue)
	}
}

func TestLoopStopsOnStepError(t *testing.T) {
	win := &fakeWindow{frames: 10}
	stop := errors.New("stop")
	err := Loop(context.Background(), win, NewRenderer(gltest.New()), func(f Frame) error {
		if f.Index() == 1 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("expected stop, got %v", err)
	}
	if win.swaps != 1 {
		t.Errorf("expected 1 swap, got %d", win.swaps)
	}
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	win := &fakeWindow{frames: 10}
	err := Loop(ctx, win, NewRenderer(gltest.New()), func(f Frame) error {
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if win.swaps != 1 {
		t.Errorf("expected 1 swap, got %d", win.swaps)
	}
}

func TestColorPulseSetIncrementKeepsDirection(t *testing.T) {
	p := NewColorPulse(1, 0.5)
	p.Step() // 1.5
	p.Step() // turns around: 1
	p.SetIncrement(0.25)
	if got := p.Step(); got != 0.75 {
		t.Errorf("expected 0.75, got %v", got)
	}
	if p.Increment() != 0.25 {
		t.Errorf("expected increment 0.25, got %v", p.Increment())
	}
}
