package buffer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/gl/gltest"
)

var (
	quadPositions = []float32{
		-0.5, -0.5,
		0.5, -0.5,
		0.5, 0.5,
		-0.5, 0.5,
	}
	quadIndices = []uint32{0, 1, 2, 2, 3, 0}
)

func TestVertexBufferUpload(t *testing.T) {
	d := gltest.New()

	vb, err := NewVertexBufferFloat32(d, quadPositions)
	if err != nil {
		t.Fatalf("NewVertexBufferFloat32 failed: %v", err)
	}
	defer vb.Destroy()

	if vb.Size() != 32 {
		t.Errorf("expected size 32, got %d", vb.Size())
	}
	b, ok := d.Buffer(vb.ID())
	if !ok {
		t.Fatalf("driver has no buffer %d", vb.ID())
	}
	if b.Usage != gl.StaticDraw {
		t.Errorf("expected GL_STATIC_DRAW, got 0x%X", b.Usage)
	}
	if len(b.Data) != 32 {
		t.Fatalf("expected 32 bytes uploaded, got %d", len(b.Data))
	}
	for i, want := range quadPositions {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b.Data[i*4:]))
		if got != want {
			t.Errorf("float %d: expected %v, got %v", i, want, got)
		}
	}
	if got := gl.Bound(d, gl.ArrayBuffer); got != vb.ID() {
		t.Errorf("expected buffer %d left bound, got %d", vb.ID(), got)
	}
}

func TestVertexBufferBindIsIdempotent(t *testing.T) {
	d := gltest.New()
	vb, err := NewVertexBuffer(d, make([]byte, 32))
	if err != nil {
		t.Fatalf("NewVertexBuffer failed: %v", err)
	}
	defer vb.Destroy()

	vb.Unbind()
	first := vb.Bind()
	before := gl.Bound(d, gl.ArrayBuffer)
	second := vb.Bind()
	after := gl.Bound(d, gl.ArrayBuffer)

	if before != vb.ID() || after != before {
		t.Errorf("binding changed across repeated Bind: %d then %d", before, after)
	}
	if first.Buffer() != second.Buffer() {
		t.Error("bindings refer to different buffers")
	}
	if p := d.Pending(); len(p) != 0 {
		t.Errorf("unexpected driver errors: %v", p)
	}
}

func TestIndexBufferCount(t *testing.T) {
	d := gltest.New()
	ib, err := NewIndexBuffer(d, quadIndices)
	if err != nil {
		t.Fatalf("NewIndexBuffer failed: %v", err)
	}

	if ib.Count() != 6 {
		t.Fatalf("expected count 6, got %d", ib.Count())
	}
	for i := 0; i < 3; i++ {
		if c := ib.Bind().Count(); c != 6 {
			t.Errorf("binding count: expected 6, got %d", c)
		}
		ib.Unbind()
	}
	b, _ := d.Buffer(ib.ID())
	if len(b.Data) != 24 {
		t.Errorf("expected 24 bytes uploaded, got %d", len(b.Data))
	}

	ib.Destroy()
	if ib.Count() != 6 {
		t.Errorf("count changed after Destroy: %d", ib.Count())
	}
}

func TestDestroyDeletesOnce(t *testing.T) {
	d := gltest.New()
	vb, err := NewVertexBufferFloat32(d, quadPositions)
	if err != nil {
		t.Fatal(err)
	}
	ib, err := NewIndexBuffer(d, quadIndices)
	if err != nil {
		t.Fatal(err)
	}
	vbID, ibID := vb.ID(), ib.ID()

	vb.Destroy()
	vb.Destroy()
	ib.Destroy()
	ib.Destroy()

	if n := d.Deletes(vbID); n != 1 {
		t.Errorf("vertex buffer deleted %d times", n)
	}
	if n := d.Deletes(ibID); n != 1 {
		t.Errorf("index buffer deleted %d times", n)
	}
	if vb.ID() != 0 || ib.ID() != 0 {
		t.Errorf("handles not cleared: %d %d", vb.ID(), ib.ID())
	}
	if d.LiveBuffers() != 0 {
		t.Errorf("expected no live buffers, got %d", d.LiveBuffers())
	}
}

func TestDestroyThenUnbindLeavesNoBinding(t *testing.T) {
	d := gltest.New()
	vb, err := NewVertexBufferFloat32(d, quadPositions)
	if err != nil {
		t.Fatal(err)
	}
	ib, err := NewIndexBuffer(d, quadIndices)
	if err != nil {
		t.Fatal(err)
	}
	vb.Bind()
	ib.Bind()

	vb.Destroy()
	vb.Unbind()
	ib.Destroy()
	ib.Unbind()

	if got := gl.Bound(d, gl.ArrayBuffer); got != 0 {
		t.Errorf("array buffer slot still holds %d", got)
	}
	if got := gl.Bound(d, gl.ElementArrayBuffer); got != 0 {
		t.Errorf("element buffer slot still holds %d", got)
	}
	if p := d.Pending(); len(p) != 0 {
		t.Errorf("unexpected driver errors: %v", p)
	}
}

func TestHandlesAreNotReused(t *testing.T) {
	d := gltest.New()
	first, err := NewVertexBuffer(d, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	old := first.ID()
	first.Destroy()

	second, err := NewVertexBuffer(d, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	defer second.Destroy()
	if second.ID() == old {
		t.Errorf("handle %d reused", old)
	}
}

func TestEmptyDataIsRejected(t *testing.T) {
	d := gltest.New()
	if _, err := NewVertexBuffer(d, nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("NewVertexBuffer(nil): expected ErrEmpty, got %v", err)
	}
	if _, err := NewVertexBufferFloat32(d, []float32{}); !errors.Is(err, ErrEmpty) {
		t.Errorf("NewVertexBufferFloat32(empty): expected ErrEmpty, got %v", err)
	}
	if _, err := NewIndexBuffer(d, nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("NewIndexBuffer(nil): expected ErrEmpty, got %v", err)
	}
	if len(d.Calls()) != 0 {
		t.Errorf("expected no driver calls, got %v", d.Calls())
	}
}

func TestUploadFailureReleasesHandle(t *testing.T) {
	d := gltest.New()
	d.Fail("glBufferData", gl.OutOfMemory)

	_, err := NewIndexBuffer(d, quadIndices)
	if err == nil {
		t.Fatal("expected an error")
	}
	var glErr *gl.Error
	if !errors.As(err, &glErr) {
		t.Fatalf("expected *gl.Error in chain, got %T: %v", err, err)
	}
	if glErr.Code != gl.OutOfMemory {
		t.Errorf("expected GL_OUT_OF_MEMORY, got %s", gl.ErrorName(glErr.Code))
	}
	if glErr.Line == 0 {
		t.Error("error has no call site")
	}
	if d.LiveBuffers() != 0 {
		t.Errorf("failed upload leaked %d buffers", d.LiveBuffers())
	}
}

func TestLayoutOffsets(t *testing.T) {
	var layout VertexLayout
	layout.Float32(2).Float32(4).Uint8(4, true)

	if layout.Stride() != 28 {
		t.Fatalf("expected stride 28, got %d", layout.Stride())
	}

	d := gltest.New()
	va, err := NewVertexArray(d)
	if err != nil {
		t.Fatal(err)
	}
	defer va.Destroy()
	vb, err := NewVertexBuffer(d, make([]byte, 28*3))
	if err != nil {
		t.Fatal(err)
	}
	defer vb.Destroy()

	if err := va.AddBuffer(va.Bind(), vb.Bind(), &layout); err != nil {
		t.Fatalf("AddBuffer failed: %v", err)
	}

	state, _ := d.Array(va.ID())
	want := []gltest.Attrib{
		{Size: 2, Type: gl.Float, Stride: 28, Offset: 0, Buffer: vb.ID(), Enabled: true},
		{Size: 4, Type: gl.Float, Stride: 28, Offset: 8, Buffer: vb.ID(), Enabled: true},
		{Size: 4, Type: gl.UnsignedByte, Normalized: true, Stride: 28, Offset: 24, Buffer: vb.ID(), Enabled: true},
	}
	for i, w := range want {
		if got := state.Attribs[uint32(i)]; got != w {
			t.Errorf("attrib %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestAddBufferRejectsForeignBinding(t *testing.T) {
	d := gltest.New()
	a, _ := NewVertexArray(d)
	b, _ := NewVertexArray(d)
	vb, _ := NewVertexBuffer(d, make([]byte, 8))

	var layout VertexLayout
	layout.Float32(2)
	if err := a.AddBuffer(b.Bind(), vb.Bind(), &layout); err == nil {
		t.Error("expected an error for a binding of another vertex array")
	}

	vb.Destroy()
	if err := a.AddBuffer(a.Bind(), vb.Bind(), &layout); err == nil {
		t.Error("expected an error for a destroyed vertex buffer")
	}
}

func TestIndexBufferIsVertexArrayState(t *testing.T) {
	d := gltest.New()
	va, _ := NewVertexArray(d)
	defer va.Destroy()
	va.Bind()

	ib, err := NewIndexBuffer(d, quadIndices)
	if err != nil {
		t.Fatal(err)
	}
	defer ib.Destroy()

	va.Unbind()
	if got := gl.Bound(d, gl.ElementArrayBuffer); got != 0 {
		t.Errorf("default vertex array sees element buffer %d", got)
	}
	va.Bind()
	if got := gl.Bound(d, gl.ElementArrayBuffer); got != ib.ID() {
		t.Errorf("expected element buffer %d restored with the vertex array, got %d", ib.ID(), got)
	}
}
