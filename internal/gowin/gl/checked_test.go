package gl_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/gl/gltest"
)

func TestWithErrorCheckReportsEachCall(t *testing.T) {
	d := gltest.New()
	var got []*gl.Error
	g := gl.WithErrorCheck(d, func(err *gl.Error) { got = append(got, err) })

	var id uint32
	g.GenBuffers(1, &id)
	g.BindBuffer(gl.ArrayBuffer, id)
	g.BufferData(gl.ArrayBuffer, -1, nil, gl.StaticDraw)
	g.BindBuffer(0xDEAD, id)

	if len(got) != 2 {
		t.Fatalf("expected 2 reported errors, got %d", len(got))
	}
	if got[0].Call != "glBufferData" || got[0].Code != gl.InvalidValue {
		t.Errorf("first error: %v", got[0])
	}
	if got[1].Call != "glBindBuffer" || got[1].Code != gl.InvalidEnum {
		t.Errorf("second error: %v", got[1])
	}
	for _, e := range got {
		if !strings.HasSuffix(e.File, "checked_test.go") {
			t.Errorf("expected call site in checked_test.go, got %s:%d", e.File, e.Line)
		}
	}
}

func TestWithErrorCheckClearsStaleFlags(t *testing.T) {
	d := gltest.New()
	d.BindBuffer(0xDEAD, 0)

	var reported int
	g := gl.WithErrorCheck(d, func(*gl.Error) { reported++ })
	g.Clear(gl.ColorBufferBit)

	if reported != 0 {
		t.Errorf("stale flag attributed to glClear")
	}
}

func TestPanicOnError(t *testing.T) {
	d := gltest.New()
	g := gl.WithErrorCheck(d, gl.PanicOnError)

	defer func() {
		r := recover()
		e, ok := r.(*gl.Error)
		if !ok {
			t.Fatalf("expected *gl.Error panic, got %v", r)
		}
		if e.Call != "glUseProgram" {
			t.Errorf("expected glUseProgram, got %s", e.Call)
		}
	}()
	g.UseProgram(42)
}

func TestLogErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	g := gl.WithErrorCheck(gltest.New(), gl.LogErrors(logger))

	g.Viewport(0, 0, -1, -1)

	out := buf.String()
	if !strings.Contains(out, "gl call failed") || !strings.Contains(out, "GL_INVALID_VALUE") {
		t.Errorf("unexpected log output %q", out)
	}
}

func TestWithErrorCheckDoesNotStack(t *testing.T) {
	d := gltest.New()
	var calls int
	inner := gl.WithErrorCheck(d, func(*gl.Error) { t.Error("inner handler used") })
	g := gl.WithErrorCheck(inner, func(*gl.Error) { calls++ })

	g.Viewport(0, 0, -1, -1)
	if calls != 1 {
		t.Errorf("expected outer handler once, got %d", calls)
	}
}
