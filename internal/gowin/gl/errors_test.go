package gl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/gl/gltest"
)

func TestCheckErrorReportsCallSite(t *testing.T) {
	d := gltest.New()
	d.BindBuffer(0xDEAD, 0)

	err := gl.CheckError(d, "glBindBuffer")
	if err == nil {
		t.Fatal("expected an error")
	}
	var glErr *gl.Error
	if !errors.As(err, &glErr) {
		t.Fatalf("expected *gl.Error, got %T", err)
	}
	if glErr.Code != gl.InvalidEnum {
		t.Errorf("expected GL_INVALID_ENUM, got %s", gl.ErrorName(glErr.Code))
	}
	if !strings.HasSuffix(glErr.File, "errors_test.go") {
		t.Errorf("expected call site in errors_test.go, got %q", glErr.File)
	}
	if !strings.Contains(err.Error(), "GL_INVALID_ENUM") || !strings.Contains(err.Error(), "glBindBuffer") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCheckErrorDrainsAllFlags(t *testing.T) {
	d := gltest.New()
	d.BindBuffer(0xDEAD, 0)         // GL_INVALID_ENUM
	d.BindBuffer(gl.ArrayBuffer, 7) // GL_INVALID_OPERATION

	err := gl.CheckError(d, "glBindBuffer")
	var glErr *gl.Error
	if !errors.As(err, &glErr) {
		t.Fatalf("expected *gl.Error, got %v", err)
	}
	if len(glErr.Codes) != 2 {
		t.Errorf("expected 2 drained flags, got %v", glErr.Codes)
	}
	if gl.CheckError(d, "none") != nil {
		t.Error("flags left after CheckError")
	}
}

func TestCheckErrorNil(t *testing.T) {
	d := gltest.New()
	if err := gl.CheckError(d, "glGetError"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestClearErrors(t *testing.T) {
	d := gltest.New()
	d.BindBuffer(0xDEAD, 0)
	gl.ClearErrors(d)
	if p := d.Pending(); len(p) != 0 {
		t.Errorf("expected no pending flags, got %v", p)
	}
}

func TestErrorName(t *testing.T) {
	cases := map[uint32]string{
		gl.NoError:          "GL_NO_ERROR",
		gl.InvalidValue:     "GL_INVALID_VALUE",
		gl.InvalidOperation: "GL_INVALID_OPERATION",
		gl.OutOfMemory:      "GL_OUT_OF_MEMORY",
		0x9999:              "GL_ERROR_0x9999",
	}
	for code, want := range cases {
		if got := gl.ErrorName(code); got != want {
			t.Errorf("ErrorName(0x%X) = %q, want %q", code, got, want)
		}
	}
}

func TestBound(t *testing.T) {
	d := gltest.New()
	var id uint32
	d.GenBuffers(1, &id)
	d.BindBuffer(gl.ArrayBuffer, id)

	if got := gl.Bound(d, gl.ArrayBuffer); got != id {
		t.Errorf("expected %d, got %d", id, got)
	}
	if got := gl.Bound(d, gl.ElementArrayBuffer); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := gl.Bound(d, 0x1234); got != 0 {
		t.Errorf("unknown target: expected 0, got %d", got)
	}
}
