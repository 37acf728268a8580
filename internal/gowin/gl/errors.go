package gl

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
)

// maxDrain bounds error draining. Without a current context some drivers
// report an error from every GetError call.
const maxDrain = 16

// Error is a driver error flag observed after a GL call.
type Error struct {
	Code uint32
	// Codes holds every flag drained at the same check, Code included.
	Codes []uint32
	Call  string
	File  string
	Line  int
}

func (e *Error) Error() string {
	if e.File == "" {
		return fmt.Sprintf("gl: %s (0x%04X) in %s", ErrorName(e.Code), e.Code, e.Call)
	}
	return fmt.Sprintf("gl: %s (0x%04X) in %s at %s:%d",
		ErrorName(e.Code), e.Code, e.Call, filepath.Base(e.File), e.Line)
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("code", ErrorName(e.Code)),
		slog.String("call", e.Call),
		slog.String("file", filepath.Base(e.File)),
		slog.Int("line", e.Line),
	)
}

// ErrorName returns the GL_* name for an error code.
func ErrorName(code uint32) string {
	switch code {
	case NoError:
		return "GL_NO_ERROR"
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case StackOverflow:
		return "GL_STACK_OVERFLOW"
	case StackUnderflow:
		return "GL_STACK_UNDERFLOW"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return fmt.Sprintf("GL_ERROR_0x%04X", code)
	}
}

// ClearErrors drains any pending driver error flags.
func ClearErrors(g OpenGL) {
	for i := 0; i < maxDrain; i++ {
		if g.GetError() == NoError {
			return
		}
	}
}

// CheckError drains pending error flags and reports them as an *Error
// attributed to call and to the caller's file and line. It returns nil when
// no flag was set.
func CheckError(g OpenGL, call string) error {
	return checkError(g, call, 2)
}

func checkError(g OpenGL, call string, skip int) error {
	var codes []uint32
	for i := 0; i < maxDrain; i++ {
		code := g.GetError()
		if code == NoError {
			break
		}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return nil
	}
	e := &Error{Code: codes[0], Codes: codes, Call: call}
	if _, file, line, ok := runtime.Caller(skip); ok {
		e.File = file
		e.Line = line
	}
	return e
}
