package gl

import (
	"log/slog"
	"unsafe"
)

// ErrorHandler receives errors observed by WithErrorCheck.
type ErrorHandler func(err *Error)

// LogErrors returns a handler that logs each error at error level.
func LogErrors(logger *slog.Logger) ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(err *Error) {
		logger.Error("gl call failed", "error", err)
	}
}

// PanicOnError is a handler that aborts on the first driver error.
func PanicOnError(err *Error) {
	panic(err)
}

// WithErrorCheck wraps g so that every call first clears the driver error
// flag and afterwards reports any new flag to handler, attributed to the
// call site of the wrapped method.
//
// GetError is passed through unchecked so callers can still drain flags
// themselves.
func WithErrorCheck(g OpenGL, handler ErrorHandler) OpenGL {
	if handler == nil {
		handler = PanicOnError
	}
	if c, ok := g.(*checked); ok {
		g = c.gl
	}
	return &checked{gl: g, handler: handler}
}

type checked struct {
	gl      OpenGL
	handler ErrorHandler
}

func (c *checked) before() {
	ClearErrors(c.gl)
}

func (c *checked) after(call string) {
	// skip: checkError, after, the wrapped method.
	if err := checkError(c.gl, call, 3); err != nil {
		c.handler(err.(*Error))
	}
}

func (c *checked) GetError() uint32 {
	return c.gl.GetError()
}

func (c *checked) GetString(name uint32) string {
	c.before()
	s := c.gl.GetString(name)
	c.after("glGetString")
	return s
}

func (c *checked) GetIntegerv(pname uint32, data *int32) {
	c.before()
	c.gl.GetIntegerv(pname, data)
	c.after("glGetIntegerv")
}

func (c *checked) GenBuffers(n int32, buffers *uint32) {
	c.before()
	c.gl.GenBuffers(n, buffers)
	c.after("glGenBuffers")
}

func (c *checked) DeleteBuffers(n int32, buffers *uint32) {
	c.before()
	c.gl.DeleteBuffers(n, buffers)
	c.after("glDeleteBuffers")
}

func (c *checked) BindBuffer(target uint32, buffer uint32) {
	c.before()
	c.gl.BindBuffer(target, buffer)
	c.after("glBindBuffer")
}

func (c *checked) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	c.before()
	c.gl.BufferData(target, size, data, usage)
	c.after("glBufferData")
}

func (c *checked) GenVertexArrays(n int32, arrays *uint32) {
	c.before()
	c.gl.GenVertexArrays(n, arrays)
	c.after("glGenVertexArrays")
}

func (c *checked) DeleteVertexArrays(n int32, arrays *uint32) {
	c.before()
	c.gl.DeleteVertexArrays(n, arrays)
	c.after("glDeleteVertexArrays")
}

func (c *checked) BindVertexArray(array uint32) {
	c.before()
	c.gl.BindVertexArray(array)
	c.after("glBindVertexArray")
}

func (c *checked) EnableVertexAttribArray(index uint32) {
	c.before()
	c.gl.EnableVertexAttribArray(index)
	c.after("glEnableVertexAttribArray")
}

func (c *checked) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	c.before()
	c.gl.VertexAttribPointer(index, size, xtype, normalized, stride, offset)
	c.after("glVertexAttribPointer")
}

func (c *checked) CreateShader(xtype uint32) uint32 {
	c.before()
	id := c.gl.CreateShader(xtype)
	c.after("glCreateShader")
	return id
}

func (c *checked) ShaderSource(shader uint32, source string) {
	c.before()
	c.gl.ShaderSource(shader, source)
	c.after("glShaderSource")
}

func (c *checked) CompileShader(shader uint32) {
	c.before()
	c.gl.CompileShader(shader)
	c.after("glCompileShader")
}

func (c *checked) GetShaderiv(shader uint32, pname uint32, params *int32) {
	c.before()
	c.gl.GetShaderiv(shader, pname, params)
	c.after("glGetShaderiv")
}

func (c *checked) GetShaderInfoLog(shader uint32) string {
	c.before()
	s := c.gl.GetShaderInfoLog(shader)
	c.after("glGetShaderInfoLog")
	return s
}

func (c *checked) DeleteShader(shader uint32) {
	c.before()
	c.gl.DeleteShader(shader)
	c.after("glDeleteShader")
}

func (c *checked) CreateProgram() uint32 {
	c.before()
	id := c.gl.CreateProgram()
	c.after("glCreateProgram")
	return id
}

func (c *checked) AttachShader(program uint32, shader uint32) {
	c.before()
	c.gl.AttachShader(program, shader)
	c.after("glAttachShader")
}

func (c *checked) LinkProgram(program uint32) {
	c.before()
	c.gl.LinkProgram(program)
	c.after("glLinkProgram")
}

func (c *checked) ValidateProgram(program uint32) {
	c.before()
	c.gl.ValidateProgram(program)
	c.after("glValidateProgram")
}

func (c *checked) GetProgramiv(program uint32, pname uint32, params *int32) {
	c.before()
	c.gl.GetProgramiv(program, pname, params)
	c.after("glGetProgramiv")
}

func (c *checked) GetProgramInfoLog(program uint32) string {
	c.before()
	s := c.gl.GetProgramInfoLog(program)
	c.after("glGetProgramInfoLog")
	return s
}

func (c *checked) UseProgram(program uint32) {
	c.before()
	c.gl.UseProgram(program)
	c.after("glUseProgram")
}

func (c *checked) DeleteProgram(program uint32) {
	c.before()
	c.gl.DeleteProgram(program)
	c.after("glDeleteProgram")
}

func (c *checked) GetUniformLocation(program uint32, name string) int32 {
	c.before()
	loc := c.gl.GetUniformLocation(program, name)
	c.after("glGetUniformLocation")
	return loc
}

func (c *checked) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	c.before()
	c.gl.Uniform4f(location, v0, v1, v2, v3)
	c.after("glUniform4f")
}

func (c *checked) Viewport(x, y, width, height int32) {
	c.before()
	c.gl.Viewport(x, y, width, height)
	c.after("glViewport")
}

func (c *checked) ClearColor(r, g, b, a float32) {
	c.before()
	c.gl.ClearColor(r, g, b, a)
	c.after("glClearColor")
}

func (c *checked) Clear(mask uint32) {
	c.before()
	c.gl.Clear(mask)
	c.after("glClear")
}

func (c *checked) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	c.before()
	c.gl.DrawElements(mode, count, xtype, offset)
	c.after("glDrawElements")
}
