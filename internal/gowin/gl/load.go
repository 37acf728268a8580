package gl

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ProcAddressFunc resolves a GL entry point in the current context, for
// example glfw.GetProcAddress.
type ProcAddressFunc func(name string) unsafe.Pointer

type driver struct {
	glGetError    func() uint32
	glGetString   func(name uint32) uintptr
	glGetIntegerv func(pname uint32, data *int32)

	glGenBuffers    func(n int32, buffers *uint32)
	glDeleteBuffers func(n int32, buffers *uint32)
	glBindBuffer    func(target uint32, buffer uint32)
	glBufferData    func(target uint32, size int, data unsafe.Pointer, usage uint32)

	glGenVertexArrays         func(n int32, arrays *uint32)
	glDeleteVertexArrays      func(n int32, arrays *uint32)
	glBindVertexArray         func(array uint32)
	glEnableVertexAttribArray func(index uint32)
	glVertexAttribPointer     func(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)

	glCreateShader       func(xtype uint32) uint32
	glShaderSource       func(shader uint32, count int32, sources **byte, lengths *int32)
	glCompileShader      func(shader uint32)
	glGetShaderiv        func(shader uint32, pname uint32, params *int32)
	glGetShaderInfoLog   func(shader uint32, bufSize int32, length *int32, infoLog *byte)
	glDeleteShader       func(shader uint32)
	glCreateProgram      func() uint32
	glAttachShader       func(program uint32, shader uint32)
	glLinkProgram        func(program uint32)
	glValidateProgram    func(program uint32)
	glGetProgramiv       func(program uint32, pname uint32, params *int32)
	glGetProgramInfoLog  func(program uint32, bufSize int32, length *int32, infoLog *byte)
	glUseProgram         func(program uint32)
	glDeleteProgram      func(program uint32)
	glGetUniformLocation func(program uint32, name string) int32
	glUniform4f          func(location int32, v0, v1, v2, v3 float32)

	glViewport     func(x, y, width, height int32)
	glClearColor   func(r, g, b, a float32)
	glClear        func(mask uint32)
	glDrawElements func(mode uint32, count int32, xtype uint32, offset uintptr)
}

// Load resolves every entry point through getProcAddress. A context must be
// current on the calling thread.
func Load(getProcAddress ProcAddressFunc) (OpenGL, error) {
	if getProcAddress == nil {
		return nil, fmt.Errorf("gl: no proc address function")
	}
	d := &driver{}
	procs := []struct {
		name string
		fn   any
	}{
		{"glGetError", &d.glGetError},
		{"glGetString", &d.glGetString},
		{"glGetIntegerv", &d.glGetIntegerv},
		{"glGenBuffers", &d.glGenBuffers},
		{"glDeleteBuffers", &d.glDeleteBuffers},
		{"glBindBuffer", &d.glBindBuffer},
		{"glBufferData", &d.glBufferData},
		{"glGenVertexArrays", &d.glGenVertexArrays},
		{"glDeleteVertexArrays", &d.glDeleteVertexArrays},
		{"glBindVertexArray", &d.glBindVertexArray},
		{"glEnableVertexAttribArray", &d.glEnableVertexAttribArray},
		{"glVertexAttribPointer", &d.glVertexAttribPointer},
		{"glCreateShader", &d.glCreateShader},
		{"glShaderSource", &d.glShaderSource},
		{"glCompileShader", &d.glCompileShader},
		{"glGetShaderiv", &d.glGetShaderiv},
		{"glGetShaderInfoLog", &d.glGetShaderInfoLog},
		{"glDeleteShader", &d.glDeleteShader},
		{"glCreateProgram", &d.glCreateProgram},
		{"glAttachShader", &d.glAttachShader},
		{"glLinkProgram", &d.glLinkProgram},
		{"glValidateProgram", &d.glValidateProgram},
		{"glGetProgramiv", &d.glGetProgramiv},
		{"glGetProgramInfoLog", &d.glGetProgramInfoLog},
		{"glUseProgram", &d.glUseProgram},
		{"glDeleteProgram", &d.glDeleteProgram},
		{"glGetUniformLocation", &d.glGetUniformLocation},
		{"glUniform4f", &d.glUniform4f},
		{"glViewport", &d.glViewport},
		{"glClearColor", &d.glClearColor},
		{"glClear", &d.glClear},
		{"glDrawElements", &d.glDrawElements},
	}
	for _, p := range procs {
		addr := getProcAddress(p.name)
		if addr == nil {
			return nil, fmt.Errorf("gl: missing entry point %s", p.name)
		}
		purego.RegisterFunc(p.fn, uintptr(addr))
	}
	return d, nil
}

func (d *driver) GetError() uint32 { return d.glGetError() }

func (d *driver) GetString(name uint32) string {
	return goString(d.glGetString(name))
}

func (d *driver) GetIntegerv(pname uint32, data *int32) { d.glGetIntegerv(pname, data) }

func (d *driver) GenBuffers(n int32, buffers *uint32)     { d.glGenBuffers(n, buffers) }
func (d *driver) DeleteBuffers(n int32, buffers *uint32)  { d.glDeleteBuffers(n, buffers) }
func (d *driver) BindBuffer(target uint32, buffer uint32) { d.glBindBuffer(target, buffer) }

func (d *driver) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	d.glBufferData(target, size, data, usage)
}

func (d *driver) GenVertexArrays(n int32, arrays *uint32)    { d.glGenVertexArrays(n, arrays) }
func (d *driver) DeleteVertexArrays(n int32, arrays *uint32) { d.glDeleteVertexArrays(n, arrays) }
func (d *driver) BindVertexArray(array uint32)               { d.glBindVertexArray(array) }
func (d *driver) EnableVertexAttribArray(index uint32)       { d.glEnableVertexAttribArray(index) }

func (d *driver) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	d.glVertexAttribPointer(index, size, xtype, normalized, stride, offset)
}

func (d *driver) CreateShader(xtype uint32) uint32 { return d.glCreateShader(xtype) }

func (d *driver) ShaderSource(shader uint32, source string) {
	src := append([]byte(source), 0)
	ptr := &src[0]
	length := int32(len(source))
	d.glShaderSource(shader, 1, &ptr, &length)
	runtime.KeepAlive(src)
}

func (d *driver) CompileShader(shader uint32) { d.glCompileShader(shader) }

func (d *driver) GetShaderiv(shader uint32, pname uint32, params *int32) {
	d.glGetShaderiv(shader, pname, params)
}

func (d *driver) GetShaderInfoLog(shader uint32) string {
	var n int32
	d.glGetShaderiv(shader, InfoLogLength, &n)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	var written int32
	d.glGetShaderInfoLog(shader, n, &written, &buf[0])
	return string(buf[:clampLen(written, n)])
}

func (d *driver) DeleteShader(shader uint32) { d.glDeleteShader(shader) }

func (d *driver) CreateProgram() uint32                      { return d.glCreateProgram() }
func (d *driver) AttachShader(program uint32, shader uint32) { d.glAttachShader(program, shader) }
func (d *driver) LinkProgram(program uint32)                 { d.glLinkProgram(program) }
func (d *driver) ValidateProgram(program uint32)             { d.glValidateProgram(program) }

func (d *driver) GetProgramiv(program uint32, pname uint32, params *int32) {
	d.glGetProgramiv(program, pname, params)
}

func (d *driver) GetProgramInfoLog(program uint32) string {
	var n int32
	d.glGetProgramiv(program, InfoLogLength, &n)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	var written int32
	d.glGetProgramInfoLog(program, n, &written, &buf[0])
	return string(buf[:clampLen(written, n)])
}

func (d *driver) UseProgram(program uint32)    { d.glUseProgram(program) }
func (d *driver) DeleteProgram(program uint32) { d.glDeleteProgram(program) }

func (d *driver) GetUniformLocation(program uint32, name string) int32 {
	return d.glGetUniformLocation(program, name)
}

func (d *driver) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	d.glUniform4f(location, v0, v1, v2, v3)
}

func (d *driver) Viewport(x, y, width, height int32) { d.glViewport(x, y, width, height) }
func (d *driver) ClearColor(r, g, b, a float32)      { d.glClearColor(r, g, b, a) }
func (d *driver) Clear(mask uint32)                  { d.glClear(mask) }

func (d *driver) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	d.glDrawElements(mode, count, xtype, offset)
}

func clampLen(written, size int32) int32 {
	if written < 0 {
		return 0
	}
	if written > size {
		return size
	}
	return written
}

// goString copies a NUL-terminated C string owned by the driver.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	var n uintptr
	for *(*byte)(unsafe.Pointer(p + n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}
