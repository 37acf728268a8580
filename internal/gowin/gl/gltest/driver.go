// Package gltest provides an in-memory gl.OpenGL implementation that records
// state the way a core-profile driver would, so buffer, shader and draw code
// can be tested without a GPU or a window.
package gltest

import (
	"encoding/binary"
	"fmt"
	"regexp"
	"strings"
	"unsafe"

	"github.com/tinyrange/glquad/internal/gowin/gl"
)

// Buffer is a buffer object as seen by the driver.
type Buffer struct {
	ID      uint32
	Data    []byte
	Usage   uint32
	Deleted bool
}

// Attrib is one vertex attribute recorded by VertexAttribPointer.
type Attrib struct {
	Size       int32
	Type       uint32
	Normalized bool
	Stride     int32
	Offset     uintptr
	Buffer     uint32
	Enabled    bool
}

// VertexArray is a vertex array object. The element-array binding is part of
// its state, as in the core profile.
type VertexArray struct {
	ID      uint32
	Element uint32
	Attribs map[uint32]Attrib
	Deleted bool
}

type Shader struct {
	ID       uint32
	Type     uint32
	Source   string
	Compiled bool
	Log      string
	Deleted  bool
}

type Program struct {
	ID        uint32
	Shaders   []uint32
	Linked    bool
	Validated bool
	Log       string
	Deleted   bool
	// Uniforms maps names found in the linked sources to locations.
	Uniforms map[string]int32
	Values   map[int32][4]float32
}

// DrawCall is one DrawElements call with the indices it read.
type DrawCall struct {
	Mode    uint32
	Count   int32
	Program uint32
	VAO     uint32
	Indices []uint32
}

// Driver implements gl.OpenGL in memory.
type Driver struct {
	nextBuffer  uint32
	nextArray   uint32
	nextShader  uint32 // shared by shaders and programs, as in GL
	buffers     map[uint32]*Buffer
	arrays      map[uint32]*VertexArray
	shaders     map[uint32]*Shader
	programs    map[uint32]*Program
	arrayBuffer uint32
	vao         uint32
	program     uint32
	deletes     map[uint32]int

	pending  []uint32
	injected map[string]uint32

	calls []string
	draws []DrawCall

	ClearColorValue [4]float32
	Clears          int
	ViewportValue   [4]int32
}

// New returns a driver with no objects and the default vertex array bound.
func New() *Driver {
	return &Driver{
		buffers:  make(map[uint32]*Buffer),
		arrays:   map[uint32]*VertexArray{0: {Attribs: map[uint32]Attrib{}}},
		shaders:  make(map[uint32]*Shader),
		programs: make(map[uint32]*Program),
		deletes:  make(map[uint32]int),
		injected: make(map[string]uint32),
	}
}

var _ gl.OpenGL = (*Driver)(nil)

// Fail makes the next call named call (for example "glBufferData") raise
// code instead of running.
func (d *Driver) Fail(call string, code uint32) {
	d.injected[call] = code
}

// Buffer returns the buffer object with the given id.
func (d *Driver) Buffer(id uint32) (*Buffer, bool) {
	b, ok := d.buffers[id]
	return b, ok
}

// Array returns the vertex array object with the given id.
func (d *Driver) Array(id uint32) (*VertexArray, bool) {
	a, ok := d.arrays[id]
	return a, ok
}

func (d *Driver) Shader(id uint32) (*Shader, bool) {
	s, ok := d.shaders[id]
	return s, ok
}

func (d *Driver) Program(id uint32) (*Program, bool) {
	p, ok := d.programs[id]
	return p, ok
}

// Deletes returns how many times DeleteBuffers was asked to delete id.
func (d *Driver) Deletes(id uint32) int {
	return d.deletes[id]
}

// LiveBuffers counts generated buffers that have not been deleted.
func (d *Driver) LiveBuffers() int {
	n := 0
	for _, b := range d.buffers {
		if !b.Deleted {
			n++
		}
	}
	return n
}

// LivePrograms counts programs that have not been deleted.
func (d *Driver) LivePrograms() int {
	n := 0
	for _, p := range d.programs {
		if !p.Deleted {
			n++
		}
	}
	return n
}

// Draws returns every recorded draw call.
func (d *Driver) Draws() []DrawCall {
	return d.draws
}

// Calls returns the names of every GL call made, in order.
func (d *Driver) Calls() []string {
	return d.calls
}

// Pending returns the error flags that have not been read yet.
func (d *Driver) Pending() []uint32 {
	return append([]uint32(nil), d.pending...)
}

// CurrentProgram returns the program installed by UseProgram.
func (d *Driver) CurrentProgram() uint32 {
	return d.program
}

func (d *Driver) raise(code uint32) {
	for _, c := range d.pending {
		if c == code {
			return
		}
	}
	d.pending = append(d.pending, code)
}

// enter records the call and reports whether it should run.
func (d *Driver) enter(call string) bool {
	d.calls = append(d.calls, call)
	if code, ok := d.injected[call]; ok {
		delete(d.injected, call)
		d.raise(code)
		return false
	}
	return true
}

func (d *Driver) GetError() uint32 {
	if len(d.pending) == 0 {
		return gl.NoError
	}
	code := d.pending[0]
	d.pending = d.pending[1:]
	return code
}

func (d *Driver) GetString(name uint32) string {
	if !d.enter("glGetString") {
		return ""
	}
	switch name {
	case gl.Vendor:
		return "gltest"
	case gl.Renderer:
		return "gltest software"
	case gl.Version:
		return "4.1 gltest"
	case gl.ShadingLanguageVersion:
		return "4.10"
	default:
		d.raise(gl.InvalidEnum)
		return ""
	}
}

func (d *Driver) GetIntegerv(pname uint32, data *int32) {
	if !d.enter("glGetIntegerv") {
		return
	}
	switch pname {
	case gl.ArrayBufferBinding:
		*data = int32(d.arrayBuffer)
	case gl.ElementArrayBufferBinding:
		*data = int32(d.arrays[d.vao].Element)
	case gl.VertexArrayBinding:
		*data = int32(d.vao)
	case gl.CurrentProgram:
		*data = int32(d.program)
	default:
		d.raise(gl.InvalidEnum)
	}
}

func (d *Driver) GenBuffers(n int32, buffers *uint32) {
	if !d.enter("glGenBuffers") {
		return
	}
	if n < 0 {
		d.raise(gl.InvalidValue)
		return
	}
	out := unsafe.Slice(buffers, n)
	for i := range out {
		d.nextBuffer++
		d.buffers[d.nextBuffer] = &Buffer{ID: d.nextBuffer}
		out[i] = d.nextBuffer
	}
}

func (d *Driver) DeleteBuffers(n int32, buffers *uint32) {
	if !d.enter("glDeleteBuffers") {
		return
	}
	if n < 0 {
		d.raise(gl.InvalidValue)
		return
	}
	for _, id := range unsafe.Slice(buffers, n) {
		if id == 0 {
			continue
		}
		d.deletes[id]++
		b, ok := d.buffers[id]
		if !ok || b.Deleted {
			continue
		}
		b.Deleted = true
		b.Data = nil
		// Deleting a bound buffer resets the binding.
		if d.arrayBuffer == id {
			d.arrayBuffer = 0
		}
		if va := d.arrays[d.vao]; va.Element == id {
			va.Element = 0
		}
	}
}

func (d *Driver) BindBuffer(target uint32, buffer uint32) {
	if !d.enter("glBindBuffer") {
		return
	}
	if buffer != 0 {
		b, ok := d.buffers[buffer]
		if !ok || b.Deleted {
			d.raise(gl.InvalidOperation)
			return
		}
	}
	switch target {
	case gl.ArrayBuffer:
		d.arrayBuffer = buffer
	case gl.ElementArrayBuffer:
		d.arrays[d.vao].Element = buffer
	default:
		d.raise(gl.InvalidEnum)
	}
}

func (d *Driver) bound(target uint32) (uint32, bool) {
	switch target {
	case gl.ArrayBuffer:
		return d.arrayBuffer, true
	case gl.ElementArrayBuffer:
		return d.arrays[d.vao].Element, true
	default:
		return 0, false
	}
}

func (d *Driver) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	if !d.enter("glBufferData") {
		return
	}
	id, ok := d.bound(target)
	if !ok {
		d.raise(gl.InvalidEnum)
		return
	}
	switch usage {
	case gl.StreamDraw, gl.StaticDraw, gl.DynamicDraw:
	default:
		d.raise(gl.InvalidEnum)
		return
	}
	if size < 0 {
		d.raise(gl.InvalidValue)
		return
	}
	if id == 0 {
		d.raise(gl.InvalidOperation)
		return
	}
	b := d.buffers[id]
	b.Data = make([]byte, size)
	if data != nil && size > 0 {
		copy(b.Data, unsafe.Slice((*byte)(data), size))
	}
	b.Usage = usage
}

func (d *Driver) GenVertexArrays(n int32, arrays *uint32) {
	if !d.enter("glGenVertexArrays") {
		return
	}
	if n < 0 {
		d.raise(gl.InvalidValue)
		return
	}
	out := unsafe.Slice(arrays, n)
	for i := range out {
		d.nextArray++
		d.arrays[d.nextArray] = &VertexArray{ID: d.nextArray, Attribs: map[uint32]Attrib{}}
		out[i] = d.nextArray
	}
}

func (d *Driver) DeleteVertexArrays(n int32, arrays *uint32) {
	if !d.enter("glDeleteVertexArrays") {
		return
	}
	for _, id := range unsafe.Slice(arrays, n) {
		va, ok := d.arrays[id]
		if id == 0 || !ok || va.Deleted {
			continue
		}
		va.Deleted = true
		if d.vao == id {
			d.vao = 0
		}
	}
}

func (d *Driver) BindVertexArray(array uint32) {
	if !d.enter("glBindVertexArray") {
		return
	}
	va, ok := d.arrays[array]
	if !ok || va.Deleted {
		d.raise(gl.InvalidOperation)
		return
	}
	d.vao = array
}

func (d *Driver) EnableVertexAttribArray(index uint32) {
	if !d.enter("glEnableVertexAttribArray") {
		return
	}
	if d.vao == 0 {
		d.raise(gl.InvalidOperation)
		return
	}
	va := d.arrays[d.vao]
	a := va.Attribs[index]
	a.Enabled = true
	va.Attribs[index] = a
}

func (d *Driver) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	if !d.enter("glVertexAttribPointer") {
		return
	}
	if size < 1 || size > 4 || stride < 0 {
		d.raise(gl.InvalidValue)
		return
	}
	if d.vao == 0 || d.arrayBuffer == 0 {
		d.raise(gl.InvalidOperation)
		return
	}
	va := d.arrays[d.vao]
	a := va.Attribs[index]
	a.Size = size
	a.Type = xtype
	a.Normalized = normalized
	a.Stride = stride
	a.Offset = offset
	a.Buffer = d.arrayBuffer
	va.Attribs[index] = a
}

func (d *Driver) CreateShader(xtype uint32) uint32 {
	if !d.enter("glCreateShader") {
		return 0
	}
	if xtype != gl.VertexShader && xtype != gl.FragmentShader {
		d.raise(gl.InvalidEnum)
		return 0
	}
	d.nextShader++
	d.shaders[d.nextShader] = &Shader{ID: d.nextShader, Type: xtype}
	return d.nextShader
}

func (d *Driver) liveShader(id uint32) (*Shader, bool) {
	s, ok := d.shaders[id]
	if !ok || s.Deleted {
		d.raise(gl.InvalidValue)
		return nil, false
	}
	return s, true
}

func (d *Driver) ShaderSource(shader uint32, source string) {
	if !d.enter("glShaderSource") {
		return
	}
	if s, ok := d.liveShader(shader); ok {
		s.Source = source
	}
}

// CompileShader fails for blank sources and for sources containing an
// #error directive, producing a log in the style of common drivers.
func (d *Driver) CompileShader(shader uint32) {
	if !d.enter("glCompileShader") {
		return
	}
	s, ok := d.liveShader(shader)
	if !ok {
		return
	}
	s.Compiled = false
	switch {
	case strings.TrimSpace(s.Source) == "":
		s.Log = "ERROR: 0:1: '' : syntax error: empty source\n"
	case strings.Contains(s.Source, "#error"):
		line := 1 + strings.Count(s.Source[:strings.Index(s.Source, "#error")], "\n")
		s.Log = fmt.Sprintf("ERROR: 0:%d: '#error' : user error\n", line)
	default:
		s.Log = ""
		s.Compiled = true
	}
}

func (d *Driver) GetShaderiv(shader uint32, pname uint32, params *int32) {
	if !d.enter("glGetShaderiv") {
		return
	}
	s, ok := d.liveShader(shader)
	if !ok {
		return
	}
	switch pname {
	case gl.CompileStatus:
		*params = boolInt(s.Compiled)
	case gl.InfoLogLength:
		*params = logLength(s.Log)
	default:
		d.raise(gl.InvalidEnum)
	}
}

func (d *Driver) GetShaderInfoLog(shader uint32) string {
	if !d.enter("glGetShaderInfoLog") {
		return ""
	}
	if s, ok := d.liveShader(shader); ok {
		return s.Log
	}
	return ""
}

func (d *Driver) DeleteShader(shader uint32) {
	if !d.enter("glDeleteShader") {
		return
	}
	if shader == 0 {
		return
	}
	if s, ok := d.liveShader(shader); ok {
		s.Deleted = true
	}
}

func (d *Driver) CreateProgram() uint32 {
	if !d.enter("glCreateProgram") {
		return 0
	}
	d.nextShader++
	d.programs[d.nextShader] = &Program{
		ID:       d.nextShader,
		Uniforms: map[string]int32{},
		Values:   map[int32][4]float32{},
	}
	return d.nextShader
}

func (d *Driver) liveProgram(id uint32) (*Program, bool) {
	p, ok := d.programs[id]
	if !ok || p.Deleted {
		d.raise(gl.InvalidValue)
		return nil, false
	}
	return p, true
}

func (d *Driver) AttachShader(program uint32, shader uint32) {
	if !d.enter("glAttachShader") {
		return
	}
	p, ok := d.liveProgram(program)
	if !ok {
		return
	}
	if _, ok := d.liveShader(shader); !ok {
		return
	}
	for _, s := range p.Shaders {
		if s == shader {
			d.raise(gl.InvalidOperation)
			return
		}
	}
	p.Shaders = append(p.Shaders, shader)
}

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*;`)

func (d *Driver) LinkProgram(program uint32) {
	if !d.enter("glLinkProgram") {
		return
	}
	p, ok := d.liveProgram(program)
	if !ok {
		return
	}
	p.Linked = false
	p.Uniforms = map[string]int32{}
	var vertex, fragment bool
	for _, id := range p.Shaders {
		s := d.shaders[id]
		if !s.Compiled {
			p.Log = "error: linking with uncompiled shader\n"
			return
		}
		switch s.Type {
		case gl.VertexShader:
			vertex = true
		case gl.FragmentShader:
			fragment = true
		}
		for _, m := range uniformDecl.FindAllStringSubmatch(s.Source, -1) {
			if _, seen := p.Uniforms[m[1]]; !seen {
				p.Uniforms[m[1]] = int32(len(p.Uniforms))
			}
		}
	}
	if !vertex || !fragment {
		p.Log = "error: program needs a vertex and a fragment shader\n"
		return
	}
	p.Log = ""
	p.Linked = true
}

func (d *Driver) ValidateProgram(program uint32) {
	if !d.enter("glValidateProgram") {
		return
	}
	if p, ok := d.liveProgram(program); ok {
		p.Validated = p.Linked
	}
}

func (d *Driver) GetProgramiv(program uint32, pname uint32, params *int32) {
	if !d.enter("glGetProgramiv") {
		return
	}
	p, ok := d.liveProgram(program)
	if !ok {
		return
	}
	switch pname {
	case gl.LinkStatus:
		*params = boolInt(p.Linked)
	case gl.ValidateStatus:
		*params = boolInt(p.Validated)
	case gl.InfoLogLength:
		*params = logLength(p.Log)
	default:
		d.raise(gl.InvalidEnum)
	}
}

func (d *Driver) GetProgramInfoLog(program uint32) string {
	if !d.enter("glGetProgramInfoLog") {
		return ""
	}
	if p, ok := d.liveProgram(program); ok {
		return p.Log
	}
	return ""
}

func (d *Driver) UseProgram(program uint32) {
	if !d.enter("glUseProgram") {
		return
	}
	if program != 0 {
		p, ok := d.liveProgram(program)
		if !ok {
			return
		}
		if !p.Linked {
			d.raise(gl.InvalidOperation)
			return
		}
	}
	d.program = program
}

func (d *Driver) DeleteProgram(program uint32) {
	if !d.enter("glDeleteProgram") {
		return
	}
	if program == 0 {
		return
	}
	if p, ok := d.liveProgram(program); ok {
		p.Deleted = true
		if d.program == program {
			d.program = 0
		}
	}
}

func (d *Driver) GetUniformLocation(program uint32, name string) int32 {
	if !d.enter("glGetUniformLocation") {
		return -1
	}
	p, ok := d.liveProgram(program)
	if !ok {
		return -1
	}
	if !p.Linked {
		d.raise(gl.InvalidOperation)
		return -1
	}
	loc, ok := p.Uniforms[name]
	if !ok {
		return -1
	}
	return loc
}

func (d *Driver) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	if !d.enter("glUniform4f") {
		return
	}
	if d.program == 0 {
		d.raise(gl.InvalidOperation)
		return
	}
	if location == -1 {
		return
	}
	p := d.programs[d.program]
	if location < 0 || int(location) >= len(p.Uniforms) {
		d.raise(gl.InvalidOperation)
		return
	}
	p.Values[location] = [4]float32{v0, v1, v2, v3}
}

func (d *Driver) Viewport(x, y, width, height int32) {
	if !d.enter("glViewport") {
		return
	}
	if width < 0 || height < 0 {
		d.raise(gl.InvalidValue)
		return
	}
	d.ViewportValue = [4]int32{x, y, width, height}
}

func (d *Driver) ClearColor(r, g, b, a float32) {
	if !d.enter("glClearColor") {
		return
	}
	d.ClearColorValue = [4]float32{r, g, b, a}
}

func (d *Driver) Clear(mask uint32) {
	if !d.enter("glClear") {
		return
	}
	if mask&^gl.ColorBufferBit != 0 {
		d.raise(gl.InvalidValue)
		return
	}
	d.Clears++
}

// DrawElements reads count unsigned-int indices from the element buffer of
// the bound vertex array, starting at offset bytes.
func (d *Driver) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	if !d.enter("glDrawElements") {
		return
	}
	if count < 0 {
		d.raise(gl.InvalidValue)
		return
	}
	if xtype != gl.UnsignedInt {
		d.raise(gl.InvalidEnum)
		return
	}
	if d.program == 0 || d.vao == 0 {
		d.raise(gl.InvalidOperation)
		return
	}
	ebo := d.arrays[d.vao].Element
	if ebo == 0 {
		d.raise(gl.InvalidOperation)
		return
	}
	data := d.buffers[ebo].Data
	end := int(offset) + int(count)*4
	if end > len(data) {
		d.raise(gl.InvalidOperation)
		return
	}
	indices := make([]uint32, count)
	for i := range indices {
		indices[i] = binary.LittleEndian.Uint32(data[int(offset)+i*4:])
	}
	d.draws = append(d.draws, DrawCall{
		Mode:    mode,
		Count:   count,
		Program: d.program,
		VAO:     d.vao,
		Indices: indices,
	})
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// logLength matches GL_INFO_LOG_LENGTH, which counts the terminating NUL.
func logLength(s string) int32 {
	if s == "" {
		return 0
	}
	return int32(len(s) + 1)
}
