// Package gl exposes the subset of OpenGL 3.3+ core used by gowin.
//
// The OpenGL interface is implemented by Load, which resolves entry points at
// runtime without cgo, and by gltest.Driver for tests that run without a GPU.
// All calls must happen on the goroutine that owns the current context.
package gl

import "unsafe"

// Enum values from the OpenGL core profile headers.
const (
	NoError                     uint32 = 0
	InvalidEnum                 uint32 = 0x0500
	InvalidValue                uint32 = 0x0501
	InvalidOperation            uint32 = 0x0502
	StackOverflow               uint32 = 0x0503
	StackUnderflow              uint32 = 0x0504
	OutOfMemory                 uint32 = 0x0505
	InvalidFramebufferOperation uint32 = 0x0506

	Triangles uint32 = 0x0004

	UnsignedByte uint32 = 0x1401
	UnsignedInt  uint32 = 0x1405
	Float        uint32 = 0x1406

	Vendor                 uint32 = 0x1F00
	Renderer               uint32 = 0x1F01
	Version                uint32 = 0x1F02
	ShadingLanguageVersion uint32 = 0x8B8C

	ColorBufferBit uint32 = 0x00004000

	ArrayBuffer               uint32 = 0x8892
	ElementArrayBuffer        uint32 = 0x8893
	ArrayBufferBinding        uint32 = 0x8894
	ElementArrayBufferBinding uint32 = 0x8895
	VertexArrayBinding        uint32 = 0x85B5
	CurrentProgram            uint32 = 0x8B8D

	StreamDraw  uint32 = 0x88E0
	StaticDraw  uint32 = 0x88E4
	DynamicDraw uint32 = 0x88E8

	FragmentShader uint32 = 0x8B30
	VertexShader   uint32 = 0x8B31
	CompileStatus  uint32 = 0x8B81
	LinkStatus     uint32 = 0x8B82
	ValidateStatus uint32 = 0x8B83
	InfoLogLength  uint32 = 0x8B84
)

type OpenGL interface {
	GetError() uint32
	GetString(name uint32) string
	GetIntegerv(pname uint32, data *int32)

	GenBuffers(n int32, buffers *uint32)
	DeleteBuffers(n int32, buffers *uint32)
	BindBuffer(target uint32, buffer uint32)
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)

	GenVertexArrays(n int32, arrays *uint32)
	DeleteVertexArrays(n int32, arrays *uint32)
	BindVertexArray(array uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)

	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32, params *int32)
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program uint32, shader uint32)
	LinkProgram(program uint32)
	ValidateProgram(program uint32)
	GetProgramiv(program uint32, pname uint32, params *int32)
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	Uniform4f(location int32, v0, v1, v2, v3 float32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	DrawElements(mode uint32, count int32, xtype uint32, offset uintptr)
}

// BindingFor returns the GetIntegerv query for the given buffer target.
func BindingFor(target uint32) uint32 {
	switch target {
	case ArrayBuffer:
		return ArrayBufferBinding
	case ElementArrayBuffer:
		return ElementArrayBufferBinding
	default:
		return 0
	}
}

// Bound returns the buffer currently bound to target, or 0.
func Bound(g OpenGL, target uint32) uint32 {
	pname := BindingFor(target)
	if pname == 0 {
		return 0
	}
	var id int32
	g.GetIntegerv(pname, &id)
	return uint32(id)
}
