package shader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tinyrange/glquad/internal/gowin/gl"
)

// Program is a linked shader program. It caches uniform locations.
type Program struct {
	gl       gl.OpenGL
	id       uint32
	uniforms map[string]int32
	logger   *slog.Logger
}

// CompileError reports a stage that failed to compile.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, strings.TrimSpace(e.Log))
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program linking failed: %s", strings.TrimSpace(e.Log))
}

// Compile builds both stages of src and links them. The intermediate shader
// objects are deleted whether or not linking succeeds.
func Compile(g gl.OpenGL, src Source, logger *slog.Logger) (*Program, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	vs, err := compileStage(g, gl.VertexShader, StageVertex, src.Vertex)
	if err != nil {
		return nil, err
	}
	defer g.DeleteShader(vs)

	fs, err := compileStage(g, gl.FragmentShader, StageFragment, src.Fragment)
	if err != nil {
		return nil, err
	}
	defer g.DeleteShader(fs)

	program := g.CreateProgram()
	if program == 0 {
		return nil, fmt.Errorf("create program: %w", noHandle(g, "glCreateProgram"))
	}
	g.AttachShader(program, vs)
	g.AttachShader(program, fs)
	g.LinkProgram(program)

	var status int32
	g.GetProgramiv(program, gl.LinkStatus, &status)
	if status == 0 {
		log := g.GetProgramInfoLog(program)
		g.DeleteProgram(program)
		return nil, &LinkError{Log: log}
	}

	g.ValidateProgram(program)
	g.GetProgramiv(program, gl.ValidateStatus, &status)
	if status == 0 {
		// Validation depends on current state, so it is advisory here.
		logger.Warn("shader program failed validation", "program", program, "log", strings.TrimSpace(g.GetProgramInfoLog(program)))
	}

	return &Program{
		gl:       g,
		id:       program,
		uniforms: make(map[string]int32),
		logger:   logger,
	}, nil
}

func compileStage(g gl.OpenGL, xtype uint32, stage Stage, source string) (uint32, error) {
	id := g.CreateShader(xtype)
	if id == 0 {
		return 0, fmt.Errorf("create %s shader: %w", stage, noHandle(g, "glCreateShader"))
	}
	g.ShaderSource(id, source)
	g.CompileShader(id)

	var status int32
	g.GetShaderiv(id, gl.CompileStatus, &status)
	if status == 0 {
		log := g.GetShaderInfoLog(id)
		g.DeleteShader(id)
		return 0, &CompileError{Stage: stage, Log: log}
	}
	return id, nil
}

// noHandle explains a zero handle from a create call.
func noHandle(g gl.OpenGL, call string) error {
	if err := gl.CheckError(g, call); err != nil {
		return err
	}
	return fmt.Errorf("%s returned no handle", call)
}

// ID returns the program handle, or 0 after Destroy.
func (p *Program) ID() uint32 { return p.id }

// Use installs the program for subsequent draws.
func (p *Program) Use() {
	p.gl.UseProgram(p.id)
}

// Uniform returns the location of name, or -1 if the program has no such
// active uniform. Missing uniforms are logged once.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := p.gl.GetUniformLocation(p.id, name)
	if loc == -1 {
		p.logger.Warn("uniform not found", "program", p.id, "name", name)
	}
	p.uniforms[name] = loc
	return loc
}

// SetUniform4f sets a vec4 uniform. The program must be in use.
func (p *Program) SetUniform4f(name string, v0, v1, v2, v3 float32) {
	p.gl.Uniform4f(p.Uniform(name), v0, v1, v2, v3)
}

// Destroy deletes the program. Calls after the first do nothing.
func (p *Program) Destroy() {
	if p.id == 0 {
		return
	}
	p.gl.DeleteProgram(p.id)
	p.id = 0
	clear(p.uniforms)
}
