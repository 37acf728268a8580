// Package quad draws a single indexed quad whose red channel pulses over
// time.
package quad

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tinyrange/glquad/internal/assets"
	"github.com/tinyrange/glquad/internal/config"
	"github.com/tinyrange/glquad/internal/gowin/buffer"
	"github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/graphics"
	"github.com/tinyrange/glquad/internal/gowin/shader"
	"github.com/tinyrange/glquad/internal/gowin/window"
)

// Positions holds the four corners of the quad, two floats each.
var Positions = []float32{
	-0.5, -0.5,
	0.5, -0.5,
	0.5, 0.5,
	-0.5, 0.5,
}

// Indices splits the quad into two triangles.
var Indices = []uint32{
	0, 1, 2,
	2, 3, 0,
}

// ColorUniform is the vec4 the fragment stage reads its color from.
const ColorUniform = "u_Color"

const (
	speedStep = 0.01
	maxSpeed  = 0.5
)

type Scene struct {
	gl     gl.OpenGL
	logger *slog.Logger

	va      *buffer.VertexArray
	vb      *buffer.VertexBuffer
	ib      *buffer.IndexBuffer
	program *shader.Program

	shaderPath string
	watcher    *shader.Watcher

	pulse  *graphics.ColorPulse
	paused bool
}

// New uploads the quad and builds its program. Every binding made while
// building is undone before New returns. On error nothing is left allocated.
func New(g gl.OpenGL, cfg config.Config, logger *slog.Logger) (_ *Scene, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scene{
		gl:         g,
		logger:     logger,
		shaderPath: cfg.Shader.Path,
		pulse:      graphics.NewColorPulse(cfg.Animation.Start, cfg.Animation.Increment),
	}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	if s.va, err = buffer.NewVertexArray(g); err != nil {
		return nil, fmt.Errorf("create vertex array: %w", err)
	}
	array := s.va.Bind()

	if s.vb, err = buffer.NewVertexBufferFloat32(g, Positions); err != nil {
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}
	var layout buffer.VertexLayout
	layout.Float32(2)
	if err = s.va.AddBuffer(array, s.vb.Bind(), &layout); err != nil {
		return nil, fmt.Errorf("describe vertex layout: %w", err)
	}

	if s.ib, err = buffer.NewIndexBuffer(g, Indices); err != nil {
		return nil, fmt.Errorf("create index buffer: %w", err)
	}

	src, err := s.loadSource()
	if err != nil {
		return nil, err
	}
	if s.program, err = shader.Compile(g, src, logger); err != nil {
		return nil, err
	}

	s.program.Use()
	s.program.SetUniform4f(ColorUniform, 0.8, 0.3, 0.8, 1)

	g.UseProgram(0)
	s.va.Unbind()
	s.vb.Unbind()
	s.ib.Unbind()

	if cfg.Shader.Watch {
		if s.shaderPath == "" {
			return nil, errors.New("shader watch needs a shader path")
		}
		if s.watcher, err = shader.NewWatcher(s.shaderPath, logger); err != nil {
			return nil, err
		}
	}

	logger.Debug("quad ready",
		"vertex_array", s.va.ID(),
		"vertex_buffer", s.vb.ID(),
		"index_buffer", s.ib.ID(),
		"program", s.program.ID(),
		"shader", s.shaderName(),
	)
	return s, nil
}

func (s *Scene) loadSource() (shader.Source, error) {
	if s.shaderPath == "" {
		return shader.ParseSource(bytes.NewReader(assets.BasicShader))
	}
	return shader.LoadSource(s.shaderPath)
}

func (s *Scene) shaderName() string {
	if s.shaderPath == "" {
		return "builtin"
	}
	return s.shaderPath
}

// Program returns the program currently used to draw.
func (s *Scene) Program() *shader.Program { return s.program }

// Pulse returns the animation driving the red channel.
func (s *Scene) Pulse() *graphics.ColorPulse { return s.pulse }

// Paused reports whether the animation is stopped.
func (s *Scene) Paused() bool { return s.paused }

// Frame draws the quad once and advances the animation. Space toggles the
// animation, Up and Down change its speed and R reloads the shader file.
func (s *Scene) Frame(f graphics.Frame) error {
	s.handleInput(f)
	if s.watcher != nil && s.watcher.Changed() {
		s.reload()
	}

	r := f.Renderer()
	r.Clear()

	s.program.Use()
	s.program.SetUniform4f(ColorUniform, s.pulse.Value(), 0.3, 0.8, 1)
	r.Draw(s.va.Bind(), s.ib.Bind(), s.program)

	if !s.paused {
		s.pulse.Step()
	}
	return nil
}

func (s *Scene) handleInput(f graphics.Frame) {
	if f.GetKeyState(window.KeySpace) == window.KeyStatePressed {
		s.paused = !s.paused
		s.logger.Info("animation toggled", "paused", s.paused)
	}
	if f.GetKeyState(window.KeyUp) == window.KeyStatePressed {
		s.pulse.SetIncrement(min(s.pulse.Increment()+speedStep, maxSpeed))
		s.logger.Info("animation speed", "increment", s.pulse.Increment())
	}
	if f.GetKeyState(window.KeyDown) == window.KeyStatePressed {
		s.pulse.SetIncrement(max(s.pulse.Increment()-speedStep, speedStep))
		s.logger.Info("animation speed", "increment", s.pulse.Increment())
	}
	if f.GetKeyState(window.KeyR) == window.KeyStatePressed {
		if s.shaderPath == "" {
			s.logger.Info("builtin shader cannot be reloaded")
			return
		}
		s.reload()
	}
}

// reload swaps in a freshly compiled program. A broken shader file keeps
// the current program.
func (s *Scene) reload() {
	p, err := shader.Reload(s.gl, s.shaderPath, s.program, s.logger)
	if err != nil {
		s.logger.Error("shader reload failed", "path", s.shaderPath, "error", err)
		return
	}
	s.program = p
	s.logger.Info("shader reloaded", "path", s.shaderPath, "program", p.ID())
}

// Close releases everything New allocated, newest first. It is safe to call
// more than once.
func (s *Scene) Close() error {
	var err error
	if s.watcher != nil {
		err = s.watcher.Close()
		s.watcher = nil
	}
	if s.program != nil {
		s.program.Destroy()
	}
	if s.ib != nil {
		s.ib.Destroy()
	}
	if s.vb != nil {
		s.vb.Destroy()
	}
	if s.va != nil {
		s.va.Destroy()
	}
	return err
}
