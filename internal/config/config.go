// Package config loads glquad settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tinyrange/glquad/internal/gowin/window"
)

const DefaultFilename = "glquad.yaml"

// Values accepted by GLDebug.
const (
	GLDebugOff   = "off"
	GLDebugLog   = "log"
	GLDebugPanic = "panic"
)

type Config struct {
	Window     WindowConfig    `yaml:"window"`
	Context    ContextConfig   `yaml:"context"`
	Shader     ShaderConfig    `yaml:"shader"`
	Animation  AnimationConfig `yaml:"animation"`
	ClearColor Color           `yaml:"clear_color"`

	// GLDebug selects how driver errors are reported: "off" leaves checks to
	// the constructors, "log" logs every failing call, "panic" aborts.
	GLDebug  string `yaml:"gl_debug"`
	LogLevel string `yaml:"log_level"`
}

type WindowConfig struct {
	Title        string `yaml:"title"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	SwapInterval int    `yaml:"swap_interval"`
}

type ContextConfig struct {
	Major         int  `yaml:"major"`
	Minor         int  `yaml:"minor"`
	CoreProfile   bool `yaml:"core_profile"`
	ForwardCompat bool `yaml:"forward_compat"`
}

type ShaderConfig struct {
	// Path to a .shader file. Empty uses the built-in shader.
	Path  string `yaml:"path,omitempty"`
	Watch bool   `yaml:"watch"`
}

type AnimationConfig struct {
	Start     float32 `yaml:"start"`
	Increment float32 `yaml:"increment"`
}

// Color is an RGBA color with channels in [0, 1].
type Color struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
	A float32 `yaml:"a"`
}

func Default() Config {
	opts := window.DefaultOptions()
	return Config{
		Window: WindowConfig{
			Title:        opts.Title,
			Width:        opts.Width,
			Height:       opts.Height,
			SwapInterval: opts.SwapInterval,
		},
		Context: ContextConfig{
			Major:         opts.Major,
			Minor:         opts.Minor,
			CoreProfile:   opts.CoreProfile,
			ForwardCompat: opts.ForwardCompat,
		},
		Animation: AnimationConfig{
			Start:     0,
			Increment: 0.05,
		},
		ClearColor: Color{A: 1},
		GLDebug:    GLDebugOff,
		LogLevel:   "info",
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value; unknown keys are an error. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Write encodes cfg to path, creating parent directories as needed.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(&cfg); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.SwapInterval < 0 {
		return fmt.Errorf("swap_interval %d must not be negative", c.Window.SwapInterval)
	}
	// Vertex array objects need at least a 3.0 context.
	if c.Context.Major < 3 {
		return fmt.Errorf("context version %d.%d is below 3.0", c.Context.Major, c.Context.Minor)
	}
	if c.Animation.Increment <= 0 || c.Animation.Increment > 1 {
		return fmt.Errorf("animation increment %v must be in (0, 1]", c.Animation.Increment)
	}
	if c.Animation.Start < 0 || c.Animation.Start > 1 {
		return fmt.Errorf("animation start %v must be in [0, 1]", c.Animation.Start)
	}
	for _, ch := range []float32{c.ClearColor.R, c.ClearColor.G, c.ClearColor.B, c.ClearColor.A} {
		if ch < 0 || ch > 1 {
			return fmt.Errorf("clear_color channel %v must be in [0, 1]", ch)
		}
	}
	switch c.GLDebug {
	case GLDebugOff, GLDebugLog, GLDebugPanic:
	default:
		return fmt.Errorf("gl_debug %q must be one of off, log, panic", c.GLDebug)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Shader.Watch && c.Shader.Path == "" {
		return errors.New("shader.watch needs shader.path")
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

func (c Config) WindowOptions() window.Options {
	return window.Options{
		Title:         c.Window.Title,
		Width:         c.Window.Width,
		Height:        c.Window.Height,
		Major:         c.Context.Major,
		Minor:         c.Context.Minor,
		CoreProfile:   c.Context.CoreProfile,
		ForwardCompat: c.Context.ForwardCompat,
		SwapInterval:  c.Window.SwapInterval,
	}
}

// RGBA implements color.Color. The channels are premultiplied by alpha.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A * 0xffff)
	return uint32(c.R * c.A * 0xffff), uint32(c.G * c.A * 0xffff), uint32(c.B * c.A * 0xffff), a
}
