// Command glquad opens a window and draws an indexed quad whose red channel
// pulses from frame to frame.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.org/x/term"

	"github.com/tinyrange/glquad/internal/config"
	"github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/graphics"
	"github.com/tinyrange/glquad/internal/gowin/window/desktop"
	"github.com/tinyrange/glquad/internal/quad"
)

func init() {
	// glfw and the GL context belong to the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "glquad: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	cfg         config.Config
	writeConfig string
}

// parseArgs loads the config file named by -config and applies any flags
// given on the command line on top of it.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("glquad", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", config.DefaultFilename, "YAML config file; a missing file uses the defaults")
	shaderPath := fs.String("shader", "", "shader file with #shader vertex and #shader fragment sections (default: built-in)")
	watch := fs.Bool("watch", false, "recompile the shader file when it changes")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	glDebug := fs.String("gl-debug", "", "check every GL call: off, log or panic")
	writeConfig := fs.String("write-config", "", "write the effective config to this path and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return options{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "shader":
			cfg.Shader.Path = *shaderPath
		case "watch":
			cfg.Shader.Watch = *watch
		case "log-level":
			cfg.LogLevel = *logLevel
		case "gl-debug":
			cfg.GLDebug = *glDebug
		}
	})
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}
	return options{cfg: cfg, writeConfig: *writeConfig}, nil
}

// newLogger logs text to a terminal and JSON otherwise.
func newLogger(w *os.File, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(w.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// errorCheck wraps g according to mode. "off" returns g unchanged.
func errorCheck(g gl.OpenGL, mode string, logger *slog.Logger) gl.OpenGL {
	switch mode {
	case config.GLDebugLog:
		return gl.WithErrorCheck(g, gl.LogErrors(logger))
	case config.GLDebugPanic:
		return gl.WithErrorCheck(g, gl.PanicOnError)
	default:
		return g
	}
}

func run(args []string) error {
	opts, err := parseArgs(args, os.Stderr)
	if err != nil {
		return err
	}
	cfg := opts.cfg

	if opts.writeConfig != "" {
		return config.Write(opts.writeConfig, cfg)
	}

	level, _ := cfg.Level()
	logger := newLogger(os.Stderr, level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	win, err := desktop.New(cfg.WindowOptions())
	if err != nil {
		return err
	}
	defer win.Close()

	g, err := win.GL()
	if err != nil {
		return fmt.Errorf("load OpenGL: %w", err)
	}
	g = errorCheck(g, cfg.GLDebug, logger)

	logger.Info("OpenGL context ready",
		"version", g.GetString(gl.Version),
		"renderer", g.GetString(gl.Renderer),
		"vendor", g.GetString(gl.Vendor),
		"glsl", g.GetString(gl.ShadingLanguageVersion),
		"gl_debug", cfg.GLDebug,
	)

	scene, err := quad.New(g, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := scene.Close(); err != nil {
			logger.Warn("close scene", "error", err)
		}
	}()

	r := graphics.NewRenderer(g)
	r.SetClearColor(cfg.ClearColor)

	err = graphics.Loop(ctx, win, r, scene.Frame)
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted")
		return nil
	}
	return err
}
