package shader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/tinyrange/glquad/internal/gowin/gl"
)

// Watcher reports changes to a shader file. Events arrive on a background
// goroutine; the render loop picks them up with Changed so that all GL work
// stays on the context thread.
type Watcher struct {
	path    string
	logger  *slog.Logger
	fsw     *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher watches path. The parent directory is watched so that editors
// which replace the file by renaming are noticed.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		logger:  logger,
		fsw:     fsw,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("shader file changed", "path", w.path, "op", ev.Op.String())
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("shader watcher error", "path", w.path, "error", err)
		}
	}
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Changed reports whether the file changed since the last call. It never
// blocks.
func (w *Watcher) Changed() bool {
	select {
	case <-w.changed:
		return true
	default:
		return false
	}
}

// Close stops watching and waits for the event goroutine to exit.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// Reload rebuilds the program from path. On success the old program is
// destroyed and the new one returned; on failure the error is returned and
// old is left untouched.
func Reload(g gl.OpenGL, path string, old *Program, logger *slog.Logger) (*Program, error) {
	src, err := LoadSource(path)
	if err != nil {
		return old, err
	}
	p, err := Compile(g, src, logger)
	if err != nil {
		return old, fmt.Errorf("%s: %w", path, err)
	}
	if old != nil {
		old.Destroy()
	}
	return p, nil
}
