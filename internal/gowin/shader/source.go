// Package shader loads two-stage GLSL sources and links them into programs.
//
// A source file holds both stages, each introduced by a marker line:
//
//	#shader vertex
//	...
//	#shader fragment
//	...
//
// Lines before the first marker are ignored.
package shader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingStage is returned when a source lacks a vertex or fragment stage.
var ErrMissingStage = errors.New("shader: missing stage")

// Stage identifies a section of a source file.
type Stage int

const (
	StageNone Stage = iota - 1
	StageVertex
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "none"
	}
}

// Source holds the text of both stages.
type Source struct {
	Vertex   string
	Fragment string
}

// ParseSource splits r into its stages. A line containing "#shader"
// switches to the vertex stage if it also contains "vertex", to the fragment
// stage if it contains "fragment", and otherwise leaves the stage unchanged.
// Every other line is kept with a trailing newline.
func ParseSource(r io.Reader) (Source, error) {
	var stages [2]strings.Builder
	stage := StageNone

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.Contains(line, "#shader") {
			if strings.Contains(line, "vertex") {
				stage = StageVertex
			} else if strings.Contains(line, "fragment") {
				stage = StageFragment
			}
			continue
		}
		if stage == StageNone {
			continue
		}
		stages[stage].WriteString(line)
		stages[stage].WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return Source{}, fmt.Errorf("read shader source: %w", err)
	}

	src := Source{Vertex: stages[StageVertex].String(), Fragment: stages[StageFragment].String()}
	if err := src.Validate(); err != nil {
		return Source{}, err
	}
	return src, nil
}

// Validate reports a missing stage.
func (s Source) Validate() error {
	if strings.TrimSpace(s.Vertex) == "" {
		return fmt.Errorf("%w: vertex", ErrMissingStage)
	}
	if strings.TrimSpace(s.Fragment) == "" {
		return fmt.Errorf("%w: fragment", ErrMissingStage)
	}
	return nil
}

// LoadSource parses the shader file at path.
func LoadSource(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("open shader: %w", err)
	}
	defer f.Close()

	src, err := ParseSource(f)
	if err != nil {
		return Source{}, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}
