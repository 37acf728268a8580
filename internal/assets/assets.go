package assets

import _ "embed"

// BasicShader is the default two-stage shader used when no shader file is
// configured. It draws in a single color taken from the u_Color uniform.
//
//go:embed shaders/basic.shader
var BasicShader []byte
